// This file is part of rp2040emu.
//
// rp2040emu is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// rp2040emu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with rp2040emu.  If not, see <https://www.gnu.org/licenses/>.

package scripting

import (
	"bytes"
	"fmt"

	"github.com/jetsetilly/rp2040emu/curated"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040"
	"github.com/jetsetilly/rp2040emu/logger"
	"github.com/spf13/afero"
	lua "github.com/yuin/gopher-lua"
)

// Sentinal error patterns.
const (
	FileError   = "lua: %v"
	ScriptError = "lua: %s: %v"
)

// Bus is the part of the emulated RP2040 that the script has access to.
type Bus interface {
	AddReadHook(addr uint32, hook rp2040.ReadHook)
	AddWriteHook(addr uint32, hook rp2040.WriteHook)
	ReadUint32(addr uint32) uint32
	WriteUint32(addr uint32, value uint32)
}

// Script is a Lua environment attached to a Bus.
type Script struct {
	state *lua.LState
	bus   Bus

	// number of hooks registered by the script
	Hooks int

	// number of errors raised by hook functions
	Errors int
}

// NewScript is the preferred method of initialisation for the Script type.
// The Close() function should be called when the script is no longer
// required.
func NewScript(bus Bus) *Script {
	s := &Script{
		state: lua.NewState(),
		bus:   bus,
	}

	s.state.SetGlobal("hook_read", s.state.NewFunction(s.hookRead))
	s.state.SetGlobal("hook_write", s.state.NewFunction(s.hookWrite))
	s.state.SetGlobal("read", s.state.NewFunction(s.read))
	s.state.SetGlobal("write", s.state.NewFunction(s.write))
	s.state.SetGlobal("log", s.state.NewFunction(s.log))

	return s
}

// Close the Lua environment. Hooks registered by the script must not be
// called after the script has been closed.
func (s *Script) Close() {
	s.state.Close()
}

// Load the named file and run it.
func (s *Script) Load(fs afero.Fs, filename string) error {
	data, err := afero.ReadFile(fs, filename)
	if err != nil {
		return curated.Errorf(FileError, err)
	}
	return s.Run(filename, data)
}

// Run the Lua source. The name is used in error messages.
func (s *Script) Run(name string, source []byte) error {
	fn, err := s.state.Load(bytes.NewReader(source), name)
	if err != nil {
		return curated.Errorf(ScriptError, name, err)
	}

	s.state.Push(fn)
	if err := s.state.PCall(0, lua.MultRet, nil); err != nil {
		return curated.Errorf(ScriptError, name, err)
	}

	logger.Logf(logger.Allow, "lua", "%s: %d hooks", name, s.Hooks)

	return nil
}

func toUint32(v lua.LNumber) uint32 {
	return uint32(int64(v))
}

func (s *Script) hookRead(L *lua.LState) int {
	addr := toUint32(L.CheckNumber(1))
	fn := L.CheckFunction(2)

	s.bus.AddReadHook(addr, rp2040.ReadHookFunc(func(a uint32) uint32 {
		err := s.state.CallByParam(lua.P{
			Fn:      fn,
			NRet:    1,
			Protect: true,
		}, lua.LNumber(a))
		if err != nil {
			s.hookError(a, err)
			return 0
		}

		ret := s.state.Get(-1)
		s.state.Pop(1)

		n, ok := ret.(lua.LNumber)
		if !ok {
			s.hookError(a, fmt.Errorf("read hook returned %s", ret.Type()))
			return 0
		}
		return toUint32(n)
	}))
	s.Hooks++

	return 0
}

func (s *Script) hookWrite(L *lua.LState) int {
	addr := toUint32(L.CheckNumber(1))
	fn := L.CheckFunction(2)

	s.bus.AddWriteHook(addr, rp2040.WriteHookFunc(func(a uint32, value uint32) {
		err := s.state.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, lua.LNumber(a), lua.LNumber(value))
		if err != nil {
			s.hookError(a, err)
		}
	}))
	s.Hooks++

	return 0
}

func (s *Script) hookError(addr uint32, err error) {
	s.Errors++
	logger.Logf(logger.Allow, "lua", "hook %08x: %v", addr, err)
}

func (s *Script) read(L *lua.LState) int {
	addr := toUint32(L.CheckNumber(1))
	L.Push(lua.LNumber(s.bus.ReadUint32(addr)))
	return 1
}

func (s *Script) write(L *lua.LState) int {
	addr := toUint32(L.CheckNumber(1))
	value := toUint32(L.CheckNumber(2))
	s.bus.WriteUint32(addr, value)
	return 0
}

func (s *Script) log(L *lua.LState) int {
	logger.Log(logger.Allow, "lua", L.CheckString(1))
	return 0
}
