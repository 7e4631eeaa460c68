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

package scripting_test

import (
	"testing"

	"github.com/jetsetilly/rp2040emu/curated"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040"
	"github.com/jetsetilly/rp2040emu/scripting"
	"github.com/jetsetilly/rp2040emu/test"
	"github.com/spf13/afero"
)

const hookAddr = uint32(0xe0001000)

func TestReadHook(t *testing.T) {
	mcu := rp2040.NewRP2040(nil)
	s := scripting.NewScript(mcu)
	defer s.Close()

	err := s.Run("test", []byte(`
		hook_read(0xe0001000, function(addr)
			return addr + 1
		end)
		hook_read(0xe0001008, function(addr)
			return -1
		end)
	`))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s.Hooks, 2)

	test.ExpectEquality(t, mcu.ReadUint32(hookAddr), hookAddr+1)
	test.ExpectEquality(t, mcu.ReadUint32(hookAddr+8), uint32(0xffffffff))
	test.ExpectEquality(t, s.Errors, 0)
}

func TestWriteHook(t *testing.T) {
	mcu := rp2040.NewRP2040(nil)
	s := scripting.NewScript(mcu)
	defer s.Close()

	err := s.Run("test", []byte(`
		local stored = 0
		hook_write(0xe0001004, function(addr, value)
			stored = value
		end)
		hook_read(0xe0001004, function(addr)
			return stored
		end)
	`))
	test.DemandSuccess(t, err)

	mcu.WriteUint32(hookAddr+4, 0xdeadbeef)
	test.ExpectEquality(t, mcu.ReadUint32(hookAddr+4), uint32(0xdeadbeef))
}

func TestBusAccess(t *testing.T) {
	mcu := rp2040.NewRP2040(nil)
	s := scripting.NewScript(mcu)
	defer s.Close()

	mcu.WriteUint32(0x20000000, 0x1234)

	err := s.Run("test", []byte(`
		write(0x20000004, read(0x20000000) * 2)
		log("copied")
	`))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, mcu.ReadUint32(0x20000004), uint32(0x2468))
}

func TestHookErrors(t *testing.T) {
	mcu := rp2040.NewRP2040(nil)
	s := scripting.NewScript(mcu)
	defer s.Close()

	err := s.Run("test", []byte(`
		hook_read(0xe0001000, function(addr)
			error("broken")
		end)
		hook_read(0xe0001004, function(addr)
			return "not a number"
		end)
	`))
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, mcu.ReadUint32(hookAddr), uint32(0))
	test.ExpectEquality(t, mcu.ReadUint32(hookAddr+4), uint32(0))
	test.ExpectEquality(t, s.Errors, 2)
}

func TestScriptErrors(t *testing.T) {
	mcu := rp2040.NewRP2040(nil)
	s := scripting.NewScript(mcu)
	defer s.Close()

	// syntax error
	err := s.Run("syntax", []byte(`hook_read(`))
	test.ExpectEquality(t, curated.Is(err, scripting.ScriptError), true)

	// runtime error
	err = s.Run("runtime", []byte(`hook_read("abc")`))
	test.ExpectEquality(t, curated.Is(err, scripting.ScriptError), true)

	fs := afero.NewMemMapFs()
	err = s.Load(fs, "missing.lua")
	test.ExpectEquality(t, curated.Is(err, scripting.FileError), true)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	err := afero.WriteFile(fs, "hooks.lua", []byte(`hook_read(0xe0001000, function(addr) return 7 end)`), 0o644)
	test.DemandSuccess(t, err)

	mcu := rp2040.NewRP2040(nil)
	s := scripting.NewScript(mcu)
	defer s.Close()

	test.DemandSuccess(t, s.Load(fs, "hooks.lua"))
	test.ExpectEquality(t, mcu.ReadUint32(hookAddr), uint32(7))
}
