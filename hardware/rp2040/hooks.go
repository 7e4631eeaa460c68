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

package rp2040

import (
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/memorymap"
	"github.com/jetsetilly/rp2040emu/logger"
)

// ReadHook is implemented by anything that can supply the value of a bus
// address.
type ReadHook interface {
	HookRead(addr uint32) uint32
}

// WriteHook is implemented by anything that can accept a write to a bus
// address.
type WriteHook interface {
	HookWrite(addr uint32, value uint32)
}

// ReadHookFunc is an adaptor that allows a function to be used as a ReadHook.
type ReadHookFunc func(addr uint32) uint32

// HookRead implements the ReadHook interface.
func (f ReadHookFunc) HookRead(addr uint32) uint32 {
	return f(addr)
}

// WriteHookFunc is an adaptor that allows a function to be used as a
// WriteHook.
type WriteHookFunc func(addr uint32, value uint32)

// HookWrite implements the WriteHook interface.
func (f WriteHookFunc) HookWrite(addr uint32, value uint32) {
	f(addr, value)
}

type hookTable struct {
	read  map[uint32]ReadHook
	write map[uint32]WriteHook
}

func newHookTable() hookTable {
	return hookTable{
		read:  make(map[uint32]ReadHook),
		write: make(map[uint32]WriteHook),
	}
}

// AddReadHook adds a hook for reads of the address. The address must be word
// aligned. Hooks are only consulted for addresses that are not memory, not in
// a peripheral and not in the SIO block, so a hook can never replace those.
func (mcu *RP2040) AddReadHook(addr uint32, hook ReadHook) {
	mcu.hooks.read[addr] = hook
}

// AddWriteHook adds a hook for writes to the address. The same restrictions
// as AddReadHook() apply.
func (mcu *RP2040) AddWriteHook(addr uint32, hook WriteHook) {
	mcu.hooks.write[addr] = hook
}

// RemoveHooks removes the read and write hooks for the address.
func (mcu *RP2040) RemoveHooks(addr uint32) {
	delete(mcu.hooks.read, addr)
	delete(mcu.hooks.write, addr)
}

// constant is a read hook that always returns the same value.
type constant uint32

func (c constant) HookRead(_ uint32) uint32 {
	return uint32(c)
}

// ssiDataRegister stands in for the data register of the XIP SSI. The flash
// second stage bootloader sends the read status command and waits for the
// status to indicate that the write has completed.
type ssiDataRegister struct {
	dr0 uint32
}

// command sent by the second stage bootloader
const ssiReadStatus = 0x05

func (r *ssiDataRegister) HookRead(_ uint32) uint32 {
	return r.dr0
}

func (r *ssiDataRegister) HookWrite(_ uint32, value uint32) {
	if value == ssiReadStatus {
		r.dr0 = 1
	}
}

// the transmit FIFO empty bit of the SSI status register
const ssiStatusTFE = 0x04

// systemControl holds the registers of the system control block that are
// used by the emulation.
type systemControl struct {
	vtor uint32
	perm logger.Permission
}

func (scb *systemControl) reset() {
	scb.vtor = 0
}

func (scb *systemControl) HookRead(addr uint32) uint32 {
	return scb.vtor
}

func (scb *systemControl) HookWrite(addr uint32, value uint32) {
	// the table is aligned to 256 bytes
	scb.vtor = value &^ 0xff
	logger.Logf(scb.perm, "RP2040", "vector table moved to %08x", scb.vtor)
}

// VTOR returns the address of the vector table.
func (mcu *RP2040) VTOR() uint32 {
	return mcu.scb.vtor
}

// SetVTOR sets the address of the vector table.
func (mcu *RP2040) SetVTOR(addr uint32) {
	mcu.scb.HookWrite(memorymap.VTOR, addr)
}

// installHooks adds the hooks required by the emulation.
func (mcu *RP2040) installHooks() {
	// the emulation only has one core
	mcu.AddReadHook(memorymap.SIOOrigin+memorymap.SIOCPUID, constant(0))

	mcu.AddReadHook(memorymap.SSISR, constant(ssiStatusTFE))
	ssi := &ssiDataRegister{}
	mcu.AddReadHook(memorymap.SSIDR0, ssi)
	mcu.AddWriteHook(memorymap.SSIDR0, ssi)

	mcu.AddReadHook(memorymap.ClkRefSelected, constant(1))
	mcu.AddReadHook(memorymap.ClkSysSelected, constant(1))

	mcu.AddReadHook(memorymap.VTOR, &mcu.scb)
	mcu.AddWriteHook(memorymap.VTOR, &mcu.scb)

	for _, a := range mcu.NVIC.Addresses() {
		mcu.AddReadHook(a, mcu.NVIC)
		mcu.AddWriteHook(a, mcu.NVIC)
	}
}
