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

// Package bootrom builds a minimal boot ROM for the emulated RP2040.
//
// The real boot ROM is not distributed with the emulator. The stub boot ROM
// does the one thing firmware relies on when booting from flash: it copies
// the 256 byte second stage bootloader from the start of flash to the top of
// SRAM and calls it with LR set to zero. NMI and HardFault are caught by an
// endless BKPT loop.
package bootrom

import (
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/assembler"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/memorymap"
)

// Addresses used by the boot ROM.
const (
	// initial stack pointer. the top of SRAM
	InitialSP = memorymap.SRAMOrigin + memorymap.SRAMSize

	// the second stage bootloader is copied to the last 256 bytes of SRAM
	Boot2Size   = 256
	Boot2Origin = InitialSP - Boot2Size

	// address of the boot ROM code
	CodeOrigin = 0x100
)

// the boot ROM magic value at offset 0x10. the version numbers are those of
// the B1 boot ROM
var magic = []byte{'M', 'u', 0x01, 0x01}

// Image returns the boot ROM image.
func Image() ([]byte, error) {
	p := assembler.NewProgram(memorymap.BootROMOrigin)

	// vector table
	p.Word(InitialSP)
	p.WordAddress("reset")
	p.WordAddress("hang")
	p.WordAddress("hang")
	p.Bytes(magic)

	p.Org(CodeOrigin)

	// copy the second stage bootloader to SRAM, one word at a time
	p.Label("reset")
	p.LdrLiteral(0, "flash")
	p.LdrLiteral(1, "boot2")
	p.MovsImm(2, Boot2Size/4)
	p.Label("copy")
	p.Ldmia(0, 1<<3)
	p.Stmia(1, 1<<3)
	p.SubsImm(2, 1)
	p.Bcond(assembler.NE, "copy")

	// call the second stage bootloader. an LR of zero tells it that it was
	// called by the boot ROM
	p.LdrLiteral(0, "entry")
	p.MovsImm(1, 0)
	p.Mov(assembler.LR, 1)
	p.Bx(0)

	p.Label("hang")
	p.Bkpt(0)
	p.B("hang")

	p.Align()
	p.Label("flash")
	p.Word(memorymap.FlashOrigin)
	p.Label("boot2")
	p.Word(Boot2Origin)
	p.Label("entry")
	p.Word(Boot2Origin | 1)

	return p.Assemble()
}
