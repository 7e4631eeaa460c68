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
	"fmt"
)

// DisasmEntry is the disassembly of a single instruction.
type DisasmEntry struct {
	// the address value. the formatted value is in the Address field
	Addr uint32

	// the opcode for the instruction. in the case of a 32bit instruction
	// Opcode is the second halfword and OpcodeHi is the first
	Opcode   uint16
	Is32bit  bool
	OpcodeHi uint16

	// formatted strings for use by disassemblies
	Address  string
	Operator string
	Operand  string
}

// String returns a very simple representation of the disassembly entry.
func (e DisasmEntry) String() string {
	if e.Operand == "" {
		return e.Operator
	}
	return fmt.Sprintf("%s %s", e.Operator, e.Operand)
}

// Size of the instruction in bytes.
func (e DisasmEntry) Size() uint32 {
	if e.Is32bit {
		return 4
	}
	return 2
}

// Bytes returns the opcode formatted as hex.
func (e DisasmEntry) Bytes() string {
	if e.Is32bit {
		return fmt.Sprintf("%04x %04x", e.OpcodeHi, e.Opcode)
	}
	return fmt.Sprintf("%04x     ", e.Opcode)
}

// Disassemble the instruction at the address. Memory is read directly from
// the boot ROM, flash and SRAM arrays so that disassembly has no effect on the
// emulation. An address outside of those regions produces an entry with an
// empty Operator.
func (mcu *RP2040) Disassemble(addr uint32) DisasmEntry {
	addr &^= 1

	e := DisasmEntry{
		Addr:    addr,
		Address: fmt.Sprintf("%08x", addr),
	}

	opcode, ok := mcu.peek16(addr)
	if !ok {
		e.Operand = "not in memory"
		return e
	}

	var opcodeHi uint16
	if is32BitThumb(opcode) {
		opcodeHi, ok = mcu.peek16(addr + 2)
		if !ok {
			e.Opcode = opcode
			e.Operand = "incomplete 32bit instruction"
			return e
		}
		e.Is32bit = true
		e.OpcodeHi = opcode
		e.Opcode = opcodeHi
	} else {
		e.Opcode = opcode
	}

	// PC relative instructions use the instruction address
	instructionPC := mcu.instructionPC
	mcu.instructionPC = addr
	mcu.decodeOnly = true
	defer func() {
		mcu.decodeOnly = false
		mcu.instructionPC = instructionPC
	}()

	d := mcu.decodeThumb(opcode, opcodeHi)()
	if d != nil {
		e.Operator = d.Operator
		e.Operand = d.Operand
	}

	return e
}
