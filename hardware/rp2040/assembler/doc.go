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

// Package assembler produces Thumb machine code for the ARMv6-M instruction
// set. It is used to build the boot ROM image and by tests that need small
// programs.
//
// The encoding functions return the opcode for a single instruction. Fields
// that are too wide are truncated. The Program type builds a sequence of
// instructions with labels and checks that every field is in range:
//
//	p := assembler.NewProgram(0x20000000)
//	p.Label("loop")
//	p.SubsImm(0, 1)
//	p.Bcond(assembler.NE, "loop")
//	p.Bkpt(0)
//	code, err := p.Assemble()
//
// 32bit instructions are returned as a uint32 with the first halfword in the
// low 16 bits. Written to memory in little-endian order the halfwords are in
// the order the processor expects.
package assembler
