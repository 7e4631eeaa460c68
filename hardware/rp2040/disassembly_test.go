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

package rp2040_test

import (
	"testing"

	"github.com/jetsetilly/rp2040emu/test"
)

func TestDisassembly(t *testing.T) {
	mcu := newMCU()
	program(mcu, codeOrigin,
		0xb570,         // push {r4, r5, r6, lr}
		0x2580,         // movs r5, #128
		0x002e,         // movs r6, r5
		0x4825,         // ldr r0, [pc, #148]
		0x5f5d,         // ldrsh r5, [r3, r5]
		0x04ad,         // lsls r5, r5, #18
		0xd1fc,         // bne.n .-4
		0xf000, 0xf87e, // bl
		0x4770,         // bx lr
		0xc803,         // ldmia r0, {r0, r1}
		0xf3ef, 0x8110, // mrs r1, primask
		0xbe07,         // bkpt #7
		0xb100,         // cbz (not ARMv6-M)
	)

	expected := []string{
		"PUSH {R4, R5, R6, LR}",
		"MOVS R5, #$80",
		"MOVS R6, R5",
		"LDR R0, [PC, #$94] ; $2000109c",
		"LDRSH R5, [R3, R5]",
		"LSLS R5, R5, #18",
		"BNE $20001008",
		"BL $2000110e",
		"BX LR",
		"LDMIA R0, {R0, R1}",
		"MRS R1, PRIMASK",
		"BKPT #$07",
		"??? b100",
	}

	addr := codeOrigin
	for i, s := range expected {
		e := mcu.Disassemble(addr)
		test.ExpectEquality(t, e.String(), s, i)
		test.ExpectEquality(t, e.Addr, addr, i)
		addr += e.Size()
	}

	// disassembly has no effect on the processor
	test.ExpectEquality(t, mcu.PC(), codeOrigin)
	test.ExpectEquality(t, mcu.Register(0), uint32(0))
	test.ExpectEquality(t, mcu.BreakCount(), 0)
}

func TestDisassembly32bit(t *testing.T) {
	mcu := newMCU()
	program(mcu, codeOrigin, 0xf380, 0x8808) // msr msp, r0

	e := mcu.Disassemble(codeOrigin | 1)
	test.ExpectSuccess(t, e.Is32bit)
	test.ExpectEquality(t, e.Size(), uint32(4))
	test.ExpectEquality(t, e.OpcodeHi, uint16(0xf380))
	test.ExpectEquality(t, e.Opcode, uint16(0x8808))
	test.ExpectEquality(t, e.Address, "20001000")
	test.ExpectEquality(t, e.String(), "MSR MSP, R0")

	// addresses outside of memory
	e = mcu.Disassemble(0x30000000)
	test.ExpectEquality(t, e.Operator, "")
}
