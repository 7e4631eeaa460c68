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
	"strings"
)

// Status is the flags part of the APSR.
type Status struct {
	Negative bool
	Zero     bool
	Carry    bool
	Overflow bool
}

// bit positions of the flags in the APSR
const (
	apsrN = 1 << 31
	apsrZ = 1 << 30
	apsrC = 1 << 29
	apsrV = 1 << 28
)

func (sr Status) String() string {
	s := strings.Builder{}

	if sr.Negative {
		s.WriteRune('N')
	} else {
		s.WriteRune('n')
	}
	if sr.Zero {
		s.WriteRune('Z')
	} else {
		s.WriteRune('z')
	}
	if sr.Carry {
		s.WriteRune('C')
	} else {
		s.WriteRune('c')
	}
	if sr.Overflow {
		s.WriteRune('V')
	} else {
		s.WriteRune('v')
	}

	return s.String()
}

// APSR returns the flags as they appear in the APSR.
func (sr Status) APSR() uint32 {
	var v uint32
	if sr.Negative {
		v |= apsrN
	}
	if sr.Zero {
		v |= apsrZ
	}
	if sr.Carry {
		v |= apsrC
	}
	if sr.Overflow {
		v |= apsrV
	}
	return v
}

// SetAPSR sets the flags from an APSR value. Bits other than the flags are
// ignored.
func (sr *Status) SetAPSR(v uint32) {
	sr.Negative = v&apsrN == apsrN
	sr.Zero = v&apsrZ == apsrZ
	sr.Carry = v&apsrC == apsrC
	sr.Overflow = v&apsrV == apsrV
}

func (sr *Status) isNegative(a uint32) {
	sr.Negative = a&0x80000000 == 0x80000000
}

func (sr *Status) isZero(a uint32) {
	sr.Zero = a == 0x00
}

// setNZ sets the negative and zero flags from the result of an instruction.
func (sr *Status) setNZ(result uint32) {
	sr.isNegative(result)
	sr.isZero(result)
}

// isCarry sets the carry flag for the addition a + b + c. c must be 0 or 1.
func (sr *Status) isCarry(a, b, c uint32) {
	d := (a & 0x7fffffff) + (b & 0x7fffffff) + c
	d = (d >> 31) + (a >> 31) + (b >> 31)
	sr.Carry = d&0x02 == 0x02
}

// isOverflow sets the overflow flag for the addition a + b + c. c must be 0 or
// 1.
func (sr *Status) isOverflow(a, b, c uint32) {
	d := (a & 0x7fffffff) + (b & 0x7fffffff) + c
	d >>= 31
	e := (d & 0x01) + ((a >> 31) & 0x01) + ((b >> 31) & 0x01)
	e >>= 1
	sr.Overflow = (d^e)&0x01 == 0x01
}

// addWithCarry returns a + b + carry and sets all four flags. subtraction is
// performed by passing the inverse of the second operand with a carry of one.
func (sr *Status) addWithCarry(a, b uint32, carry bool) uint32 {
	var c uint32
	if carry {
		c = 1
	}
	result := a + b + c
	sr.isCarry(a, b, c)
	sr.isOverflow(a, b, c)
	sr.setNZ(result)
	return result
}

// add sets flags for a + b.
func (sr *Status) add(a, b uint32) uint32 {
	return sr.addWithCarry(a, b, false)
}

// sub sets flags for a - b. the carry flag is set if there is no borrow.
func (sr *Status) sub(a, b uint32) uint32 {
	return sr.addWithCarry(a, ^b, true)
}

// shift functions set the carry flag to the last bit shifted out. a shift of
// zero leaves the carry flag unchanged. the negative and zero flags are not
// affected.

func (sr *Status) lsl(a uint32, n uint32) uint32 {
	switch {
	case n == 0:
		return a
	case n < 32:
		sr.Carry = (a>>(32-n))&0x01 == 0x01
		return a << n
	case n == 32:
		sr.Carry = a&0x01 == 0x01
	default:
		sr.Carry = false
	}
	return 0
}

func (sr *Status) lsr(a uint32, n uint32) uint32 {
	switch {
	case n == 0:
		return a
	case n < 32:
		sr.Carry = (a>>(n-1))&0x01 == 0x01
		return a >> n
	case n == 32:
		sr.Carry = a&0x80000000 == 0x80000000
	default:
		sr.Carry = false
	}
	return 0
}

func (sr *Status) asr(a uint32, n uint32) uint32 {
	switch {
	case n == 0:
		return a
	case n < 32:
		sr.Carry = (a>>(n-1))&0x01 == 0x01
		return uint32(int32(a) >> n)
	}
	sr.Carry = a&0x80000000 == 0x80000000
	return uint32(int32(a) >> 31)
}

func (sr *Status) ror(a uint32, n uint32) uint32 {
	if n == 0 {
		return a
	}
	n &= 0x1f
	if n != 0 {
		a = a>>n | a<<(32-n)
	}
	sr.Carry = a&0x80000000 == 0x80000000
	return a
}

// condition returns true if the condition is met by the current flags.
func (sr Status) condition(cond uint16) bool {
	switch cond {
	case 0b0000:
		return sr.Zero
	case 0b0001:
		return !sr.Zero
	case 0b0010:
		return sr.Carry
	case 0b0011:
		return !sr.Carry
	case 0b0100:
		return sr.Negative
	case 0b0101:
		return !sr.Negative
	case 0b0110:
		return sr.Overflow
	case 0b0111:
		return !sr.Overflow
	case 0b1000:
		// unsigned higher
		return sr.Carry && !sr.Zero
	case 0b1001:
		// unsigned lower or same
		return !sr.Carry || sr.Zero
	case 0b1010:
		return sr.Negative == sr.Overflow
	case 0b1011:
		return sr.Negative != sr.Overflow
	case 0b1100:
		return !sr.Zero && sr.Negative == sr.Overflow
	case 0b1101:
		return sr.Zero || sr.Negative != sr.Overflow
	}
	return true
}

var conditionMnemonic = [16]string{
	"eq", "ne", "cs", "cc", "mi", "pl", "vs", "vc",
	"hi", "ls", "ge", "lt", "gt", "le", "", "",
}
