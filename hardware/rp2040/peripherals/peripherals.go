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

// Package peripherals contains the memory mapped peripherals of the RP2040.
//
// Every peripheral occupies a 16KB block on the APB bus and is accessed with
// 32bit reads and writes at an offset into that block. Peripherals that are
// not modelled in detail are represented by the Logging type, which logs
// every access.
//
// The Registry type maps addresses to peripherals.
package peripherals

// Peripheral is implemented by all memory mapped peripherals.
type Peripheral interface {
	Name() string

	// offset is relative to the start of the peripheral's block
	ReadUint32(offset uint32) uint32
	WriteUint32(offset uint32, value uint32)
}

// atomicAlias is the start of the atomic XOR, SET and CLR aliases in every
// peripheral's block.
const atomicAlias = 0x1000
