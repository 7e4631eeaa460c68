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

package memorymap_test

import (
	"testing"

	"github.com/jetsetilly/rp2040emu/hardware/rp2040/memorymap"
	"github.com/jetsetilly/rp2040emu/test"
)

func TestRegion(t *testing.T) {
	test.ExpectEquality(t, memorymap.Region(0x00000000), memorymap.BootROM)
	test.ExpectEquality(t, memorymap.Region(0x00003fff), memorymap.BootROM)
	test.ExpectEquality(t, memorymap.Region(0x00004000), memorymap.Unmapped)
	test.ExpectEquality(t, memorymap.Region(0x10000000), memorymap.Flash)
	test.ExpectEquality(t, memorymap.Region(0x13ffffff), memorymap.Flash)
	test.ExpectEquality(t, memorymap.Region(0x18000028), memorymap.XIP)
	test.ExpectEquality(t, memorymap.Region(0x20000000), memorymap.SRAM)
	test.ExpectEquality(t, memorymap.Region(0x20041fff), memorymap.SRAM)
	test.ExpectEquality(t, memorymap.Region(0x20042000), memorymap.Unmapped)
	test.ExpectEquality(t, memorymap.Region(0x40034000), memorymap.APB)
	test.ExpectEquality(t, memorymap.Region(0xd0000014), memorymap.SIO)
	test.ExpectEquality(t, memorymap.Region(0xe000e100), memorymap.PPB)
	test.ExpectEquality(t, memorymap.SRAM.String(), "SRAM")
}

func TestPeripheralKey(t *testing.T) {
	test.ExpectEquality(t, memorymap.PeripheralKey(0x40034000), uint32(0x40034))
	test.ExpectEquality(t, memorymap.PeripheralKey(0x40037fff), uint32(0x40034))
	test.ExpectEquality(t, memorymap.PeripheralKey(0x40038000), uint32(0x40038))
	test.ExpectEquality(t, memorymap.PeripheralOffset(0x40034018), uint32(0x18))
	test.ExpectEquality(t, memorymap.PeripheralOffset(0x40037018), uint32(0x3018))

	// every APB peripheral has a unique key
	keys := make(map[uint32]bool)
	for _, p := range memorymap.APBPeripherals {
		test.ExpectFailure(t, keys[p.Key()], p.Name)
		keys[p.Key()] = true
	}
}
