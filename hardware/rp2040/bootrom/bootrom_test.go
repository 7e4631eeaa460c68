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

package bootrom_test

import (
	"encoding/binary"
	"testing"

	"github.com/jetsetilly/rp2040emu/hardware/rp2040"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/assembler"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/bootrom"
	"github.com/jetsetilly/rp2040emu/test"
)

func TestImage(t *testing.T) {
	img, err := bootrom.Image()
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, binary.LittleEndian.Uint32(img[0x00:]), uint32(0x20042000))
	test.ExpectEquality(t, binary.LittleEndian.Uint32(img[0x04:]), uint32(bootrom.CodeOrigin|1))
	test.ExpectEquality(t, binary.LittleEndian.Uint32(img[0x08:]), uint32(0x117))
	test.ExpectEquality(t, binary.LittleEndian.Uint32(img[0x0c:]), uint32(0x117))
	test.ExpectEquality(t, string(img[0x10:0x12]), "Mu")
}

func TestBoot(t *testing.T) {
	img, err := bootrom.Image()
	test.DemandSuccess(t, err)

	mcu := rp2040.NewRP2040(nil)
	test.DemandSuccess(t, mcu.LoadBootROM(img))

	// second stage bootloader that sets a register and stops
	boot2 := assembler.NewProgram(bootrom.Boot2Origin)
	boot2.MovsImm(0, 42)
	boot2.Mov(1, assembler.LR)
	boot2.Bkpt(1)
	code, err := boot2.Assemble()
	test.DemandSuccess(t, err)
	copy(mcu.Flash, code)

	// the last word of the second stage is copied too
	binary.LittleEndian.PutUint32(mcu.Flash[bootrom.Boot2Size-4:], 0xcafef00d)

	mcu.Reset()
	test.ExpectEquality(t, mcu.SP(), uint32(bootrom.InitialSP))
	test.ExpectEquality(t, mcu.PC(), uint32(bootrom.CodeOrigin))

	test.DemandSuccess(t, mcu.Execute())
	test.ExpectEquality(t, mcu.BreakCount(), 1)
	test.ExpectEquality(t, mcu.Register(0), uint32(42))
	test.ExpectEquality(t, mcu.Register(1), uint32(0))
	test.ExpectEquality(t, mcu.PC(), uint32(bootrom.Boot2Origin+6))
	test.ExpectEquality(t, mcu.ReadUint32(bootrom.InitialSP-4), uint32(0xcafef00d))
}
