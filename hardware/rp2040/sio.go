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
	"strings"

	"github.com/jetsetilly/rp2040emu/hardware/rp2040/faults"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/memorymap"
	"github.com/jetsetilly/rp2040emu/logger"
)

// sio is the single-cycle IO block. only the GPIO output set and clear
// registers are emulated.
type sio struct {
	gpioOut uint32
}

func (s *sio) reset() {
	s.gpioOut = 0
}

// GPIOOut returns the state of the GPIO outputs as set by the SIO block.
func (mcu *RP2040) GPIOOut() uint32 {
	return mcu.sio.gpioOut
}

func pinList(mask uint32) string {
	var pins []string
	for i := 0; i < 32; i++ {
		if mask&(1<<i) != 0 {
			pins = append(pins, fmt.Sprintf("%d", i))
		}
	}
	return strings.Join(pins, ", ")
}

func (mcu *RP2040) sioWrite(offset uint32, value uint32) {
	switch offset {
	case memorymap.SIOGPIOOutSet:
		mcu.sio.gpioOut |= value
		logger.Logf(mcu, "SIO", "GPIO pins %s set to HIGH", pinList(value))
	case memorymap.SIOGPIOOutClr:
		mcu.sio.gpioOut &^= value
		logger.Logf(mcu, "SIO", "GPIO pins %s set to LOW", pinList(value))
	default:
		logger.Logf(mcu, "SIO", "unhandled write to %#03x: %08x", offset, value)
		mcu.Faults.NewEntry("SIO write", faults.UnhandledRegister, mcu.instructionPC, memorymap.SIOOrigin+offset)
	}
}
