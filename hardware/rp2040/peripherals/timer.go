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

package peripherals

import (
	"time"
)

// Timer register offsets.
const (
	TIMEHR   = 0x08
	TIMELR   = 0x0c
	TIMERAWH = 0x24
	TIMERAWL = 0x28
)

// Clock returns the number of microseconds since some fixed point in time.
type Clock func() uint64

// WallClock returns a Clock that counts microseconds from the moment
// WallClock() is called.
func WallClock() Clock {
	start := time.Now()
	return func() uint64 {
		return uint64(time.Since(start).Microseconds())
	}
}

// Timer is the 64bit microsecond timer. Reading the low word of the latched
// registers (TIMELR) latches the high word (TIMEHR) so that the two halves
// of the 64bit value are consistent.
//
// Alarms are not implemented.
type Timer struct {
	Logging

	clock Clock

	// high word latched by the most recent read of TIMELR
	latchedHigh uint32
}

// NewTimer is the preferred method of initialisation for the Timer type. If
// clock is nil then the WallClock is used.
func NewTimer(name string, clock Clock) *Timer {
	if clock == nil {
		clock = WallClock()
	}
	return &Timer{
		Logging: Logging{name: name},
		clock:   clock,
	}
}

// ReadUint32 implements the Peripheral interface.
func (p *Timer) ReadUint32(offset uint32) uint32 {
	switch offset {
	case TIMEHR:
		return p.latchedHigh
	case TIMELR:
		t := p.clock()
		p.latchedHigh = uint32(t >> 32)
		return uint32(t)
	case TIMERAWH:
		return uint32(p.clock() >> 32)
	case TIMERAWL:
		return uint32(p.clock())
	}
	return p.Logging.ReadUint32(offset)
}
