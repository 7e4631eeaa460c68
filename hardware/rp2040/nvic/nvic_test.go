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

package nvic_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/rp2040emu/hardware/rp2040/nvic"
	"github.com/jetsetilly/rp2040emu/logger"
	"github.com/jetsetilly/rp2040emu/test"
)

func TestRegisters(t *testing.T) {
	n := nvic.NewNVIC()
	test.ExpectFailure(t, n.Updated())

	n.HookWrite(nvic.ISER, 0x00000005)
	test.ExpectEquality(t, n.Enabled(), uint32(0x00000005))
	test.ExpectSuccess(t, n.Updated())

	n.HookWrite(nvic.ICER, 0x00000001)
	test.ExpectEquality(t, n.Enabled(), uint32(0x00000004))

	n.HookWrite(nvic.ISPR, 0x00000006)
	test.ExpectEquality(t, n.Pending(), uint32(0x00000006))
	n.HookWrite(nvic.ICPR, 0x00000002)
	test.ExpectEquality(t, n.Pending(), uint32(0x00000004))

	// all four mask registers read back the pending mask
	for _, a := range []uint32{nvic.ISER, nvic.ICER, nvic.ISPR, nvic.ICPR} {
		test.ExpectEquality(t, n.HookRead(a), uint32(0x00000004), a)
	}
}

type permission bool

func (p permission) AllowLogging() bool {
	return bool(p)
}

func TestUnknownRegister(t *testing.T) {
	const unknown = uint32(0xe000ed00)

	n := nvic.NewNVIC()
	n.Permission = permission(false)

	// the permission survives a reset
	n.Reset()

	logger.Clear()
	test.ExpectEquality(t, n.HookRead(unknown), uint32(0))
	n.HookWrite(unknown, 1)
	w := &test.Writer{}
	logger.Write(w)
	test.ExpectEquality(t, w.String(), "")

	n.Permission = permission(true)
	n.HookWrite(unknown, 1)
	logger.Write(w)
	test.ExpectSuccess(t, strings.Contains(w.String(), "nvic: write to unknown register e000ed00"))
}

func TestUpdatedFlag(t *testing.T) {
	n := nvic.NewNVIC()

	// clearing pending interrupts cannot make an interrupt eligible
	n.HookWrite(nvic.ICPR, 0xffffffff)
	test.ExpectFailure(t, n.Updated())

	n.HookWrite(nvic.IPR0, 0)
	test.ExpectSuccess(t, n.Updated())

	// nothing to select so the flag is cleared
	_, ok := n.Select(nvic.LowestPriority)
	test.ExpectFailure(t, ok)
	test.ExpectFailure(t, n.Updated())
}

func TestPriorityRegisters(t *testing.T) {
	n := nvic.NewNVIC()

	// every interrupt begins at priority zero
	for a := nvic.IPR0; a <= nvic.IPR7; a += 4 {
		test.ExpectEquality(t, n.HookRead(a), uint32(0), a)
	}

	// IRQ4 = 3, IRQ5 = 2, IRQ6 = 1, IRQ7 = 0
	n.HookWrite(nvic.IPR0+4, 0x004080c0)
	test.ExpectEquality(t, n.HookRead(nvic.IPR0+4), uint32(0x004080c0))
	test.ExpectEquality(t, n.ExceptionPriority(nvic.IRQBase+4), 3)
	test.ExpectEquality(t, n.ExceptionPriority(nvic.IRQBase+5), 2)
	test.ExpectEquality(t, n.ExceptionPriority(nvic.IRQBase+6), 1)
	test.ExpectEquality(t, n.ExceptionPriority(nvic.IRQBase+7), 0)

	// the unimplemented bits are ignored
	n.HookWrite(nvic.IPR7, 0xffffffff)
	test.ExpectEquality(t, n.HookRead(nvic.IPR7), uint32(0xc0c0c0c0))

	p := n.Priorities()
	test.ExpectEquality(t, p[3], uint32(0xf0000010))
	test.ExpectEquality(t, p[2], uint32(0x00000020))
	test.ExpectEquality(t, p[1], uint32(0x00000040))
	test.ExpectEquality(t, p[0], uint32(0x0fffff8f))

	// every interrupt is in exactly one priority level
	test.ExpectEquality(t, p[0]|p[1]|p[2]|p[3], uint32(0xffffffff))
	test.ExpectEquality(t, p[0]&p[1]|p[0]&p[2]|p[0]&p[3]|p[1]&p[2]|p[1]&p[3]|p[2]&p[3], uint32(0))
}

func TestSystemPriorities(t *testing.T) {
	n := nvic.NewNVIC()
	test.ExpectEquality(t, n.ExceptionPriority(nvic.Reset), -3)
	test.ExpectEquality(t, n.ExceptionPriority(nvic.NMI), -2)
	test.ExpectEquality(t, n.ExceptionPriority(nvic.HardFault), -1)
	test.ExpectEquality(t, n.ExceptionPriority(0), nvic.LowestPriority)
	test.ExpectEquality(t, n.ExceptionPriority(5), nvic.LowestPriority)

	n.HookWrite(nvic.SHPR2, 0x80000000)
	n.HookWrite(nvic.SHPR3, 0xffffffff)
	test.ExpectEquality(t, n.HookRead(nvic.SHPR2), uint32(0x80000000))
	test.ExpectEquality(t, n.HookRead(nvic.SHPR3), uint32(0xc0c00000))
	test.ExpectEquality(t, n.ExceptionPriority(nvic.SVCall), 2)
	test.ExpectEquality(t, n.ExceptionPriority(nvic.PendSV), 3)
	test.ExpectEquality(t, n.ExceptionPriority(nvic.SysTick), 3)

	n.HookWrite(nvic.SHPR3, 0x40800000)
	test.ExpectEquality(t, n.ExceptionPriority(nvic.PendSV), 2)
	test.ExpectEquality(t, n.ExceptionPriority(nvic.SysTick), 1)
}

func TestSelect(t *testing.T) {
	n := nvic.NewNVIC()

	// IRQ3 and IRQ9 at priority 2, IRQ12 at priority 1
	n.SetPriority(3, 2)
	n.SetPriority(9, 2)
	n.SetPriority(12, 1)

	n.SetPending(3)
	n.SetPending(9)
	n.SetPending(12)

	// nothing is enabled
	_, ok := n.Select(nvic.LowestPriority)
	test.ExpectFailure(t, ok)

	n.SetEnabled(3, true)
	n.SetEnabled(9, true)

	exc, ok := n.Select(nvic.LowestPriority)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, exc, nvic.IRQBase+3)

	// IRQ12 is more urgent once it is enabled
	n.SetEnabled(12, true)
	exc, ok = n.Select(nvic.LowestPriority)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, exc, nvic.IRQBase+12)

	// interrupts must be strictly more urgent than the current priority
	_, ok = n.Select(1)
	test.ExpectFailure(t, ok)
	exc, ok = n.Select(2)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, exc, nvic.IRQBase+12)

	n.ClearPending(12)
	exc, ok = n.Select(3)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, exc, nvic.IRQBase+3)

	// a priority of zero blocks everything
	_, ok = n.Select(0)
	test.ExpectFailure(t, ok)
}

// exhaustively check that selection always picks the lowest numbered
// interrupt from the most urgent eligible level, and never an interrupt that
// is not both pending and enabled.
func TestSelectProperty(t *testing.T) {
	masks := []uint32{0, 1, 0x80000000, 0x00010100, 0xffffffff, 0x0f0f0f0f, 0xa5a5a5a5, 0x00000300}

	for _, pending := range masks {
		for _, enabled := range masks {
			for _, shuffle := range []uint32{0, 0x12345678, 0xdeadbeef} {
				n := nvic.NewNVIC()
				n.HookWrite(nvic.ISPR, pending)
				n.HookWrite(nvic.ISER, enabled)
				for irq := 0; irq < nvic.NumIRQ; irq++ {
					n.SetPriority(irq, (shuffle>>irq)&0x03)
				}

				for current := 0; current <= nvic.LowestPriority; current++ {
					exc, ok := n.Select(current)

					// work out the expected result the long way
					expected := -1
					for p := 0; p < current && expected == -1; p++ {
						for irq := 0; irq < nvic.NumIRQ; irq++ {
							bit := uint32(1) << irq
							if pending&bit != 0 && enabled&bit != 0 && n.ExceptionPriority(irq+nvic.IRQBase) == p {
								expected = irq
								break
							}
						}
					}

					if expected == -1 {
						test.ExpectFailure(t, ok, pending, enabled, current)
					} else {
						test.ExpectSuccess(t, ok, pending, enabled, current)
						test.ExpectEquality(t, exc, expected+nvic.IRQBase, pending, enabled, current)
					}
				}
			}
		}
	}
}
