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

package nvic

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/jetsetilly/rp2040emu/logger"
)

// Exception numbers of the system exceptions. External interrupt n is
// exception n+IRQBase.
const (
	Reset     = 1
	NMI       = 2
	HardFault = 3
	SVCall    = 11
	PendSV    = 14
	SysTick   = 15
	IRQBase   = 16
)

// NumIRQ is the number of external interrupts.
const NumIRQ = 32

// LowestPriority is one less urgent than the least urgent configurable
// priority. It is the priority of thread mode.
const LowestPriority = 4

// Register addresses in the private peripheral bus.
const (
	ISER  = uint32(0xe000e100)
	ICER  = uint32(0xe000e180)
	ISPR  = uint32(0xe000e200)
	ICPR  = uint32(0xe000e280)
	IPR0  = uint32(0xe000e400)
	IPR7  = uint32(0xe000e41c)
	SHPR2 = uint32(0xe000ed1c)
	SHPR3 = uint32(0xe000ed20)
)

// implemented bits of the system handler priority registers
const (
	shpr2Mask = 0xc0000000
	shpr3Mask = 0xc0c00000
)

// NVIC is the nested vectored interrupt controller.
type NVIC struct {
	pending uint32
	enabled uint32

	// each entry is the mask of interrupts at that priority. every
	// interrupt appears in exactly one entry
	priorities [LowestPriority]uint32

	nmiMask uint32

	shpr2 uint32
	shpr3 uint32

	// something has changed which means there may be an interrupt to take
	updated bool

	// Permission governs logging of accesses to unknown registers. If it is
	// nil then logging is always allowed
	Permission logger.Permission
}

func (n *NVIC) permission() logger.Permission {
	if n.Permission == nil {
		return logger.Allow
	}
	return n.Permission
}

// NewNVIC is the preferred method of initialisation for the NVIC type.
func NewNVIC() *NVIC {
	n := &NVIC{}
	n.Reset()
	return n
}

// Reset the controller. All interrupts are disabled and given the highest
// priority.
func (n *NVIC) Reset() {
	*n = NVIC{Permission: n.Permission}
	n.priorities[0] = 0xffffffff
}

func (n *NVIC) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("pending: %08x enabled: %08x", n.pending, n.enabled))
	for p, m := range n.priorities {
		s.WriteString(fmt.Sprintf(" p%d: %08x", p, m))
	}
	return s.String()
}

// Pending returns the mask of pending interrupts.
func (n *NVIC) Pending() uint32 {
	return n.pending
}

// Enabled returns the mask of enabled interrupts.
func (n *NVIC) Enabled() uint32 {
	return n.enabled
}

// Priorities returns the interrupt masks for each priority level.
func (n *NVIC) Priorities() [LowestPriority]uint32 {
	return n.priorities
}

// Updated returns true if the state of the controller has changed in a way
// that means an interrupt may need to be taken.
func (n *NVIC) Updated() bool {
	return n.updated
}

// SetUpdated indicates that an interrupt may need to be taken. Used when
// something outside the controller, for example the PRIMASK register, has
// changed.
func (n *NVIC) SetUpdated() {
	n.updated = true
}

// NMIMask implements the peripherals.NMIMasker interface.
func (n *NVIC) NMIMask() uint32 {
	return n.nmiMask
}

// SetNMIMask implements the peripherals.NMIMasker interface.
func (n *NVIC) SetNMIMask(mask uint32) {
	n.nmiMask = mask
}

// SetPending raises the external interrupt.
func (n *NVIC) SetPending(irq int) {
	n.pending |= 1 << irq
	n.updated = true
}

// ClearPending lowers the external interrupt.
func (n *NVIC) ClearPending(irq int) {
	n.pending &^= 1 << irq
}

// SetEnabled enables or disables the external interrupt.
func (n *NVIC) SetEnabled(irq int, enabled bool) {
	if enabled {
		n.enabled |= 1 << irq
	} else {
		n.enabled &^= 1 << irq
	}
	n.updated = true
}

// SetPriority sets the priority of the external interrupt. Only the two least
// significant bits of the priority are used.
func (n *NVIC) SetPriority(irq int, priority uint32) {
	for p := range n.priorities {
		n.priorities[p] &^= 1 << irq
	}
	n.priorities[priority&0x03] |= 1 << irq
	n.updated = true
}

// Addresses returns the address of every register in the controller.
func (n *NVIC) Addresses() []uint32 {
	addrs := []uint32{ISER, ICER, ISPR, ICPR, SHPR2, SHPR3}
	for a := IPR0; a <= IPR7; a += 4 {
		addrs = append(addrs, a)
	}
	return addrs
}

// HookRead returns the value of the register at the address.
func (n *NVIC) HookRead(addr uint32) uint32 {
	switch addr {
	case ISER, ICER, ISPR, ICPR:
		return n.pending
	case SHPR2:
		return n.shpr2
	case SHPR3:
		return n.shpr3
	}

	if addr >= IPR0 && addr <= IPR7 {
		idx := int(addr-IPR0) >> 2
		var v uint32
		for b := 0; b < 4; b++ {
			irq := idx*4 + b
			for p, m := range n.priorities {
				if m&(1<<irq) != 0 {
					v |= uint32(p) << (6 + 8*b)
				}
			}
		}
		return v
	}

	logger.Logf(n.permission(), "nvic", "read from unknown register %08x", addr)
	return 0
}

// HookWrite writes the value to the register at the address.
func (n *NVIC) HookWrite(addr uint32, value uint32) {
	switch addr {
	case ISER:
		n.enabled |= value
		n.updated = true
		return
	case ICER:
		n.enabled &^= value
		n.updated = true
		return
	case ISPR:
		n.pending |= value
		n.updated = true
		return
	case ICPR:
		n.pending &^= value
		return
	case SHPR2:
		n.shpr2 = value & shpr2Mask
		return
	case SHPR3:
		n.shpr3 = value & shpr3Mask
		return
	}

	if addr >= IPR0 && addr <= IPR7 {
		idx := int(addr-IPR0) >> 2
		for b := 0; b < 4; b++ {
			irq := idx*4 + b
			p := (value >> (6 + 8*b)) & 0x03
			for i := range n.priorities {
				n.priorities[i] &^= 1 << irq
			}
			n.priorities[p] |= 1 << irq
		}
		n.updated = true
		return
	}

	logger.Logf(n.permission(), "nvic", "write to unknown register %08x: %08x", addr, value)
}

// ExceptionPriority returns the priority of the exception. Lower values are
// more urgent. Reset, NMI and HardFault have fixed negative priorities.
func (n *NVIC) ExceptionPriority(exception int) int {
	switch exception {
	case Reset:
		return -3
	case NMI:
		return -2
	case HardFault:
		return -1
	case SVCall:
		return int(n.shpr2 >> 30)
	case PendSV:
		return int((n.shpr3 >> 22) & 0x03)
	case SysTick:
		return int(n.shpr3 >> 30)
	}

	if exception < IRQBase || exception >= IRQBase+NumIRQ {
		return LowestPriority
	}

	irq := exception - IRQBase
	for p, m := range n.priorities {
		if m&(1<<irq) != 0 {
			return p
		}
	}
	return LowestPriority
}

// Select chooses the exception that should be taken next. Interrupts are only
// considered if their priority is more urgent than the current priority.
// The most urgent priority level with a pending and enabled interrupt is
// chosen and within that level the lowest numbered interrupt is selected.
//
// The pending bit is not cleared. If there is nothing to take then the
// updated flag is cleared.
func (n *NVIC) Select(current int) (int, bool) {
	set := n.pending & n.enabled
	for p := 0; p < current && p < LowestPriority; p++ {
		if m := set & n.priorities[p]; m != 0 {
			return bits.TrailingZeros32(m) + IRQBase, true
		}
	}
	n.updated = false
	return 0, false
}
