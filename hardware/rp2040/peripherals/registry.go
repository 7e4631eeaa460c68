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
	"slices"

	"github.com/jetsetilly/rp2040emu/hardware/rp2040/memorymap"
)

// Registry maps addresses to peripherals. Peripherals are keyed by the 16KB
// block containing their base address.
type Registry struct {
	peripherals map[uint32]Peripheral
}

// NewRegistry is the preferred method of initialisation for the Registry type.
func NewRegistry() *Registry {
	return &Registry{
		peripherals: make(map[uint32]Peripheral),
	}
}

// Register a peripheral at the base address. Any peripheral already
// registered for the block is replaced.
func (r *Registry) Register(base uint32, p Peripheral) {
	r.peripherals[memorymap.PeripheralKey(base)] = p
}

// Lookup returns the peripheral that owns the address, and the offset of the
// address in the peripheral's block.
func (r *Registry) Lookup(addr uint32) (Peripheral, uint32, bool) {
	p, ok := r.peripherals[memorymap.PeripheralKey(addr)]
	if !ok {
		return nil, 0, false
	}
	return p, memorymap.PeripheralOffset(addr), true
}

// Keys returns the keys of all registered peripherals in ascending order.
func (r *Registry) Keys() []uint32 {
	keys := make([]uint32, 0, len(r.peripherals))
	for k := range r.peripherals {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
