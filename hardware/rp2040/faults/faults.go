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

// Package faults records the problems encountered by the RP2040 emulation
// while executing firmware. Faults are things that would cause a bus fault or
// a HardFault on real hardware, or that the emulation does not support, but
// which do not stop the emulation.
//
// Entries are de-duplicated by instruction address and access address so that
// a fault inside a loop is only recorded once, with a count of how many times
// it occurred.
package faults

import (
	"fmt"
	"io"
)

// Category classifies the fault.
type Category string

// List of valid Category values.
const (
	UnresolvedAddress Category = "unresolved address"
	MisalignedAccess  Category = "misaligned access"
	ReadOnlyMemory    Category = "read only memory"
	UnimplementedOp   Category = "unimplemented instruction"
	UnknownSpecialReg Category = "unknown special register"
	UnhandledRegister Category = "unhandled register"
)

// Entry is a single fault.
type Entry struct {
	Category Category

	// description of the event that triggered the fault
	Event string

	// addresses related to the fault. for instruction faults AccessAddr is the
	// opcode
	InstructionAddr uint32
	AccessAddr      uint32

	// number of times this specific fault has been seen
	Count int
}

func (e Entry) String() string {
	return fmt.Sprintf("%s: %s: %08x (PC: %08x)", e.Category, e.Event, e.AccessAddr, e.InstructionAddr)
}

// Faults is the log of faults.
type Faults struct {
	entries map[string]*Entry

	// all the faults in order of the first time they appear
	Log []*Entry
}

// NewFaults is the preferred method of initialisation for the Faults type.
func NewFaults() Faults {
	return Faults{
		entries: make(map[string]*Entry),
	}
}

// Clear all entries from the faults log.
func (flt *Faults) Clear() {
	clear(flt.entries)
	flt.Log = flt.Log[:0]
}

// WriteLog writes every entry, one per line.
func (flt Faults) WriteLog(w io.Writer) {
	for _, e := range flt.Log {
		io.WriteString(w, e.String())
		io.WriteString(w, "\n")
	}
}

// Count returns the number of distinct faults of the category.
func (flt Faults) Count(category Category) int {
	var n int
	for _, e := range flt.Log {
		if e.Category == category {
			n++
		}
	}
	return n
}

// NewEntry records a fault. If the same fault at the same addresses has been
// seen before then the count for the existing entry is increased.
func (flt *Faults) NewEntry(event string, category Category, instructionAddr uint32, accessAddr uint32) {
	key := fmt.Sprintf("%08x%08x%s", instructionAddr, accessAddr, category)

	e, found := flt.entries[key]
	if !found {
		e = &Entry{
			Category:        category,
			Event:           event,
			InstructionAddr: instructionAddr,
			AccessAddr:      accessAddr,
		}
		flt.entries[key] = e
		flt.Log = append(flt.Log, e)
	}

	e.Count++
}
