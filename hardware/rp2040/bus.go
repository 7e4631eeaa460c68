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
	"encoding/binary"

	"github.com/jetsetilly/rp2040emu/curated"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/faults"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/memorymap"
	"github.com/jetsetilly/rp2040emu/logger"
)

// AlignmentFault is returned by ExecuteInstruction() when a word access is
// not aligned to a four byte boundary.
const AlignmentFault = "rp2040: alignment fault: %s of %08x (PC: %08x)"

// the value returned by a read from an address that nothing responds to
const unresolvedRead = 0xffffffff

// the memory region containing the address. the second value is the index
// into the slice
func (mcu *RP2040) memory(addr uint32) ([]byte, uint32, bool) {
	switch {
	case addr < memorymap.BootROMOrigin+memorymap.BootROMSize:
		return mcu.BootROM, addr - memorymap.BootROMOrigin, true
	case addr >= memorymap.FlashOrigin && addr < memorymap.FlashOrigin+memorymap.FlashSize:
		return mcu.Flash, addr - memorymap.FlashOrigin, true
	case addr >= memorymap.SRAMOrigin && addr <= memorymap.SRAMMemtop:
		return mcu.SRAM, addr - memorymap.SRAMOrigin, true
	}
	return nil, 0, false
}

// alignmentFault records the fault and sets the execution error if this is
// the first fatal fault of the instruction.
func (mcu *RP2040) alignmentFault(event string, addr uint32) {
	mcu.Faults.NewEntry(event, faults.MisalignedAccess, mcu.instructionPC, addr)
	logger.Logf(mcu, "bus", "misaligned %s of %08x (PC: %08x)", event, addr, mcu.instructionPC)
	if mcu.executionError == nil {
		mcu.executionError = curated.Errorf(AlignmentFault, event, addr, mcu.instructionPC)
	}
}

// ReadUint32 reads a word from the bus. The address must be aligned to a four
// byte boundary. A misaligned read is a fatal fault and returns 0xffffffff.
func (mcu *RP2040) ReadUint32(addr uint32) uint32 {
	if addr&0x03 != 0 {
		mcu.alignmentFault("read", addr)
		return unresolvedRead
	}
	return mcu.read32(addr)
}

// ReadUint16 reads a halfword from the bus. The halfword is extracted from a
// word read of the aligned address. A misaligned halfword is recorded as a
// fault and the aligned halfword is returned.
func (mcu *RP2040) ReadUint16(addr uint32) uint16 {
	if addr&0x01 != 0 {
		mcu.Faults.NewEntry("read halfword", faults.MisalignedAccess, mcu.instructionPC, addr)
	}
	v := mcu.read32(addr &^ 0x03)
	return uint16(v >> ((addr & 0x02) << 3))
}

// ReadUint8 reads a byte from the bus. The byte is extracted from a word read
// of the aligned address.
func (mcu *RP2040) ReadUint8(addr uint32) uint8 {
	v := mcu.read32(addr &^ 0x03)
	return uint8(v >> ((addr & 0x03) << 3))
}

// WriteUint32 writes a word to the bus. The address must be aligned to a four
// byte boundary. A misaligned write is a fatal fault and is discarded.
func (mcu *RP2040) WriteUint32(addr uint32, value uint32) {
	if addr&0x03 != 0 {
		mcu.alignmentFault("write", addr)
		return
	}
	mcu.write32(addr, value)
}

// WriteUint16 writes a halfword to the bus. Peripherals see a word write with
// the halfword duplicated in both halves of the word. For everything else the
// halfword is merged with the existing word.
func (mcu *RP2040) WriteUint16(addr uint32, value uint16) {
	if addr&0x01 != 0 {
		mcu.Faults.NewEntry("write halfword", faults.MisalignedAccess, mcu.instructionPC, addr)
		addr &^= 0x01
	}

	aligned := addr &^ 0x03
	if p, offset, ok := mcu.Peripherals.Lookup(aligned); ok {
		mcu.peripheralAddr = aligned
		p.WriteUint32(offset, uint32(value)|uint32(value)<<16)
		return
	}

	shift := (addr & 0x02) << 3
	v := mcu.read32(aligned)
	v = v&^(0xffff<<shift) | uint32(value)<<shift
	mcu.write32(aligned, v)
}

// WriteUint8 writes a byte to the bus. Peripherals see a word write with the
// byte duplicated in every byte of the word. For everything else the byte is
// merged with the existing word.
func (mcu *RP2040) WriteUint8(addr uint32, value uint8) {
	aligned := addr &^ 0x03
	if p, offset, ok := mcu.Peripherals.Lookup(aligned); ok {
		mcu.peripheralAddr = aligned
		p.WriteUint32(offset, uint32(value)*0x01010101)
		return
	}

	shift := (addr & 0x03) << 3
	v := mcu.read32(aligned)
	v = v&^(0xff<<shift) | uint32(value)<<shift
	mcu.write32(aligned, v)
}

// read32 resolves an aligned read.
func (mcu *RP2040) read32(addr uint32) uint32 {
	if p, offset, ok := mcu.Peripherals.Lookup(addr); ok {
		return p.ReadUint32(offset)
	}

	if mem, idx, ok := mcu.memory(addr); ok {
		return binary.LittleEndian.Uint32(mem[idx:])
	}

	// the SIO block has no readable registers of its own. CPUID is supplied
	// by a hook

	if h, ok := mcu.hooks.read[addr]; ok {
		return h.HookRead(addr)
	}

	mcu.Faults.NewEntry("read", faults.UnresolvedAddress, mcu.instructionPC, addr)
	logger.Logf(mcu, "bus", "read from unresolved address %08x (PC: %08x)", addr, mcu.instructionPC)

	return unresolvedRead
}

// write32 resolves an aligned write.
func (mcu *RP2040) write32(addr uint32, value uint32) {
	if p, offset, ok := mcu.Peripherals.Lookup(addr); ok {
		mcu.peripheralAddr = addr
		p.WriteUint32(offset, value)
		return
	}

	switch memorymap.Region(addr) {
	case memorymap.SRAM:
		binary.LittleEndian.PutUint32(mcu.SRAM[addr-memorymap.SRAMOrigin:], value)
		return
	case memorymap.BootROM, memorymap.Flash:
		if _, _, ok := mcu.memory(addr); ok {
			mcu.Faults.NewEntry("write", faults.ReadOnlyMemory, mcu.instructionPC, addr)
			logger.Logf(mcu, "bus", "write to read only memory %08x: %08x (PC: %08x)", addr, value, mcu.instructionPC)
			return
		}
	case memorymap.SIO:
		mcu.sioWrite(addr-memorymap.SIOOrigin, value)
		return
	}

	if h, ok := mcu.hooks.write[addr]; ok {
		h.HookWrite(addr, value)
		return
	}

	mcu.Faults.NewEntry("write", faults.UnresolvedAddress, mcu.instructionPC, addr)
	logger.Logf(mcu, "bus", "write to unresolved address %08x: %08x (PC: %08x)", addr, value, mcu.instructionPC)
}

// peek16 reads a halfword from memory without going through the bus. used by
// the disassembler so that disassembly has no side effects.
func (mcu *RP2040) peek16(addr uint32) (uint16, bool) {
	mem, idx, ok := mcu.memory(addr &^ 0x01)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(mem[idx:]), true
}
