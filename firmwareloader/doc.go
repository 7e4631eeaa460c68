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

// Package firmwareloader is used to specify the firmware that is to be loaded
// into the flash memory of the emulated RP2040.
//
// Firmware files are read through an afero.Fs. The emulator proper uses the
// operating system's filesystem but tests can use an in-memory filesystem.
//
// Two formats are supported. Intel HEX files, which is the usual output of
// the RP2040 toolchain, and raw binary files, which are copied directly to
// the target. The format is chosen by the file extension:
//
//	ld := firmwareloader.NewLoader(afero.NewOsFs(), "blink.hex", memorymap.FlashOrigin)
//	err := ld.Load(mcu.Flash)
//
// If the extension is not one of FileExtensions then the format is decided
// when the file is loaded. A file beginning with a HEX record is loaded as a
// HEX file and anything else as a binary.
//
// Only record types 00 (data), 01 (end of file) and 04 (extended linear
// address) of the Intel HEX format are acted upon. Other record types are
// ignored. Every record must have a correct checksum.
package firmwareloader
