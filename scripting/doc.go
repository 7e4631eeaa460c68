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

// Package scripting allows bus hooks to be written in Lua.
//
// A script is run once, when it is loaded. It registers hooks by calling the
// functions that the package adds to the Lua environment:
//
//	hook_read(addr, function(addr) return value end)
//	hook_write(addr, function(addr, value) end)
//	read(addr)
//	write(addr, value)
//	log(message)
//
// The hook functions are called by the emulator whenever the address is
// accessed and the address is not otherwise resolved by the bus. The read()
// and write() functions access the bus directly and can be used from within
// a hook function.
//
// Lua numbers are converted to and from uint32. Negative numbers wrap in the
// same way as they do for a Go integer conversion, so -1 is 0xffffffff.
//
// An error in a hook function does not stop emulation. The error is logged
// and counted, and a read hook that fails returns zero.
package scripting
