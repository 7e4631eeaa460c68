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

// Package statsview starts a HTTP server showing runtime statistics of the
// emulator process: heap use, goroutines and GC pauses. It is useful when
// judging the cost of the instruction loop on long running firmware.
//
// The server is only included when the program is built with the statsview
// build tag:
//
//	go build -tags statsview
//
// Without the tag Available() returns false and Launch() does nothing.
package statsview
