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

// Package logger is the central log for rp2040emu. Log entries are made with
// the Log() and Logf() functions, which take a Permission argument, a tag and
// the detail of the entry.
//
// By convention the tag names the component making the entry, for example
// "bus" or "nvic". Consecutive entries that are identical are collapsed into a
// single entry and a repeat count is shown when the entry is written.
//
// The central log is bounded and old entries are dropped as new entries are
// added.
package logger
