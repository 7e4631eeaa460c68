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

// Package nvic models the nested vectored interrupt controller of the
// Cortex-M0+. It holds the pending and enabled masks for the 32 external
// interrupts, the priority of each interrupt, and the priorities of the
// configurable system exceptions.
//
// The controller's registers are accessed through the HookRead() and
// HookWrite() functions. The registers do not occupy a block of memory that
// can be treated as a peripheral so the bus reaches them through its hook
// table. The Addresses() function lists the addresses that need hooking.
//
// The controller does not take exceptions itself. Select() chooses which
// exception should be taken next and the processor is responsible for
// entering it.
package nvic
