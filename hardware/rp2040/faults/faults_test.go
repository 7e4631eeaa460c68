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

package faults_test

import (
	"testing"

	"github.com/jetsetilly/rp2040emu/hardware/rp2040/faults"
	"github.com/jetsetilly/rp2040emu/test"
)

func TestFaults(t *testing.T) {
	flt := faults.NewFaults()

	flt.NewEntry("read", faults.UnresolvedAddress, 0x10000100, 0x30000000)
	flt.NewEntry("read", faults.UnresolvedAddress, 0x10000100, 0x30000000)
	flt.NewEntry("write", faults.ReadOnlyMemory, 0x10000104, 0x10000000)

	test.ExpectEquality(t, len(flt.Log), 2)
	test.ExpectEquality(t, flt.Log[0].Count, 2)
	test.ExpectEquality(t, flt.Log[1].Count, 1)
	test.ExpectEquality(t, flt.Count(faults.UnresolvedAddress), 1)
	test.ExpectEquality(t, flt.Count(faults.MisalignedAccess), 0)

	tw := &test.Writer{}
	flt.WriteLog(tw)
	test.ExpectEquality(t, tw.String(),
		"unresolved address: read: 30000000 (PC: 10000100)\nread only memory: write: 10000000 (PC: 10000104)\n")

	flt.Clear()
	test.ExpectEquality(t, len(flt.Log), 0)
}
