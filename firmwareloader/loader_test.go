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

package firmwareloader_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jetsetilly/rp2040emu/curated"
	"github.com/jetsetilly/rp2040emu/firmwareloader"
	"github.com/jetsetilly/rp2040emu/test"
	"github.com/spf13/afero"
)

const base = 0x10000000

// record returns an Intel HEX record with a correct checksum.
func record(typ uint8, addr uint16, data ...uint8) string {
	var s strings.Builder
	sum := uint8(len(data)) + uint8(addr>>8) + uint8(addr) + typ
	fmt.Fprintf(&s, ":%02X%04X%02X", len(data), addr, typ)
	for _, d := range data {
		fmt.Fprintf(&s, "%02X", d)
		sum += d
	}
	fmt.Fprintf(&s, "%02X", -sum)
	return s.String()
}

func writeFile(t *testing.T, fs afero.Fs, name string, lines ...string) {
	t.Helper()
	err := afero.WriteFile(fs, name, []byte(strings.Join(lines, "\n")), 0o644)
	test.DemandSuccess(t, err)
}

func TestRecord(t *testing.T) {
	// well known records
	test.ExpectEquality(t, record(0x01, 0x0000), ":00000001FF")
	test.ExpectEquality(t, record(0x04, 0x0000, 0x10, 0x00), ":020000041000EA")
}

func TestLoadHex(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "firmware.hex",
		record(0x04, 0x0000, 0x10, 0x00),
		record(0x00, 0x0000, 0x00, 0xb5, 0x2a, 0x20),
		record(0x00, 0x0100, 0x11, 0x22),
		record(0x05, 0x0000, 0x10, 0x00, 0x01, 0x01),
		record(0x01, 0x0000),
		record(0x00, 0x0200, 0x33),
	)

	target := make([]byte, 1024)
	ld := firmwareloader.NewLoader(fs, "firmware.hex", base)
	test.ExpectEquality(t, ld.Format, firmwareloader.FormatHex)
	test.ExpectEquality(t, ld.ShortName(), "firmware")
	test.DemandSuccess(t, ld.Load(target))

	test.ExpectEquality(t, ld.Size, 6)
	test.ExpectEquality(t, target[0], uint8(0x00))
	test.ExpectEquality(t, target[1], uint8(0xb5))
	test.ExpectEquality(t, target[2], uint8(0x2a))
	test.ExpectEquality(t, target[3], uint8(0x20))
	test.ExpectEquality(t, target[0x100], uint8(0x11))
	test.ExpectEquality(t, target[0x101], uint8(0x22))

	// data after the end of file record is not loaded
	test.ExpectEquality(t, target[0x200], uint8(0x00))

	test.ExpectInequality(t, ld.Hash, "")

	// loading again with the same hash is fine. a different hash is not
	test.ExpectSuccess(t, ld.Load(target))
	ld.Hash = "0000"
	test.ExpectEquality(t, curated.Is(ld.Load(target), firmwareloader.UnexpectedHash), true)
}

func TestHash(t *testing.T) {
	fs := afero.NewMemMapFs()
	test.DemandSuccess(t, afero.WriteFile(fs, "firmware.bin", []byte("abc"), 0o644))
	target := make([]byte, 16)

	// sha1 of "abc"
	const abc = "a9993e364706816aba3e25717850c26c9cd0d89d"

	ld := firmwareloader.NewLoader(fs, "firmware.bin", base)
	ld.Hash = abc
	test.DemandSuccess(t, ld.Load(target))
	test.ExpectEquality(t, ld.Hash, abc)

	// a mismatched hash leaves the target untouched
	clear(target)
	ld.Hash = "a9993e364706816aba3e25717850c26c9cd0d89e"
	err := ld.Load(target)
	test.ExpectEquality(t, curated.Is(err, firmwareloader.UnexpectedHash), true)
	test.ExpectEquality(t, target[0], uint8(0))
}

func TestFormat(t *testing.T) {
	fs := afero.NewMemMapFs()

	test.ExpectEquality(t, firmwareloader.NewLoader(fs, "a.HEX", base).Format, firmwareloader.FormatHex)
	test.ExpectEquality(t, firmwareloader.NewLoader(fs, "a.ihx", base).Format, firmwareloader.FormatHex)
	test.ExpectEquality(t, firmwareloader.NewLoader(fs, "a.bin", base).Format, firmwareloader.FormatBinary)
	test.ExpectEquality(t, firmwareloader.NewLoader(fs, "a.elf", base).Format, firmwareloader.FormatAuto)
	test.ExpectEquality(t, firmwareloader.NewLoader(fs, "firmware", base).Format, firmwareloader.FormatAuto)

	target := make([]byte, 16)

	// the content of a file with an unknown extension decides the format
	writeFile(t, fs, "text.dat", "", "  "+record(0x04, 0x0000, 0x10, 0x00), record(0x00, 0x0004, 0xaa), record(0x01, 0x0000))
	ld := firmwareloader.NewLoader(fs, "text.dat", base)
	test.DemandSuccess(t, ld.Load(target))
	test.ExpectEquality(t, ld.Size, 1)
	test.ExpectEquality(t, target[4], uint8(0xaa))
	test.ExpectEquality(t, ld.Format, firmwareloader.FormatAuto)

	test.DemandSuccess(t, afero.WriteFile(fs, "raw.dat", []byte{0x00, 0xb5, 0x3a}, 0o644))
	ld = firmwareloader.NewLoader(fs, "raw.dat", base)
	test.DemandSuccess(t, ld.Load(target))
	test.ExpectEquality(t, ld.Size, 3)
	test.ExpectEquality(t, target[2], uint8(0x3a))

	// an explicit format overrides the extension
	ld = firmwareloader.NewLoader(fs, "text.dat", base)
	ld.Format = firmwareloader.FormatBinary
	big := make([]byte, 256)
	test.DemandSuccess(t, ld.Load(big))
	test.ExpectEquality(t, big[0], uint8('\n'))
	test.ExpectEquality(t, big[3], uint8(':'))

	ld.Format = "ELF"
	test.ExpectEquality(t, curated.Is(ld.Load(big), firmwareloader.UnknownFormat), true)
}

func TestLoadHexErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	target := make([]byte, 256)

	load := func(lines ...string) error {
		writeFile(t, fs, "bad.hex", lines...)
		ld := firmwareloader.NewLoader(fs, "bad.hex", base)
		return ld.Load(target)
	}

	// no upper address so the data is below the base address
	err := load(record(0x00, 0x0000, 0x01), record(0x01, 0x0000))
	test.ExpectEquality(t, curated.Is(err, firmwareloader.BelowBase), true)

	// beyond the end of the target
	err = load(record(0x04, 0x0000, 0x10, 0x00), record(0x00, 0x00ff, 0x01, 0x02), record(0x01, 0x0000))
	test.ExpectEquality(t, curated.Is(err, firmwareloader.BeyondTarget), true)

	// checksum
	err = load(":0100000001FF")
	test.ExpectEquality(t, curated.Is(err, firmwareloader.BadChecksum), true)

	// not hex digits
	err = load(":01zz000001FF")
	test.ExpectEquality(t, curated.Is(err, firmwareloader.NotHexRecord), true)

	// record length byte disagrees with the number of data bytes
	err = load(":0200000001FD")
	test.ExpectEquality(t, curated.Is(err, firmwareloader.BadLength), true)

	// missing file
	ld := firmwareloader.NewLoader(fs, "missing.hex", base)
	test.ExpectEquality(t, curated.Is(ld.Load(target), firmwareloader.FileError), true)
}

func TestLoadBinary(t *testing.T) {
	fs := afero.NewMemMapFs()
	test.DemandSuccess(t, afero.WriteFile(fs, "firmware.BIN", []byte{1, 2, 3, 4}, 0o644))

	target := make([]byte, 4)
	ld := firmwareloader.NewLoader(fs, "firmware.BIN", base)
	test.ExpectEquality(t, ld.Format, firmwareloader.FormatBinary)
	test.DemandSuccess(t, ld.Load(target))
	test.ExpectEquality(t, ld.Size, 4)
	test.ExpectEquality(t, target[3], uint8(4))

	small := make([]byte, 2)
	test.ExpectEquality(t, curated.Is(ld.Load(small), firmwareloader.BinaryTooLarge), true)

	data, err := firmwareloader.LoadBinary(fs, "firmware.BIN")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(data), 4)

	_, err = firmwareloader.LoadBinary(fs, "bootrom.bin")
	test.ExpectFailure(t, err)
}
