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

package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jetsetilly/rp2040emu/hardware/rp2040/assembler"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/memorymap"
	"github.com/jetsetilly/rp2040emu/test"
	"github.com/spf13/afero"
)

// intelHex returns the data as an Intel HEX file.
func intelHex(base uint32, data []byte) string {
	var s strings.Builder

	record := func(typ uint8, addr uint16, d []byte) {
		sum := uint8(len(d)) + uint8(addr>>8) + uint8(addr) + typ
		fmt.Fprintf(&s, ":%02X%04X%02X", len(d), addr, typ)
		for _, b := range d {
			fmt.Fprintf(&s, "%02X", b)
			sum += b
		}
		fmt.Fprintf(&s, "%02X\n", -sum)
	}

	record(0x04, 0, []byte{uint8(base >> 24), uint8(base >> 16)})
	for i := 0; i < len(data); i += 16 {
		end := min(i+16, len(data))
		record(0x00, uint16(base)+uint16(i), data[i:end])
	}
	record(0x01, 0, nil)

	return s.String()
}

// firmware writes "Hi" to UART0 and stops.
func firmware(t *testing.T, fs afero.Fs) {
	t.Helper()

	p := assembler.NewProgram(memorymap.FlashOrigin)
	p.LdrLiteral(1, "uart")
	p.MovsImm(0, 'H')
	p.StrImm(0, 1, 0)
	p.MovsImm(0, 'i')
	p.StrImm(0, 1, 0)
	p.Bkpt(0)
	p.Align()
	p.Label("uart")
	p.Word(0x40034000)

	code, err := p.Assemble()
	test.DemandSuccess(t, err)

	err = afero.WriteFile(fs, "firmware.hex", []byte(intelHex(memorymap.FlashOrigin, code)), 0o644)
	test.DemandSuccess(t, err)
}

func TestRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	firmware(t, fs)

	out := &test.Writer{}
	test.ExpectEquality(t, launch(fs, []string{"RUN", "-steps", "100", "firmware.hex"}, out), 0)
	test.ExpectEquality(t, strings.HasPrefix(out.String(), "Hi\n"), true, out.String())
	test.ExpectEquality(t, strings.Contains(out.String(), "executed: 6  breaks: 1"), true, out.String())
}

func TestRunStepLimit(t *testing.T) {
	fs := afero.NewMemMapFs()
	firmware(t, fs)

	out := &test.Writer{}
	test.ExpectEquality(t, launch(fs, []string{"-steps", "3", "firmware.hex"}, out), 0)
	test.ExpectEquality(t, strings.HasPrefix(out.String(), "H\n"), true, out.String())
	test.ExpectEquality(t, strings.Contains(out.String(), "executed: 3  breaks: 0"), true, out.String())
}

func TestDisasm(t *testing.T) {
	fs := afero.NewMemMapFs()
	firmware(t, fs)

	out := &test.Writer{}
	test.ExpectEquality(t, launch(fs, []string{"DISASM", "-count", "2", "-bytecode=false", "firmware.hex"}, out), 0)
	test.ExpectEquality(t, strings.Contains(out.String(), "10000000  LDR R1, [PC, #$08] ; $1000000c\n"), true, out.String())
	test.ExpectEquality(t, strings.Contains(out.String(), "10000002  MOVS R0, #$48\n"), true, out.String())
}

func TestUsageErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	firmware(t, fs)

	out := &test.Writer{}

	// no firmware file
	test.ExpectEquality(t, launch(fs, []string{"RUN"}, out), 10)

	// too many firmware files
	test.ExpectEquality(t, launch(fs, []string{"RUN", "firmware.hex", "firmware.hex"}, out), 10)

	// base address not in flash or SRAM
	test.ExpectEquality(t, launch(fs, []string{"RUN", "-base", "0x40000000", "firmware.hex"}, out), 10)

	// unknown flag
	test.ExpectEquality(t, launch(fs, []string{"-unknown"}, out), 10)

	// missing firmware or boot ROM file
	test.ExpectEquality(t, launch(fs, []string{"RUN", "missing.hex"}, out), 10)
	test.ExpectEquality(t, launch(fs, []string{"RUN", "-bootrom", "missing.bin", "firmware.hex"}, out), 10)

	// a hash mismatch is a runtime error
	test.ExpectEquality(t, launch(fs, []string{"RUN", "-hash", "0000", "firmware.hex"}, out), 20)
}

func TestFirmwareFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	firmware(t, fs)

	data, err := afero.ReadFile(fs, "firmware.hex")
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, afero.WriteFile(fs, "firmware.ihex", data, 0o644))

	// the content of a file with an unknown extension decides the format
	out := &test.Writer{}
	test.ExpectEquality(t, launch(fs, []string{"RUN", "-steps", "100", "firmware.ihex"}, out), 0)
	test.ExpectEquality(t, strings.HasPrefix(out.String(), "Hi\n"), true, out.String())

	// forcing the binary format loads the text of the file
	out.Clear()
	test.ExpectEquality(t, launch(fs, []string{"DISASM", "-count", "1", "-format", "bin", "firmware.ihex"}, out), 0)
	test.ExpectEquality(t, strings.Contains(out.String(), "MOVS R0, #$48"), false, out.String())
}

func TestPerformance(t *testing.T) {
	fs := afero.NewMemMapFs()
	firmware(t, fs)

	out := &test.Writer{}
	test.ExpectEquality(t, launch(fs, []string{"PERFORMANCE", "-duration", "1s", "firmware.hex"}, out), 0)
	test.ExpectEquality(t, strings.Contains(out.String(), "(6 instructions in"), true, out.String())

	out.Clear()
	test.ExpectEquality(t, launch(fs, []string{"PERFORMANCE", "-profile", "disk", "firmware.hex"}, out), 20)
}
