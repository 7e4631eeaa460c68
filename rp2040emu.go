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
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/rp2040emu/curated"
	"github.com/jetsetilly/rp2040emu/firmwareloader"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/bootrom"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/memorymap"
	"github.com/jetsetilly/rp2040emu/logger"
	"github.com/jetsetilly/rp2040emu/modalflag"
	"github.com/jetsetilly/rp2040emu/performance"
	"github.com/jetsetilly/rp2040emu/scripting"
	"github.com/jetsetilly/rp2040emu/statsview"
	"github.com/jetsetilly/rp2040emu/version"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

// the run loop checks for an interrupt signal every interruptCheck
// instructions
const interruptCheck = 100000

func main() {
	os.Exit(launch(afero.NewOsFs(), os.Args[1:], os.Stdout))
}

// launch the emulator with the command line arguments. the return value is
// the exit code for the process.
func launch(fs afero.Fs, args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "DISASM", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	switch md.Mode() {
	case "RUN":
		err = run(md, fs)

	case "DISASM":
		err = disasm(md, fs)

	case "PERFORMANCE":
		err = perform(md, fs)

	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		if _, ok := err.(usageError); ok {
			return 10
		}
		return 20
	}

	return 0
}

// usageError is returned when the command line is missing something
type usageError string

func (err usageError) Error() string {
	return string(err)
}

// isTerminal returns true if the writer is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// firmware flags are shared by the RUN, DISASM and PERFORMANCE modes.
type firmwareFlags struct {
	base   *uint64
	pc     *uint64
	format *string
	hash   *string
}

func addFirmwareFlags(md *modalflag.Modes) firmwareFlags {
	return firmwareFlags{
		base:   md.AddUint64("base", uint64(memorymap.FlashOrigin), "address of the first byte of the firmware file"),
		pc:     md.AddUint64("pc", 0, "start address (default is the base address)"),
		format: md.AddString("format", firmwareloader.FormatAuto, "firmware format: HEX, BIN or AUTO"),
		hash:   md.AddString("hash", "", "expected SHA-1 of the firmware file"),
	}
}

// prepare a new RP2040 and load the firmware named on the command line.
func prepare(md *modalflag.Modes, fs afero.Fs, ff firmwareFlags, bootROM string) (*rp2040.RP2040, error) {
	switch len(md.RemainingArgs()) {
	case 0:
		return nil, usageError(fmt.Sprintf("firmware file required for %s mode", md))
	case 1:
	default:
		return nil, usageError(fmt.Sprintf("too many arguments for %s mode", md))
	}

	mcu := rp2040.NewRP2040(nil)

	var img []byte
	var err error
	if bootROM == "" {
		img, err = bootrom.Image()
	} else {
		img, err = firmwareloader.LoadBinary(fs, bootROM)
		if curated.Is(err, firmwareloader.FileError) {
			return nil, usageError(err.Error())
		}
	}
	if err != nil {
		return nil, err
	}
	err = mcu.LoadBootROM(img)
	if err != nil {
		return nil, err
	}

	base := uint32(*ff.base)
	target, err := targetMemory(mcu, base)
	if err != nil {
		return nil, err
	}

	ld := firmwareloader.NewLoader(fs, md.GetArg(0), base)
	if f := strings.ToUpper(*ff.format); f != firmwareloader.FormatAuto {
		ld.Format = f
	}
	ld.Hash = strings.ToLower(*ff.hash)
	err = ld.Load(target)
	if err != nil {
		// the file named on the command line could not be read
		if curated.Is(err, firmwareloader.FileError) {
			return nil, usageError(err.Error())
		}
		return nil, err
	}

	mcu.Reset()

	pcSet := false
	md.Visit(func(flag string) {
		if flag == "pc" {
			pcSet = true
		}
	})
	if pcSet {
		mcu.SetPC(uint32(*ff.pc))
	} else if bootROM == "" {
		mcu.SetPC(base)
	}

	return mcu, nil
}

// targetMemory returns the memory array that the firmware is loaded into.
// the base address must be in flash or SRAM.
func targetMemory(mcu *rp2040.RP2040, base uint32) ([]byte, error) {
	switch memorymap.Region(base) {
	case memorymap.Flash:
		return mcu.Flash[base-memorymap.FlashOrigin:], nil
	case memorymap.SRAM:
		return mcu.SRAM[base-memorymap.SRAMOrigin:], nil
	}
	return nil, usageError(fmt.Sprintf("base address %08x is not in flash or SRAM", base))
}

func run(md *modalflag.Modes, fs afero.Fs) error {
	md.NewMode()

	ff := addFirmwareFlags(md)
	bootROM := md.AddString("bootrom", "", "boot ROM binary. the boot ROM is started from its reset vector")
	steps := md.AddUint64("steps", 0, "number of instructions to execute. zero for no limit")
	script := md.AddString("script", "", "Lua script of address hooks")
	log := md.AddBool("log", false, "echo log to stderr")
	memvizFile := md.AddString("memviz", "", "write a graphviz dot file of the final CPU state")
	stats := md.AddBool("statsview", false, "run stats server (if available)")
	hardFault := md.AddBool("hardfault", false, "BKPT and UDF raise a HardFault rather than stopping")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	// set debugging log echo
	if *log {
		if isTerminal(os.Stderr) {
			logger.SetEcho(logger.NewColorizer(os.Stderr))
		} else {
			logger.SetEcho(os.Stderr)
		}
	} else {
		logger.SetEcho(nil)
	}

	if *stats {
		statsview.Launch(md.Output)
	}

	mcu, err := prepare(md, fs, ff, *bootROM)
	if err != nil {
		return err
	}
	mcu.HardFaultOnBreak = *hardFault

	uart := uartWriter{out: md.Output, terminal: isTerminal(md.Output)}
	mcu.UART[0].OnByte = uart.write
	mcu.UART[1].OnByte = uart.write

	if *script != "" {
		s := scripting.NewScript(mcu)
		defer s.Close()
		err = s.Load(fs, *script)
		if err != nil {
			return err
		}
	}

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	err = runLoop(mcu, *steps, intChan)

	fmt.Fprintf(md.Output, "\n%s\n", mcu)
	fmt.Fprintf(md.Output, "executed: %d  breaks: %d\n", mcu.Executed(), mcu.BreakCount())
	mcu.Faults.WriteLog(md.Output)

	if *memvizFile != "" {
		f, err := os.Create(*memvizFile)
		if err != nil {
			return err
		}
		defer f.Close()

		state := mcu.Snapshot()
		memviz.Map(f, &state)
	}

	return err
}

// runLoop executes instructions until the step limit is reached, a BKPT or
// UDF instruction is executed, or the interrupt signal is received.
func runLoop(mcu *rp2040.RP2040, steps uint64, intChan <-chan os.Signal) error {
	breaks := mcu.BreakCount()

	for n := uint64(0); steps == 0 || n < steps; n++ {
		if n%interruptCheck == 0 {
			select {
			case <-intChan:
				return nil
			default:
			}
		}

		err := mcu.ExecuteInstruction()
		if err != nil {
			return err
		}

		if mcu.BreakCount() != breaks && !mcu.HardFaultOnBreak {
			return nil
		}
	}

	return nil
}

// uartWriter sends UART output to the terminal. control characters are made
// visible when the output is a terminal.
type uartWriter struct {
	out      io.Writer
	terminal bool
}

func (u uartWriter) write(b uint8) {
	if u.terminal && b < 0x20 && b != '\n' && b != '\r' && b != '\t' {
		fmt.Fprintf(u.out, "<%02x>", b)
		return
	}
	u.out.Write([]byte{b})
}

func disasm(md *modalflag.Modes, fs afero.Fs) error {
	md.NewMode()

	ff := addFirmwareFlags(md)
	count := md.AddInt("count", 32, "number of instructions to disassemble")
	bytecode := md.AddBool("bytecode", true, "include bytecode in disassembly")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	mcu, err := prepare(md, fs, ff, "")
	if err != nil {
		return err
	}

	addr := mcu.PC()
	for i := 0; i < *count; i++ {
		e := mcu.Disassemble(addr)
		if e.Operator == "" {
			fmt.Fprintf(md.Output, "%s  %s\n", e.Address, e.Operand)
			break // for loop
		}
		if *bytecode {
			fmt.Fprintf(md.Output, "%s  %s  %s\n", e.Address, e.Bytes(), e)
		} else {
			fmt.Fprintf(md.Output, "%s  %s\n", e.Address, e)
		}
		addr += e.Size()
	}

	return nil
}

func perform(md *modalflag.Modes, fs afero.Fs) error {
	md.NewMode()

	ff := addFirmwareFlags(md)
	bootROM := md.AddString("bootrom", "", "boot ROM binary. the boot ROM is started from its reset vector")
	duration := md.AddString("duration", "5s", "run duration")
	profile := md.AddString("profile", "NONE", "run performance check with profiling: CPU, MEM, TRACE, ALL (comma separated)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	mcu, err := prepare(md, fs, ff, *bootROM)
	if err != nil {
		return err
	}
	mcu.Quiet = true

	_, err = performance.Check(md.Output, prf, mcu, *duration)
	return err
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information from version control")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	v, r, _ := version.Version()
	fmt.Fprintf(md.Output, "%s %s\n", version.ApplicationName, v)
	if *revision {
		fmt.Fprintln(md.Output, r)
	}

	return nil
}
