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

// Package rp2040 emulates a single Cortex-M0+ core of the RP2040
// microcontroller, together with its memory bus and interrupt controller.
//
// The emulation is functional rather than cycle accurate. Instructions are
// executed one at a time with ExecuteInstruction(), or continuously with
// Execute() until Stop() is called or a breakpoint instruction is executed.
//
// Memory is arranged as boot ROM, flash and SRAM, with the memory mapped
// peripherals in the Peripherals registry. Registers that are neither memory
// nor part of a peripheral are reached through the hook table. See the
// AddReadHook() and AddWriteHook() functions.
//
// The BootROM, Flash and SRAM slices can be accessed directly by loaders and
// test harnesses. Boot ROM and flash are read only to the emulated processor.
package rp2040

import (
	"github.com/jetsetilly/rp2040emu/curated"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/faults"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/memorymap"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/nvic"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/peripherals"
	"github.com/jetsetilly/rp2040emu/logger"
)

// Sentinel errors.
const (
	BootROMTooLarge = "rp2040: boot ROM image too large (%d bytes)"
)

// RP2040 is the emulated microcontroller.
type RP2040 struct {
	BootROM []byte
	Flash   []byte
	SRAM    []byte

	registers [NumRegisters]uint32
	status    Status
	ipsr      uint32
	primask   bool
	npriv     bool
	mode      ExecutionMode

	// the stack bank currently in the SP register and the value of the other
	// stack pointer
	spsel    StackBank
	bankedSP uint32

	// Peripherals owns every memory mapped peripheral
	Peripherals *peripherals.Registry

	// the peripherals with a model. they are also in the Peripherals registry
	UART   [2]*peripherals.UART
	Timer  *peripherals.Timer
	SysCfg *peripherals.SysCfg

	NVIC *nvic.NVIC

	hooks hookTable
	scb   systemControl
	sio   sio

	// Faults records problems with the firmware that do not stop execution
	Faults faults.Faults

	// address of the instruction being executed
	instructionPC uint32

	// address of the most recent peripheral write
	peripheralAddr uint32

	// the first fatal error to occur during the current instruction
	executionError error

	// decode instructions but do not execute them. decode functions return a
	// DisasmEntry instead
	decodeOnly bool

	continueExecution bool

	// number of BKPT and UDF instructions executed
	breakCount int

	// OnBreak is called, if it is not nil, when a BKPT or UDF instruction is
	// executed. The argument is the immediate value of the instruction
	OnBreak func(code uint8)

	// if HardFaultOnBreak is true then BKPT and UDF instructions raise a
	// HardFault rather than stopping the Execute() loop
	HardFaultOnBreak bool

	// Quiet suppresses log entries made by the processor and the bus. Faults
	// are still recorded
	Quiet bool

	// number of instructions executed since the last reset
	executed uint64
}

// implemented by peripherals that embed peripherals.Logging
type environmentSetter interface {
	SetEnvironment(env peripherals.Environment)
}

// NewRP2040 is the preferred method of initialisation for the RP2040 type.
// The clock argument is the time source for the timer peripheral. If it is
// nil then a wall clock is used.
func NewRP2040(clock peripherals.Clock) *RP2040 {
	mcu := &RP2040{
		BootROM:     make([]byte, memorymap.BootROMSize),
		Flash:       make([]byte, memorymap.FlashSize),
		SRAM:        make([]byte, memorymap.SRAMSize),
		Peripherals: peripherals.NewRegistry(),
		NVIC:        nvic.NewNVIC(),
		Faults:      faults.NewFaults(),
	}

	// erased flash
	for i := range mcu.Flash {
		mcu.Flash[i] = 0xff
	}

	mcu.UART[0] = peripherals.NewUART(memorymap.UART0)
	mcu.UART[1] = peripherals.NewUART(memorymap.UART1)
	mcu.Timer = peripherals.NewTimer(memorymap.Timer, clock)
	mcu.SysCfg = peripherals.NewSysCfg(memorymap.SysCfg, mcu.NVIC)

	for _, p := range memorymap.APBPeripherals {
		var per peripherals.Peripheral
		switch p.Name {
		case memorymap.UART0:
			per = mcu.UART[0]
		case memorymap.UART1:
			per = mcu.UART[1]
		case memorymap.Timer:
			per = mcu.Timer
		case memorymap.SysCfg:
			per = mcu.SysCfg
		default:
			per = peripherals.NewLogging(p.Name)
		}
		if e, ok := per.(environmentSetter); ok {
			e.SetEnvironment(mcu)
		}
		mcu.Peripherals.Register(p.Base, per)
	}

	mcu.NVIC.Permission = mcu
	mcu.scb.perm = mcu

	mcu.hooks = newHookTable()
	mcu.installHooks()

	mcu.Reset()

	return mcu
}

// LoadBootROM copies the image into the boot ROM. The remainder of the boot
// ROM is cleared. Reset() should be called afterwards for the processor to
// use the new vector table.
func (mcu *RP2040) LoadBootROM(image []byte) error {
	if len(image) > len(mcu.BootROM) {
		return curated.Errorf(BootROMTooLarge, len(image))
	}
	n := copy(mcu.BootROM, image)
	clear(mcu.BootROM[n:])
	return nil
}

// Reset the processor. The initial stack pointer and the reset vector are
// read from the start of the boot ROM. Memory is not changed.
func (mcu *RP2040) Reset() {
	mcu.registers = [NumRegisters]uint32{}
	mcu.status = Status{}
	mcu.ipsr = 0
	mcu.primask = false
	mcu.npriv = false
	mcu.mode = ThreadMode
	mcu.spsel = MainStack
	mcu.bankedSP = 0
	mcu.scb.reset()
	mcu.sio.reset()
	mcu.NVIC.Reset()
	mcu.breakCount = 0
	mcu.executed = 0
	mcu.executionError = nil
	mcu.continueExecution = false

	mcu.registers[RegSP] = mcu.ReadUint32(memorymap.BootROMOrigin)
	mcu.registers[RegPC] = mcu.ReadUint32(memorymap.BootROMOrigin+4) &^ 1

	logger.Logf(mcu, "RP2040", "reset: sp=%08x pc=%08x", mcu.registers[RegSP], mcu.registers[RegPC])
}

// ExecuteInstruction executes a single instruction. Any pending interrupt is
// taken first, in which case the instruction executed is the first
// instruction of the exception handler.
//
// A non-nil error is returned if the instruction caused a fatal fault, such
// as a misaligned word access. The processor state after a fatal fault
// should not be trusted.
func (mcu *RP2040) ExecuteInstruction() error {
	mcu.executionError = nil

	if mcu.NVIC.Updated() {
		mcu.checkForInterrupts()
	}

	mcu.instructionPC = mcu.registers[RegPC]

	opcode := mcu.ReadUint16(mcu.instructionPC)
	var opcodeHi uint16
	if is32BitThumb(opcode) {
		opcodeHi = mcu.ReadUint16(mcu.instructionPC + 2)
	}

	// the PC is advanced before the instruction is executed. instructions
	// that read the PC see the address of the instruction plus four, which
	// is the value of this field plus two
	mcu.registers[RegPC] += 2

	f := mcu.decodeThumb(opcode, opcodeHi)
	f()

	mcu.executed++

	return mcu.executionError
}

// Execute instructions until Stop() is called or a fatal fault occurs. The
// error is the cause of the fatal fault. Execute() returns nil if execution
// was stopped.
func (mcu *RP2040) Execute() error {
	mcu.continueExecution = true
	for mcu.continueExecution {
		if err := mcu.ExecuteInstruction(); err != nil {
			mcu.continueExecution = false
			return err
		}
	}
	return nil
}

// Stop the Execute() loop. Execution stops after the current instruction.
func (mcu *RP2040) Stop() {
	mcu.continueExecution = false
}

// Stopped returns true if the Execute() loop is not running or has been told
// to stop.
func (mcu *RP2040) Stopped() bool {
	return !mcu.continueExecution
}

// BreakCount returns the number of BKPT and UDF instructions executed since
// the last reset.
func (mcu *RP2040) BreakCount() int {
	return mcu.breakCount
}

// Executed returns the number of instructions executed since the last reset.
func (mcu *RP2040) Executed() uint64 {
	return mcu.executed
}

// onBreak is called by the BKPT and UDF instructions.
func (mcu *RP2040) onBreak(code uint8) {
	mcu.breakCount++
	logger.Logf(mcu, "RP2040", "break %#02x at %08x", code, mcu.instructionPC)

	if mcu.OnBreak != nil {
		mcu.OnBreak(code)
	}

	if mcu.HardFaultOnBreak {
		mcu.exceptionEntry(nvic.HardFault)
		return
	}

	mcu.Stop()
}

// AllowLogging implements the logger.Permission interface.
func (mcu *RP2040) AllowLogging() bool {
	return !mcu.Quiet
}

// UnhandledRegister implements the peripherals.Environment interface.
func (mcu *RP2040) UnhandledRegister(event string) {
	mcu.Faults.NewEntry(event, faults.UnhandledRegister, mcu.instructionPC, mcu.peripheralAddr)
}

// State is a snapshot of the processor state.
type State struct {
	Registers [NumRegisters]uint32
	Status    Status
	IPSR      uint32
	PRIMASK   bool
	Control   uint32
	Mode      ExecutionMode
	SPMain    uint32
	SPProcess uint32
	VTOR      uint32
	Pending   uint32
	Enabled   uint32
	Executed  uint64
	Breaks    int
}

// Snapshot returns the current processor state.
func (mcu *RP2040) Snapshot() State {
	return State{
		Registers: mcu.registers,
		Status:    mcu.status,
		IPSR:      mcu.ipsr,
		PRIMASK:   mcu.primask,
		Control:   mcu.Control(),
		Mode:      mcu.mode,
		SPMain:    mcu.SPMain(),
		SPProcess: mcu.SPProcess(),
		VTOR:      mcu.scb.vtor,
		Pending:   mcu.NVIC.Pending(),
		Enabled:   mcu.NVIC.Enabled(),
		Executed:  mcu.executed,
		Breaks:    mcu.breakCount,
	}
}
