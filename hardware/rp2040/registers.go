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

package rp2040

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/rp2040emu/hardware/rp2040/faults"
	"github.com/jetsetilly/rp2040emu/logger"
)

// register names. R0 to R12 are referred to by number
const (
	RegSP = 13 + iota
	RegLR
	RegPC
	NumRegisters
)

// the thumb bit of the EPSR. always set
const epsrT = 1 << 24

// ExecutionMode of the processor.
type ExecutionMode int

// List of valid ExecutionMode values.
const (
	ThreadMode ExecutionMode = iota
	HandlerMode
)

func (m ExecutionMode) String() string {
	if m == HandlerMode {
		return "handler"
	}
	return "thread"
}

// StackBank identifies one of the two stack pointers.
type StackBank int

// List of valid StackBank values.
const (
	MainStack StackBank = iota
	ProcessStack
)

func (b StackBank) String() string {
	if b == ProcessStack {
		return "PSP"
	}
	return "MSP"
}

// special register numbers used by the MRS and MSR instructions
const (
	sysmAPSR    = 0
	sysmIAPSR   = 1
	sysmEAPSR   = 2
	sysmXPSR    = 3
	sysmIPSR    = 5
	sysmEPSR    = 6
	sysmIEPSR   = 7
	sysmMSP     = 8
	sysmPSP     = 9
	sysmPRIMASK = 16
	sysmCONTROL = 20
)

var specialRegisterNames = map[uint32]string{
	sysmAPSR:    "apsr",
	sysmIAPSR:   "iapsr",
	sysmEAPSR:   "eapsr",
	sysmXPSR:    "xpsr",
	sysmIPSR:    "ipsr",
	sysmEPSR:    "epsr",
	sysmIEPSR:   "iepsr",
	sysmMSP:     "msp",
	sysmPSP:     "psp",
	sysmPRIMASK: "primask",
	sysmCONTROL: "control",
}

func specialRegisterName(sysm uint32) string {
	if s, ok := specialRegisterNames[sysm]; ok {
		return s
	}
	return fmt.Sprintf("sysm%d", sysm)
}

func registerName(r int) string {
	switch r {
	case RegSP:
		return "SP"
	case RegLR:
		return "LR"
	case RegPC:
		return "PC"
	}
	return fmt.Sprintf("R%d", r)
}

// Register returns the value of the numbered register.
func (mcu *RP2040) Register(r int) uint32 {
	return mcu.registers[r]
}

// SetRegister sets the value of the numbered register. Setting the PC clears
// bit zero.
func (mcu *RP2040) SetRegister(r int, value uint32) {
	if r == RegPC {
		value &^= 1
	}
	mcu.registers[r] = value
}

// Registers returns a copy of the register file.
func (mcu *RP2040) Registers() [NumRegisters]uint32 {
	return mcu.registers
}

// SP returns the active stack pointer.
func (mcu *RP2040) SP() uint32 {
	return mcu.registers[RegSP]
}

// SetSP sets the active stack pointer.
func (mcu *RP2040) SetSP(value uint32) {
	mcu.registers[RegSP] = value
}

// LR returns the link register.
func (mcu *RP2040) LR() uint32 {
	return mcu.registers[RegLR]
}

// SetLR sets the link register.
func (mcu *RP2040) SetLR(value uint32) {
	mcu.registers[RegLR] = value
}

// PC returns the program counter.
func (mcu *RP2040) PC() uint32 {
	return mcu.registers[RegPC]
}

// SetPC sets the program counter. Bit zero is cleared.
func (mcu *RP2040) SetPC(value uint32) {
	mcu.registers[RegPC] = value &^ 1
}

// Status returns the condition flags.
func (mcu *RP2040) Status() Status {
	return mcu.status
}

// SetStatus sets the condition flags.
func (mcu *RP2040) SetStatus(status Status) {
	mcu.status = status
}

// IPSR returns the exception number of the current exception. Zero in thread
// mode.
func (mcu *RP2040) IPSR() uint32 {
	return mcu.ipsr
}

// XPSR returns the combined program status register.
func (mcu *RP2040) XPSR() uint32 {
	return mcu.status.APSR() | mcu.ipsr | epsrT
}

// PRIMASK returns true if configurable interrupts are masked.
func (mcu *RP2040) PRIMASK() bool {
	return mcu.primask
}

// Control returns the value of the CONTROL register.
func (mcu *RP2040) Control() uint32 {
	var v uint32
	if mcu.npriv {
		v |= 0x01
	}
	if mcu.spsel == ProcessStack {
		v |= 0x02
	}
	return v
}

// Mode returns the current execution mode.
func (mcu *RP2040) Mode() ExecutionMode {
	return mcu.mode
}

// ActiveStack returns the stack pointer currently in use.
func (mcu *RP2040) ActiveStack() StackBank {
	return mcu.spsel
}

// switchStack makes the stack bank the active stack. The value of the
// previously active stack is preserved in the banked register.
func (mcu *RP2040) switchStack(bank StackBank) {
	if mcu.spsel == bank {
		return
	}
	mcu.bankedSP, mcu.registers[RegSP] = mcu.registers[RegSP], mcu.bankedSP
	mcu.spsel = bank
}

// SPMain returns the main stack pointer, whether or not it is active.
func (mcu *RP2040) SPMain() uint32 {
	if mcu.spsel == MainStack {
		return mcu.registers[RegSP]
	}
	return mcu.bankedSP
}

// SetSPMain sets the main stack pointer, whether or not it is active.
func (mcu *RP2040) SetSPMain(value uint32) {
	if mcu.spsel == MainStack {
		mcu.registers[RegSP] = value
	} else {
		mcu.bankedSP = value
	}
}

// SPProcess returns the process stack pointer, whether or not it is active.
func (mcu *RP2040) SPProcess() uint32 {
	if mcu.spsel == ProcessStack {
		return mcu.registers[RegSP]
	}
	return mcu.bankedSP
}

// SetSPProcess sets the process stack pointer, whether or not it is active.
func (mcu *RP2040) SetSPProcess(value uint32) {
	if mcu.spsel == ProcessStack {
		mcu.registers[RegSP] = value
	} else {
		mcu.bankedSP = value
	}
}

func (mcu *RP2040) readSpecialRegister(sysm uint32) uint32 {
	switch sysm {
	case sysmAPSR, sysmEAPSR:
		// the EPSR always reads as zero
		return mcu.status.APSR()
	case sysmIAPSR, sysmXPSR:
		return mcu.status.APSR() | mcu.ipsr
	case sysmIPSR, sysmIEPSR:
		return mcu.ipsr
	case sysmEPSR:
		return 0
	case sysmMSP:
		return mcu.SPMain()
	case sysmPSP:
		return mcu.SPProcess()
	case sysmPRIMASK:
		if mcu.primask {
			return 1
		}
		return 0
	case sysmCONTROL:
		return mcu.Control()
	}

	mcu.Faults.NewEntry("mrs", faults.UnknownSpecialReg, mcu.instructionPC, sysm)
	logger.Logf(mcu, "RP2040", "mrs with unknown special register %d", sysm)
	return 0
}

func (mcu *RP2040) writeSpecialRegister(sysm uint32, value uint32) {
	switch sysm {
	case sysmAPSR, sysmIAPSR, sysmEAPSR, sysmXPSR:
		mcu.status.SetAPSR(value)
	case sysmIPSR, sysmEPSR, sysmIEPSR:
		// the exception number and the execution state bits cannot be
		// written by software
	case sysmMSP:
		mcu.SetSPMain(value &^ 0x03)
	case sysmPSP:
		mcu.SetSPProcess(value &^ 0x03)
	case sysmPRIMASK:
		mcu.primask = value&0x01 == 0x01
		mcu.NVIC.SetUpdated()
	case sysmCONTROL:
		mcu.npriv = value&0x01 == 0x01
		if mcu.mode == ThreadMode {
			if value&0x02 == 0x02 {
				mcu.switchStack(ProcessStack)
			} else {
				mcu.switchStack(MainStack)
			}
		}
	default:
		mcu.Faults.NewEntry("msr", faults.UnknownSpecialReg, mcu.instructionPC, sysm)
		logger.Logf(mcu, "RP2040", "msr with unknown special register %d", sysm)
	}
}

func (mcu *RP2040) String() string {
	s := strings.Builder{}
	for i, r := range mcu.registers {
		if i > 0 {
			if i%4 == 0 {
				s.WriteString("\n")
			} else {
				s.WriteString("\t\t")
			}
		}
		s.WriteString(fmt.Sprintf("%-3s: %08x", registerName(i), r))
	}
	s.WriteString(fmt.Sprintf("\n%s  ipsr: %d  primask: %v  control: %02b  mode: %s",
		mcu.status, mcu.ipsr, mcu.primask, mcu.Control(), mcu.mode))
	return s.String()
}
