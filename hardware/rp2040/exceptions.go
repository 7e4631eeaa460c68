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
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/nvic"
	"github.com/jetsetilly/rp2040emu/logger"
)

// EXC_RETURN values placed in the LR on exception entry. The value encodes the
// mode and stack to return to.
const (
	ExcReturnHandler       = 0xfffffff1
	ExcReturnThreadMain    = 0xfffffff9
	ExcReturnThreadProcess = 0xfffffffd
)

// size of the exception stack frame
const frameSize = 0x20

// the bit in the stacked xPSR indicating that the stack was realigned to
// eight bytes on entry
const xpsrStackAlign = 1 << 9

// exceptionEntry stacks the caller saved registers and jumps to the handler
// of the exception.
func (mcu *RP2040) exceptionEntry(exception int) {
	// the frame is pushed onto the stack in use at the time of the
	// exception. the frame is aligned to eight bytes and whether padding was
	// required is recorded in the stacked xPSR
	sp := mcu.registers[RegSP]
	framePtr := (sp - frameSize) &^ 0x04

	xpsr := mcu.XPSR()
	if sp&0x04 == 0x04 {
		xpsr |= xpsrStackAlign
	}

	mcu.registers[RegSP] = framePtr
	mcu.WriteUint32(framePtr, mcu.registers[0])
	mcu.WriteUint32(framePtr+0x04, mcu.registers[1])
	mcu.WriteUint32(framePtr+0x08, mcu.registers[2])
	mcu.WriteUint32(framePtr+0x0c, mcu.registers[3])
	mcu.WriteUint32(framePtr+0x10, mcu.registers[12])
	mcu.WriteUint32(framePtr+0x14, mcu.registers[RegLR])
	mcu.WriteUint32(framePtr+0x18, mcu.registers[RegPC])
	mcu.WriteUint32(framePtr+0x1c, xpsr)

	switch {
	case mcu.mode == HandlerMode:
		mcu.registers[RegLR] = ExcReturnHandler
	case mcu.spsel == ProcessStack:
		mcu.registers[RegLR] = ExcReturnThreadProcess
	default:
		mcu.registers[RegLR] = ExcReturnThreadMain
	}

	// handlers always use the main stack
	mcu.mode = HandlerMode
	mcu.switchStack(MainStack)
	mcu.ipsr = uint32(exception)

	vector := mcu.scb.vtor + uint32(exception)*4
	mcu.registers[RegPC] = mcu.ReadUint32(vector) &^ 1

	logger.Logf(mcu, "RP2040", "exception %d: handler at %08x", exception, mcu.registers[RegPC])
}

// exceptionReturn unstacks the registers saved by exceptionEntry(). The low
// nibble of the EXC_RETURN value selects the mode and stack to return to.
func (mcu *RP2040) exceptionReturn(excReturn uint32) {
	switch excReturn & 0x0f {
	case 0b0001:
		mcu.mode = HandlerMode
		mcu.switchStack(MainStack)
	case 0b1001:
		mcu.mode = ThreadMode
		mcu.switchStack(MainStack)
	case 0b1101:
		mcu.mode = ThreadMode
		mcu.switchStack(ProcessStack)
	default:
		logger.Logf(mcu, "RP2040", "unsupported EXC_RETURN value %08x. returning to thread mode", excReturn)
		mcu.mode = ThreadMode
		mcu.switchStack(MainStack)
	}

	framePtr := mcu.registers[RegSP]
	mcu.registers[0] = mcu.ReadUint32(framePtr)
	mcu.registers[1] = mcu.ReadUint32(framePtr + 0x04)
	mcu.registers[2] = mcu.ReadUint32(framePtr + 0x08)
	mcu.registers[3] = mcu.ReadUint32(framePtr + 0x0c)
	mcu.registers[12] = mcu.ReadUint32(framePtr + 0x10)
	mcu.registers[RegLR] = mcu.ReadUint32(framePtr + 0x14)
	mcu.registers[RegPC] = mcu.ReadUint32(framePtr+0x18) &^ 1
	xpsr := mcu.ReadUint32(framePtr + 0x1c)

	sp := framePtr + frameSize
	if xpsr&xpsrStackAlign == xpsrStackAlign {
		sp |= 0x04
	}
	mcu.registers[RegSP] = sp

	mcu.status.SetAPSR(xpsr)
	mcu.ipsr = xpsr & 0x3f
	if mcu.mode == ThreadMode && mcu.npriv {
		mcu.ipsr = 0
	}

	// a pending exception may now be able to preempt
	mcu.NVIC.SetUpdated()
}

// bxWritePC is used by the instructions that can perform an exception
// return: BX, POP and (on other architectures) LDR.
func (mcu *RP2040) bxWritePC(addr uint32) {
	if mcu.mode == HandlerMode && addr>>28 == 0x0f {
		mcu.exceptionReturn(addr)
		return
	}
	mcu.registers[RegPC] = addr &^ 1
}

// checkForInterrupts takes the most urgent interrupt that is able to preempt
// the current execution priority.
func (mcu *RP2040) checkForInterrupts() {
	current := mcu.NVIC.ExceptionPriority(int(mcu.ipsr))
	if mcu.primask && current > 0 {
		current = 0
	}

	exception, ok := mcu.NVIC.Select(current)
	if !ok {
		return
	}

	mcu.NVIC.ClearPending(exception - nvic.IRQBase)
	mcu.exceptionEntry(exception)
}
