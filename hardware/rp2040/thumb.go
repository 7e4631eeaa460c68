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
	"math/bits"
	"strings"

	"github.com/jetsetilly/rp2040emu/hardware/rp2040/faults"
	"github.com/jetsetilly/rp2040emu/hardware/rp2040/nvic"
	"github.com/jetsetilly/rp2040emu/logger"
)

// decodeFunction executes a single instruction. if the decodeOnly field is
// true then the instruction is not executed and a DisasmEntry is returned
// instead. the return value is always nil when executing.
type decodeFunction func() *DisasmEntry

// is32BitThumb returns true if the halfword is the first half of a 32bit
// instruction.
func is32BitThumb(opcode uint16) bool {
	return opcode&0xf800 == 0xe800 || opcode&0xf000 == 0xf000
}

// returns an instance of the decodeFunction type. opcodeHi is the second
// halfword of a 32bit instruction and is ignored otherwise.
func (mcu *RP2040) decodeThumb(opcode uint16, opcodeHi uint16) decodeFunction {
	if is32BitThumb(opcode) {
		return mcu.decodeThumb32(opcode, opcodeHi)
	}

	if opcode&0xf800 == 0xe000 {
		// format 18 - Unconditional branch
		return mcu.decodeThumbUnconditionalBranch(opcode)
	} else if opcode&0xf000 == 0xd000 {
		// format 16 - Conditional branch. includes UDF and SVC
		return mcu.decodeThumbConditionalBranch(opcode)
	} else if opcode&0xf000 == 0xc000 {
		// format 15 - Multiple load/store
		return mcu.decodeThumbMultipleLoadStore(opcode)
	} else if opcode&0xf000 == 0xb000 {
		// miscellaneous 16bit instructions
		return mcu.decodeThumbMiscellaneous(opcode)
	} else if opcode&0xf000 == 0xa000 {
		// format 12 - Load address
		return mcu.decodeThumbLoadAddress(opcode)
	} else if opcode&0xf000 == 0x9000 {
		// format 11 - SP-relative load/store
		return mcu.decodeThumbSPRelativeLoadStore(opcode)
	} else if opcode&0xf000 == 0x8000 {
		// format 10 - Load/store halfword
		return mcu.decodeThumbLoadStoreHalfword(opcode)
	} else if opcode&0xe000 == 0x6000 {
		// format 9 - Load/store with immediate offset
		return mcu.decodeThumbLoadStoreWithImmOffset(opcode)
	} else if opcode&0xf000 == 0x5000 {
		// formats 7 and 8 - Load/store with register offset
		return mcu.decodeThumbLoadStoreWithRegisterOffset(opcode)
	} else if opcode&0xf800 == 0x4800 {
		// format 6 - PC-relative load
		return mcu.decodeThumbPCrelativeLoad(opcode)
	} else if opcode&0xfc00 == 0x4400 {
		// format 5 - Hi register operations/branch exchange
		return mcu.decodeThumbHiRegisterOps(opcode)
	} else if opcode&0xfc00 == 0x4000 {
		// format 4 - ALU operations
		return mcu.decodeThumbALUoperations(opcode)
	} else if opcode&0xe000 == 0x2000 {
		// format 3 - Move/compare/add/subtract immediate
		return mcu.decodeThumbMovCmpAddSubImm(opcode)
	} else if opcode&0xf800 == 0x1800 {
		// format 2 - Add/subtract
		return mcu.decodeThumbAddSubtract(opcode)
	} else if opcode&0xe000 == 0x0000 {
		// format 1 - Move shifted register
		return mcu.decodeThumbMoveShiftedRegister(opcode)
	}

	return mcu.decodeThumbUnimplemented(opcode, 0, false)
}

// the value of a register when used as an operand. reading the PC gives the
// address of the instruction plus four
func (mcu *RP2040) operandValue(r uint16) uint32 {
	if r == RegPC {
		return mcu.instructionPC + 4
	}
	return mcu.registers[r]
}

// the PC value used by PC relative instructions
func (mcu *RP2040) relativePC() uint32 {
	return mcu.instructionPC + 4
}

func regName(r uint16) string {
	return registerName(int(r))
}

// registerList returns a string of the form "{R0, R1, LR}"
func registerList(list uint16) string {
	s := strings.Builder{}
	s.WriteRune('{')
	for i := 0; i < 16; i++ {
		if list&(1<<i) == 0 {
			continue
		}
		if s.Len() > 1 {
			s.WriteString(", ")
		}
		s.WriteString(registerName(i))
	}
	s.WriteRune('}')
	return s.String()
}

func (mcu *RP2040) decodeThumbUnimplemented(opcode uint16, opcodeHi uint16, is32bit bool) decodeFunction {
	return func() *DisasmEntry {
		if mcu.decodeOnly {
			if is32bit {
				return &DisasmEntry{
					Operator: "???",
					Operand:  fmt.Sprintf("%04x %04x", opcode, opcodeHi),
				}
			}
			return &DisasmEntry{
				Operator: "???",
				Operand:  fmt.Sprintf("%04x", opcode),
			}
		}

		var event string
		if is32bit {
			// skip the second halfword
			mcu.registers[RegPC] += 2
			event = fmt.Sprintf("opcode %04x %04x", opcode, opcodeHi)
		} else {
			event = fmt.Sprintf("opcode %04x", opcode)
		}

		mcu.Faults.NewEntry(event, faults.UnimplementedOp, mcu.instructionPC, mcu.instructionPC)
		logger.Logf(mcu, "RP2040", "unimplemented %s at %08x", event, mcu.instructionPC)

		return nil
	}
}

func (mcu *RP2040) decodeThumbMoveShiftedRegister(opcode uint16) decodeFunction {
	// format 1 - Move shifted register
	op := (opcode & 0x1800) >> 11
	shift := uint32((opcode & 0x07c0) >> 6)
	srcReg := (opcode & 0x38) >> 3
	destReg := opcode & 0x07

	// an immediate shift of zero means a shift of 32 for LSR and ASR
	if op != 0b00 && shift == 0 {
		shift = 32
	}

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			if op == 0b00 && shift == 0 {
				return &DisasmEntry{
					Operator: "MOVS",
					Operand:  fmt.Sprintf("R%d, R%d", destReg, srcReg),
				}
			}
			return &DisasmEntry{
				Operator: [...]string{"LSLS", "LSRS", "ASRS"}[op],
				Operand:  fmt.Sprintf("R%d, R%d, #%d", destReg, srcReg, shift),
			}
		}

		v := mcu.registers[srcReg]
		switch op {
		case 0b00:
			v = mcu.status.lsl(v, shift)
		case 0b01:
			v = mcu.status.lsr(v, shift)
		case 0b10:
			v = mcu.status.asr(v, shift)
		}
		mcu.registers[destReg] = v
		mcu.status.setNZ(v)

		return nil
	}
}

func (mcu *RP2040) decodeThumbAddSubtract(opcode uint16) decodeFunction {
	// format 2 - Add/subtract
	immediate := opcode&0x0400 == 0x0400
	subtract := opcode&0x0200 == 0x0200
	imm := (opcode & 0x01c0) >> 6
	srcReg := (opcode & 0x38) >> 3
	destReg := opcode & 0x07

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			operator := "ADDS"
			if subtract {
				operator = "SUBS"
			}
			if immediate {
				return &DisasmEntry{
					Operator: operator,
					Operand:  fmt.Sprintf("R%d, R%d, #%d", destReg, srcReg, imm),
				}
			}
			return &DisasmEntry{
				Operator: operator,
				Operand:  fmt.Sprintf("R%d, R%d, R%d", destReg, srcReg, imm),
			}
		}

		// value to work with is either an immediate value or is in a register
		val := uint32(imm)
		if !immediate {
			val = mcu.registers[imm]
		}

		if subtract {
			mcu.registers[destReg] = mcu.status.sub(mcu.registers[srcReg], val)
		} else {
			mcu.registers[destReg] = mcu.status.add(mcu.registers[srcReg], val)
		}

		return nil
	}
}

func (mcu *RP2040) decodeThumbMovCmpAddSubImm(opcode uint16) decodeFunction {
	// format 3 - Move/compare/add/subtract immediate
	op := (opcode & 0x1800) >> 11
	destReg := (opcode & 0x0700) >> 8
	imm := uint32(opcode & 0x00ff)

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			return &DisasmEntry{
				Operator: [...]string{"MOVS", "CMP", "ADDS", "SUBS"}[op],
				Operand:  fmt.Sprintf("R%d, #$%02x", destReg, imm),
			}
		}

		switch op {
		case 0b00:
			// carry is unaffected
			mcu.registers[destReg] = imm
			mcu.status.setNZ(imm)
		case 0b01:
			mcu.status.sub(mcu.registers[destReg], imm)
		case 0b10:
			mcu.registers[destReg] = mcu.status.add(mcu.registers[destReg], imm)
		case 0b11:
			mcu.registers[destReg] = mcu.status.sub(mcu.registers[destReg], imm)
		}

		return nil
	}
}

var aluMnemonics = [16]string{
	"ANDS", "EORS", "LSLS", "LSRS", "ASRS", "ADCS", "SBCS", "RORS",
	"TST", "RSBS", "CMP", "CMN", "ORRS", "MULS", "BICS", "MVNS",
}

func (mcu *RP2040) decodeThumbALUoperations(opcode uint16) decodeFunction {
	// format 4 - ALU operations
	op := (opcode & 0x03c0) >> 6
	srcReg := (opcode & 0x38) >> 3
	destReg := opcode & 0x07

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			switch op {
			case 0b1001:
				return &DisasmEntry{
					Operator: aluMnemonics[op],
					Operand:  fmt.Sprintf("R%d, R%d, #0", destReg, srcReg),
				}
			case 0b1101:
				return &DisasmEntry{
					Operator: aluMnemonics[op],
					Operand:  fmt.Sprintf("R%d, R%d, R%d", destReg, srcReg, destReg),
				}
			}
			return &DisasmEntry{
				Operator: aluMnemonics[op],
				Operand:  fmt.Sprintf("R%d, R%d", destReg, srcReg),
			}
		}

		a := mcu.registers[destReg]
		b := mcu.registers[srcReg]

		switch op {
		case 0b0000:
			a &= b
			mcu.status.setNZ(a)
		case 0b0001:
			a ^= b
			mcu.status.setNZ(a)
		case 0b0010:
			a = mcu.status.lsl(a, b&0xff)
			mcu.status.setNZ(a)
		case 0b0011:
			a = mcu.status.lsr(a, b&0xff)
			mcu.status.setNZ(a)
		case 0b0100:
			a = mcu.status.asr(a, b&0xff)
			mcu.status.setNZ(a)
		case 0b0101:
			a = mcu.status.addWithCarry(a, b, mcu.status.Carry)
		case 0b0110:
			a = mcu.status.addWithCarry(a, ^b, mcu.status.Carry)
		case 0b0111:
			a = mcu.status.ror(a, b&0xff)
			mcu.status.setNZ(a)
		case 0b1000:
			// TST
			mcu.status.setNZ(a & b)
			return nil
		case 0b1001:
			// RSBS Rd, Rn, #0
			a = mcu.status.sub(0, b)
		case 0b1010:
			// CMP
			mcu.status.sub(a, b)
			return nil
		case 0b1011:
			// CMN
			mcu.status.add(a, b)
			return nil
		case 0b1100:
			a |= b
			mcu.status.setNZ(a)
		case 0b1101:
			a *= b
			mcu.status.setNZ(a)
		case 0b1110:
			a &^= b
			mcu.status.setNZ(a)
		case 0b1111:
			a = ^b
			mcu.status.setNZ(a)
		}

		mcu.registers[destReg] = a

		return nil
	}
}

func (mcu *RP2040) decodeThumbHiRegisterOps(opcode uint16) decodeFunction {
	// format 5 - Hi register operations/branch exchange
	op := (opcode & 0x0300) >> 8
	srcReg := (opcode & 0x78) >> 3
	destReg := (opcode&0x80)>>4 | opcode&0x07

	return func() *DisasmEntry {
		switch op {
		case 0b00:
			if mcu.decodeOnly {
				return &DisasmEntry{
					Operator: "ADD",
					Operand:  fmt.Sprintf("%s, %s", regName(destReg), regName(srcReg)),
				}
			}
			v := mcu.operandValue(destReg) + mcu.operandValue(srcReg)
			if destReg == RegPC {
				v &^= 1
			}
			mcu.registers[destReg] = v

		case 0b01:
			if mcu.decodeOnly {
				return &DisasmEntry{
					Operator: "CMP",
					Operand:  fmt.Sprintf("%s, %s", regName(destReg), regName(srcReg)),
				}
			}
			mcu.status.sub(mcu.operandValue(destReg), mcu.operandValue(srcReg))

		case 0b10:
			if mcu.decodeOnly {
				return &DisasmEntry{
					Operator: "MOV",
					Operand:  fmt.Sprintf("%s, %s", regName(destReg), regName(srcReg)),
				}
			}
			v := mcu.operandValue(srcReg)
			if destReg == RegPC {
				v &^= 1
			}
			mcu.registers[destReg] = v

		case 0b11:
			link := opcode&0x80 == 0x80
			if mcu.decodeOnly {
				operator := "BX"
				if link {
					operator = "BLX"
				}
				return &DisasmEntry{
					Operator: operator,
					Operand:  regName(srcReg),
				}
			}

			target := mcu.operandValue(srcReg)
			if link {
				mcu.registers[RegLR] = mcu.registers[RegPC] | 1
				mcu.registers[RegPC] = target &^ 1
			} else {
				mcu.bxWritePC(target)
			}
		}

		return nil
	}
}

func (mcu *RP2040) decodeThumbPCrelativeLoad(opcode uint16) decodeFunction {
	// format 6 - PC-relative load
	destReg := (opcode & 0x0700) >> 8
	imm := uint32(opcode&0x00ff) << 2

	return func() *DisasmEntry {
		addr := mcu.relativePC()&^0x03 + imm

		if mcu.decodeOnly {
			return &DisasmEntry{
				Operator: "LDR",
				Operand:  fmt.Sprintf("R%d, [PC, #$%02x] ; $%08x", destReg, imm, addr),
			}
		}

		mcu.registers[destReg] = mcu.ReadUint32(addr)

		return nil
	}
}

var registerOffsetMnemonics = [8]string{
	"STR", "STRH", "STRB", "LDRSB", "LDR", "LDRH", "LDRB", "LDRSH",
}

func (mcu *RP2040) decodeThumbLoadStoreWithRegisterOffset(opcode uint16) decodeFunction {
	// formats 7 and 8 - Load/store with register offset and load/store
	// sign-extended byte/halfword
	op := (opcode & 0x0e00) >> 9
	offsetReg := (opcode & 0x01c0) >> 6
	baseReg := (opcode & 0x38) >> 3
	reg := opcode & 0x07

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			return &DisasmEntry{
				Operator: registerOffsetMnemonics[op],
				Operand:  fmt.Sprintf("R%d, [R%d, R%d]", reg, baseReg, offsetReg),
			}
		}

		addr := mcu.registers[baseReg] + mcu.registers[offsetReg]

		switch op {
		case 0b000:
			mcu.WriteUint32(addr, mcu.registers[reg])
		case 0b001:
			mcu.WriteUint16(addr, uint16(mcu.registers[reg]))
		case 0b010:
			mcu.WriteUint8(addr, uint8(mcu.registers[reg]))
		case 0b011:
			mcu.registers[reg] = uint32(int32(int8(mcu.ReadUint8(addr))))
		case 0b100:
			mcu.registers[reg] = mcu.ReadUint32(addr)
		case 0b101:
			mcu.registers[reg] = uint32(mcu.ReadUint16(addr))
		case 0b110:
			mcu.registers[reg] = uint32(mcu.ReadUint8(addr))
		case 0b111:
			mcu.registers[reg] = uint32(int32(int16(mcu.ReadUint16(addr))))
		}

		return nil
	}
}

func (mcu *RP2040) decodeThumbLoadStoreWithImmOffset(opcode uint16) decodeFunction {
	// format 9 - Load/store with immediate offset
	byteTransfer := opcode&0x1000 == 0x1000
	load := opcode&0x0800 == 0x0800
	offset := uint32((opcode & 0x07c0) >> 6)
	baseReg := (opcode & 0x38) >> 3
	reg := opcode & 0x07

	// word transfers have an offset in units of four bytes
	if !byteTransfer {
		offset <<= 2
	}

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			var operator string
			switch {
			case load && byteTransfer:
				operator = "LDRB"
			case load:
				operator = "LDR"
			case byteTransfer:
				operator = "STRB"
			default:
				operator = "STR"
			}
			return &DisasmEntry{
				Operator: operator,
				Operand:  fmt.Sprintf("R%d, [R%d, #$%02x]", reg, baseReg, offset),
			}
		}

		addr := mcu.registers[baseReg] + offset

		if load {
			if byteTransfer {
				mcu.registers[reg] = uint32(mcu.ReadUint8(addr))
			} else {
				mcu.registers[reg] = mcu.ReadUint32(addr)
			}
			return nil
		}

		if byteTransfer {
			mcu.WriteUint8(addr, uint8(mcu.registers[reg]))
		} else {
			mcu.WriteUint32(addr, mcu.registers[reg])
		}

		return nil
	}
}

func (mcu *RP2040) decodeThumbLoadStoreHalfword(opcode uint16) decodeFunction {
	// format 10 - Load/store halfword
	load := opcode&0x0800 == 0x0800
	offset := uint32((opcode&0x07c0)>>6) << 1
	baseReg := (opcode & 0x38) >> 3
	reg := opcode & 0x07

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			operator := "STRH"
			if load {
				operator = "LDRH"
			}
			return &DisasmEntry{
				Operator: operator,
				Operand:  fmt.Sprintf("R%d, [R%d, #$%02x]", reg, baseReg, offset),
			}
		}

		addr := mcu.registers[baseReg] + offset

		if load {
			mcu.registers[reg] = uint32(mcu.ReadUint16(addr))
		} else {
			mcu.WriteUint16(addr, uint16(mcu.registers[reg]))
		}

		return nil
	}
}

func (mcu *RP2040) decodeThumbSPRelativeLoadStore(opcode uint16) decodeFunction {
	// format 11 - SP-relative load/store
	load := opcode&0x0800 == 0x0800
	reg := (opcode & 0x0700) >> 8
	offset := uint32(opcode&0x00ff) << 2

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			operator := "STR"
			if load {
				operator = "LDR"
			}
			return &DisasmEntry{
				Operator: operator,
				Operand:  fmt.Sprintf("R%d, [SP, #$%02x]", reg, offset),
			}
		}

		addr := mcu.registers[RegSP] + offset

		if load {
			mcu.registers[reg] = mcu.ReadUint32(addr)
		} else {
			mcu.WriteUint32(addr, mcu.registers[reg])
		}

		return nil
	}
}

func (mcu *RP2040) decodeThumbLoadAddress(opcode uint16) decodeFunction {
	// format 12 - Load address
	sp := opcode&0x0800 == 0x0800
	destReg := (opcode & 0x0700) >> 8
	offset := uint32(opcode&0x00ff) << 2

	return func() *DisasmEntry {
		if sp {
			if mcu.decodeOnly {
				return &DisasmEntry{
					Operator: "ADD",
					Operand:  fmt.Sprintf("R%d, SP, #$%02x", destReg, offset),
				}
			}
			mcu.registers[destReg] = mcu.registers[RegSP] + offset
			return nil
		}

		addr := mcu.relativePC()&^0x03 + offset
		if mcu.decodeOnly {
			return &DisasmEntry{
				Operator: "ADR",
				Operand:  fmt.Sprintf("R%d, $%08x", destReg, addr),
			}
		}
		mcu.registers[destReg] = addr

		return nil
	}
}

func (mcu *RP2040) decodeThumbMiscellaneous(opcode uint16) decodeFunction {
	if opcode&0xff00 == 0xb000 {
		// format 13 - Add offset to stack pointer
		return mcu.decodeThumbAddOffsetToSP(opcode)
	} else if opcode&0xff00 == 0xb200 {
		return mcu.decodeThumbExtend(opcode)
	} else if opcode&0xf600 == 0xb400 {
		// format 14 - Push/pop registers
		return mcu.decodeThumbPushPopRegisters(opcode)
	} else if opcode&0xffef == 0xb662 {
		return mcu.decodeThumbChangeProcessorState(opcode)
	} else if opcode&0xff00 == 0xba00 && opcode&0x00c0 != 0x0080 {
		return mcu.decodeThumbReverseBytes(opcode)
	} else if opcode&0xff00 == 0xbe00 {
		return mcu.decodeThumbBreakpoint(opcode)
	} else if opcode&0xff0f == 0xbf00 {
		return mcu.decodeThumbHint(opcode)
	}

	return mcu.decodeThumbUnimplemented(opcode, 0, false)
}

func (mcu *RP2040) decodeThumbAddOffsetToSP(opcode uint16) decodeFunction {
	// format 13 - Add offset to stack pointer
	subtract := opcode&0x80 == 0x80
	imm := uint32(opcode&0x7f) << 2

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			operator := "ADD"
			if subtract {
				operator = "SUB"
			}
			return &DisasmEntry{
				Operator: operator,
				Operand:  fmt.Sprintf("SP, #$%02x", imm),
			}
		}

		if subtract {
			mcu.registers[RegSP] -= imm
		} else {
			mcu.registers[RegSP] += imm
		}

		return nil
	}
}

func (mcu *RP2040) decodeThumbExtend(opcode uint16) decodeFunction {
	op := (opcode & 0xc0) >> 6
	srcReg := (opcode & 0x38) >> 3
	destReg := opcode & 0x07

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			return &DisasmEntry{
				Operator: [...]string{"SXTH", "SXTB", "UXTH", "UXTB"}[op],
				Operand:  fmt.Sprintf("R%d, R%d", destReg, srcReg),
			}
		}

		v := mcu.registers[srcReg]
		switch op {
		case 0b00:
			v = uint32(int32(int16(v)))
		case 0b01:
			v = uint32(int32(int8(v)))
		case 0b10:
			v &= 0xffff
		case 0b11:
			v &= 0xff
		}
		mcu.registers[destReg] = v

		return nil
	}
}

func (mcu *RP2040) decodeThumbPushPopRegisters(opcode uint16) decodeFunction {
	// format 14 - Push/pop registers
	load := opcode&0x0800 == 0x0800
	pclr := opcode&0x0100 == 0x0100
	regList := opcode & 0x00ff

	return func() *DisasmEntry {
		if load {
			if mcu.decodeOnly {
				l := regList
				if pclr {
					l |= 1 << RegPC
				}
				return &DisasmEntry{
					Operator: "POP",
					Operand:  registerList(l),
				}
			}

			addr := mcu.registers[RegSP]
			for i := 0; i < 8; i++ {
				if regList&(1<<i) == 1<<i {
					mcu.registers[i] = mcu.ReadUint32(addr)
					addr += 4
				}
			}

			var pc uint32
			if pclr {
				pc = mcu.ReadUint32(addr)
				addr += 4
			}

			// the stack pointer must be updated before the PC is written
			// because the write may be an exception return
			mcu.registers[RegSP] = addr
			if pclr {
				mcu.bxWritePC(pc)
			}

			return nil
		}

		if mcu.decodeOnly {
			l := regList
			if pclr {
				l |= 1 << RegLR
			}
			return &DisasmEntry{
				Operator: "PUSH",
				Operand:  registerList(l),
			}
		}

		n := uint32(bits.OnesCount16(regList))
		if pclr {
			n++
		}

		addr := mcu.registers[RegSP] - n*4
		mcu.registers[RegSP] = addr

		for i := 0; i < 8; i++ {
			if regList&(1<<i) == 1<<i {
				mcu.WriteUint32(addr, mcu.registers[i])
				addr += 4
			}
		}
		if pclr {
			mcu.WriteUint32(addr, mcu.registers[RegLR])
		}

		return nil
	}
}

func (mcu *RP2040) decodeThumbChangeProcessorState(opcode uint16) decodeFunction {
	disable := opcode&0x10 == 0x10

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			operator := "CPSIE"
			if disable {
				operator = "CPSID"
			}
			return &DisasmEntry{
				Operator: operator,
				Operand:  "i",
			}
		}

		mcu.primask = disable
		mcu.NVIC.SetUpdated()

		return nil
	}
}

func (mcu *RP2040) decodeThumbReverseBytes(opcode uint16) decodeFunction {
	op := (opcode & 0xc0) >> 6
	srcReg := (opcode & 0x38) >> 3
	destReg := opcode & 0x07

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			return &DisasmEntry{
				Operator: [...]string{"REV", "REV16", "", "REVSH"}[op],
				Operand:  fmt.Sprintf("R%d, R%d", destReg, srcReg),
			}
		}

		v := mcu.registers[srcReg]
		switch op {
		case 0b00:
			v = bits.ReverseBytes32(v)
		case 0b01:
			v = (v&0xff00ff00)>>8 | (v&0x00ff00ff)<<8
		case 0b11:
			v = uint32(int32(int16(bits.ReverseBytes16(uint16(v)))))
		}
		mcu.registers[destReg] = v

		return nil
	}
}

func (mcu *RP2040) decodeThumbBreakpoint(opcode uint16) decodeFunction {
	imm := uint8(opcode & 0xff)

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			return &DisasmEntry{
				Operator: "BKPT",
				Operand:  fmt.Sprintf("#$%02x", imm),
			}
		}
		mcu.onBreak(imm)
		return nil
	}
}

var hintMnemonics = [...]string{"NOP", "YIELD", "WFE", "WFI", "SEV"}

func (mcu *RP2040) decodeThumbHint(opcode uint16) decodeFunction {
	hint := (opcode & 0xf0) >> 4

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			if int(hint) < len(hintMnemonics) {
				return &DisasmEntry{
					Operator: hintMnemonics[hint],
				}
			}
			return &DisasmEntry{
				Operator: "HINT",
				Operand:  fmt.Sprintf("#%d", hint),
			}
		}

		// there is only one core and no low power state. all hints execute
		// as NOP
		return nil
	}
}

func (mcu *RP2040) decodeThumbMultipleLoadStore(opcode uint16) decodeFunction {
	// format 15 - Multiple load/store
	load := opcode&0x0800 == 0x0800
	baseReg := (opcode & 0x0700) >> 8
	regList := opcode & 0x00ff

	return func() *DisasmEntry {
		// the base register is written back unless it is loaded by the
		// instruction
		writeback := !load || regList&(1<<baseReg) == 0

		if mcu.decodeOnly {
			operator := "STMIA"
			if load {
				operator = "LDMIA"
			}
			base := fmt.Sprintf("R%d", baseReg)
			if writeback {
				base += "!"
			}
			return &DisasmEntry{
				Operator: operator,
				Operand:  fmt.Sprintf("%s, %s", base, registerList(regList)),
			}
		}

		addr := mcu.registers[baseReg]

		for i := 0; i < 8; i++ {
			if regList&(1<<i) != 1<<i {
				continue
			}
			if load {
				mcu.registers[i] = mcu.ReadUint32(addr)
			} else {
				mcu.WriteUint32(addr, mcu.registers[i])
			}
			addr += 4
		}

		if writeback {
			mcu.registers[baseReg] = addr
		}

		return nil
	}
}

func (mcu *RP2040) decodeThumbConditionalBranch(opcode uint16) decodeFunction {
	// format 16 - Conditional branch
	cond := (opcode & 0x0f00) >> 8
	imm := opcode & 0x00ff

	switch cond {
	case 0b1110:
		return mcu.decodeThumbUndefined(uint8(imm))
	case 0b1111:
		return mcu.decodeThumbSupervisorCall(uint8(imm))
	}

	offset := uint32(int32(int8(imm)) << 1)

	return func() *DisasmEntry {
		target := mcu.relativePC() + offset

		if mcu.decodeOnly {
			return &DisasmEntry{
				Operator: fmt.Sprintf("B%s", strings.ToUpper(conditionMnemonic[cond])),
				Operand:  fmt.Sprintf("$%08x", target),
			}
		}

		if mcu.status.condition(cond) {
			mcu.registers[RegPC] = target
		}

		return nil
	}
}

func (mcu *RP2040) decodeThumbUndefined(imm uint8) decodeFunction {
	return func() *DisasmEntry {
		if mcu.decodeOnly {
			return &DisasmEntry{
				Operator: "UDF",
				Operand:  fmt.Sprintf("#$%02x", imm),
			}
		}
		mcu.onBreak(imm)
		return nil
	}
}

func (mcu *RP2040) decodeThumbSupervisorCall(imm uint8) decodeFunction {
	// format 17 - Software interrupt
	return func() *DisasmEntry {
		if mcu.decodeOnly {
			return &DisasmEntry{
				Operator: "SVC",
				Operand:  fmt.Sprintf("#$%02x", imm),
			}
		}
		mcu.exceptionEntry(nvic.SVCall)
		return nil
	}
}

func (mcu *RP2040) decodeThumbUnconditionalBranch(opcode uint16) decodeFunction {
	// format 18 - Unconditional branch
	imm := uint32(opcode&0x07ff) << 1

	// sign extend the 12 bit offset
	offset := uint32(int32(imm<<20) >> 20)

	return func() *DisasmEntry {
		target := mcu.relativePC() + offset

		if mcu.decodeOnly {
			return &DisasmEntry{
				Operator: "B",
				Operand:  fmt.Sprintf("$%08x", target),
			}
		}

		mcu.registers[RegPC] = target

		return nil
	}
}

// decodeThumb32 decodes the 32bit instructions available on the ARMv6-M
// architecture.
func (mcu *RP2040) decodeThumb32(opcode uint16, opcodeHi uint16) decodeFunction {
	if opcode&0xf800 == 0xf000 && opcodeHi&0xd000 == 0xd000 {
		return mcu.decodeThumb32BranchWithLink(opcode, opcodeHi)
	} else if opcode&0xfff0 == 0xf380 && opcodeHi&0xff00 == 0x8800 {
		return mcu.decodeThumb32MoveToSpecialRegister(opcode, opcodeHi)
	} else if opcode == 0xf3ef && opcodeHi&0xf000 == 0x8000 {
		return mcu.decodeThumb32MoveFromSpecialRegister(opcodeHi)
	} else if opcode == 0xf3bf && opcodeHi&0xfff0 >= 0x8f40 && opcodeHi&0xfff0 <= 0x8f60 {
		return mcu.decodeThumb32Barrier(opcodeHi)
	} else if opcode&0xfff0 == 0xf7f0 && opcodeHi&0xf000 == 0xa000 {
		imm := (opcode&0x000f)<<12 | opcodeHi&0x0fff
		return func() *DisasmEntry {
			if mcu.decodeOnly {
				return &DisasmEntry{
					Operator: "UDF.W",
					Operand:  fmt.Sprintf("#$%04x", imm),
				}
			}
			mcu.registers[RegPC] += 2
			mcu.onBreak(uint8(imm))
			return nil
		}
	}

	return mcu.decodeThumbUnimplemented(opcode, opcodeHi, true)
}

func (mcu *RP2040) decodeThumb32BranchWithLink(opcode uint16, opcodeHi uint16) decodeFunction {
	s := uint32(opcode>>10) & 0x01
	imm10 := uint32(opcode & 0x03ff)
	j1 := uint32(opcodeHi>>13) & 0x01
	j2 := uint32(opcodeHi>>11) & 0x01
	imm11 := uint32(opcodeHi & 0x07ff)

	i1 := ^(j1 ^ s) & 0x01
	i2 := ^(j2 ^ s) & 0x01
	imm := s<<24 | i1<<23 | i2<<22 | imm10<<12 | imm11<<1

	// sign extend the 25 bit offset
	offset := uint32(int32(imm<<7) >> 7)

	return func() *DisasmEntry {
		// the PC value is the address of the instruction plus four, which
		// is also the address of the next instruction
		next := mcu.relativePC()
		target := next + offset

		if mcu.decodeOnly {
			return &DisasmEntry{
				Operator: "BL",
				Operand:  fmt.Sprintf("$%08x", target),
			}
		}

		mcu.registers[RegLR] = next | 1
		mcu.registers[RegPC] = target

		return nil
	}
}

func (mcu *RP2040) decodeThumb32MoveToSpecialRegister(opcode uint16, opcodeHi uint16) decodeFunction {
	srcReg := opcode & 0x000f
	sysm := uint32(opcodeHi & 0x00ff)

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			return &DisasmEntry{
				Operator: "MSR",
				Operand:  fmt.Sprintf("%s, %s", strings.ToUpper(specialRegisterName(sysm)), regName(srcReg)),
			}
		}
		mcu.registers[RegPC] += 2
		mcu.writeSpecialRegister(sysm, mcu.registers[srcReg])
		return nil
	}
}

func (mcu *RP2040) decodeThumb32MoveFromSpecialRegister(opcodeHi uint16) decodeFunction {
	destReg := (opcodeHi & 0x0f00) >> 8
	sysm := uint32(opcodeHi & 0x00ff)

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			return &DisasmEntry{
				Operator: "MRS",
				Operand:  fmt.Sprintf("%s, %s", regName(destReg), strings.ToUpper(specialRegisterName(sysm))),
			}
		}
		mcu.registers[RegPC] += 2
		mcu.registers[destReg] = mcu.readSpecialRegister(sysm)
		return nil
	}
}

func (mcu *RP2040) decodeThumb32Barrier(opcodeHi uint16) decodeFunction {
	op := (opcodeHi & 0x00f0) >> 4

	return func() *DisasmEntry {
		if mcu.decodeOnly {
			var operator string
			switch op {
			case 0b0100:
				operator = "DSB"
			case 0b0101:
				operator = "DMB"
			case 0b0110:
				operator = "ISB"
			}
			return &DisasmEntry{
				Operator: operator,
				Operand:  "sy",
			}
		}

		// memory accesses complete immediately so barriers have no effect
		mcu.registers[RegPC] += 2

		return nil
	}
}
