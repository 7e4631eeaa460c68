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

package assembler

// Cond is the condition field of a conditional branch.
type Cond uint16

// List of valid Cond values.
const (
	EQ Cond = iota
	NE
	CS
	CC
	MI
	PL
	VS
	VC
	HI
	LS
	GE
	LT
	GT
	LE
)

// ALUOp is the operation of a format 4 data processing instruction.
type ALUOp uint16

// List of valid ALUOp values.
const (
	ANDS ALUOp = iota
	EORS
	LSLS
	LSRS
	ASRS
	ADCS
	SBCS
	RORS
	TST
	RSBS
	CMP
	CMN
	ORRS
	MULS
	BICS
	MVNS
)

// register numbers for the registers with a special role
const (
	SP = 13
	LR = 14
	PC = 15
)

func lo(r int) uint16 {
	return uint16(r) & 0x07
}

// LslsImm encodes LSLS Rd, Rm, #imm. LslsImm(d, m, 0) is MOVS Rd, Rm.
func LslsImm(rd, rm int, imm uint32) uint16 {
	return 0x0000 | uint16(imm&0x1f)<<6 | lo(rm)<<3 | lo(rd)
}

// LsrsImm encodes LSRS Rd, Rm, #imm. A shift of 32 is encoded as zero.
func LsrsImm(rd, rm int, imm uint32) uint16 {
	return 0x0800 | uint16(imm&0x1f)<<6 | lo(rm)<<3 | lo(rd)
}

// AsrsImm encodes ASRS Rd, Rm, #imm. A shift of 32 is encoded as zero.
func AsrsImm(rd, rm int, imm uint32) uint16 {
	return 0x1000 | uint16(imm&0x1f)<<6 | lo(rm)<<3 | lo(rd)
}

// AddsReg encodes ADDS Rd, Rn, Rm.
func AddsReg(rd, rn, rm int) uint16 {
	return 0x1800 | lo(rm)<<6 | lo(rn)<<3 | lo(rd)
}

// SubsReg encodes SUBS Rd, Rn, Rm.
func SubsReg(rd, rn, rm int) uint16 {
	return 0x1a00 | lo(rm)<<6 | lo(rn)<<3 | lo(rd)
}

// AddsImm3 encodes ADDS Rd, Rn, #imm.
func AddsImm3(rd, rn int, imm uint32) uint16 {
	return 0x1c00 | uint16(imm&0x07)<<6 | lo(rn)<<3 | lo(rd)
}

// SubsImm3 encodes SUBS Rd, Rn, #imm.
func SubsImm3(rd, rn int, imm uint32) uint16 {
	return 0x1e00 | uint16(imm&0x07)<<6 | lo(rn)<<3 | lo(rd)
}

// MovsImm encodes MOVS Rd, #imm.
func MovsImm(rd int, imm uint32) uint16 {
	return 0x2000 | lo(rd)<<8 | uint16(imm&0xff)
}

// CmpImm encodes CMP Rn, #imm.
func CmpImm(rn int, imm uint32) uint16 {
	return 0x2800 | lo(rn)<<8 | uint16(imm&0xff)
}

// AddsImm encodes ADDS Rdn, #imm.
func AddsImm(rdn int, imm uint32) uint16 {
	return 0x3000 | lo(rdn)<<8 | uint16(imm&0xff)
}

// SubsImm encodes SUBS Rdn, #imm.
func SubsImm(rdn int, imm uint32) uint16 {
	return 0x3800 | lo(rdn)<<8 | uint16(imm&0xff)
}

// DataProcessing encodes the format 4 instructions. For RSBS the source
// register is the register being negated. For MULS the destination is also
// the second operand.
func DataProcessing(op ALUOp, rdn, rm int) uint16 {
	return 0x4000 | uint16(op&0x0f)<<6 | lo(rm)<<3 | lo(rdn)
}

func hiReg(op uint16, rdn, rm int) uint16 {
	d := uint16(rdn) & 0x0f
	return 0x4400 | op<<8 | (d&0x08)<<4 | (uint16(rm)&0x0f)<<3 | d&0x07
}

// AddHi encodes ADD Rdn, Rm where either register may be R8 to R15.
func AddHi(rdn, rm int) uint16 {
	return hiReg(0b00, rdn, rm)
}

// CmpHi encodes CMP Rn, Rm where either register may be R8 to R15.
func CmpHi(rn, rm int) uint16 {
	return hiReg(0b01, rn, rm)
}

// Mov encodes MOV Rd, Rm.
func Mov(rd, rm int) uint16 {
	return hiReg(0b10, rd, rm)
}

// Bx encodes BX Rm.
func Bx(rm int) uint16 {
	return 0x4700 | (uint16(rm)&0x0f)<<3
}

// Blx encodes BLX Rm.
func Blx(rm int) uint16 {
	return 0x4780 | (uint16(rm)&0x0f)<<3
}

// LdrLiteral encodes LDR Rt, [PC, #imm]. The immediate is in bytes and must be
// a multiple of four.
func LdrLiteral(rt int, imm uint32) uint16 {
	return 0x4800 | lo(rt)<<8 | uint16(imm>>2)&0xff
}

// register offset load and store operations
const (
	opStr   = 0b000
	opStrh  = 0b001
	opStrb  = 0b010
	opLdrsb = 0b011
	opLdr   = 0b100
	opLdrh  = 0b101
	opLdrb  = 0b110
	opLdrsh = 0b111
)

func registerOffset(op uint16, rt, rn, rm int) uint16 {
	return 0x5000 | op<<9 | lo(rm)<<6 | lo(rn)<<3 | lo(rt)
}

// StrReg encodes STR Rt, [Rn, Rm].
func StrReg(rt, rn, rm int) uint16 { return registerOffset(opStr, rt, rn, rm) }

// StrhReg encodes STRH Rt, [Rn, Rm].
func StrhReg(rt, rn, rm int) uint16 { return registerOffset(opStrh, rt, rn, rm) }

// StrbReg encodes STRB Rt, [Rn, Rm].
func StrbReg(rt, rn, rm int) uint16 { return registerOffset(opStrb, rt, rn, rm) }

// LdrsbReg encodes LDRSB Rt, [Rn, Rm].
func LdrsbReg(rt, rn, rm int) uint16 { return registerOffset(opLdrsb, rt, rn, rm) }

// LdrReg encodes LDR Rt, [Rn, Rm].
func LdrReg(rt, rn, rm int) uint16 { return registerOffset(opLdr, rt, rn, rm) }

// LdrhReg encodes LDRH Rt, [Rn, Rm].
func LdrhReg(rt, rn, rm int) uint16 { return registerOffset(opLdrh, rt, rn, rm) }

// LdrbReg encodes LDRB Rt, [Rn, Rm].
func LdrbReg(rt, rn, rm int) uint16 { return registerOffset(opLdrb, rt, rn, rm) }

// LdrshReg encodes LDRSH Rt, [Rn, Rm].
func LdrshReg(rt, rn, rm int) uint16 { return registerOffset(opLdrsh, rt, rn, rm) }

// StrImm encodes STR Rt, [Rn, #imm]. The immediate is in bytes.
func StrImm(rt, rn int, imm uint32) uint16 {
	return 0x6000 | uint16(imm>>2&0x1f)<<6 | lo(rn)<<3 | lo(rt)
}

// LdrImm encodes LDR Rt, [Rn, #imm]. The immediate is in bytes.
func LdrImm(rt, rn int, imm uint32) uint16 {
	return 0x6800 | uint16(imm>>2&0x1f)<<6 | lo(rn)<<3 | lo(rt)
}

// StrbImm encodes STRB Rt, [Rn, #imm].
func StrbImm(rt, rn int, imm uint32) uint16 {
	return 0x7000 | uint16(imm&0x1f)<<6 | lo(rn)<<3 | lo(rt)
}

// LdrbImm encodes LDRB Rt, [Rn, #imm].
func LdrbImm(rt, rn int, imm uint32) uint16 {
	return 0x7800 | uint16(imm&0x1f)<<6 | lo(rn)<<3 | lo(rt)
}

// StrhImm encodes STRH Rt, [Rn, #imm]. The immediate is in bytes.
func StrhImm(rt, rn int, imm uint32) uint16 {
	return 0x8000 | uint16(imm>>1&0x1f)<<6 | lo(rn)<<3 | lo(rt)
}

// LdrhImm encodes LDRH Rt, [Rn, #imm]. The immediate is in bytes.
func LdrhImm(rt, rn int, imm uint32) uint16 {
	return 0x8800 | uint16(imm>>1&0x1f)<<6 | lo(rn)<<3 | lo(rt)
}

// StrSP encodes STR Rt, [SP, #imm]. The immediate is in bytes.
func StrSP(rt int, imm uint32) uint16 {
	return 0x9000 | lo(rt)<<8 | uint16(imm>>2)&0xff
}

// LdrSP encodes LDR Rt, [SP, #imm]. The immediate is in bytes.
func LdrSP(rt int, imm uint32) uint16 {
	return 0x9800 | lo(rt)<<8 | uint16(imm>>2)&0xff
}

// Adr encodes ADR Rd, #imm. The immediate is in bytes from the word aligned PC.
func Adr(rd int, imm uint32) uint16 {
	return 0xa000 | lo(rd)<<8 | uint16(imm>>2)&0xff
}

// AddSPImm encodes ADD Rd, SP, #imm. The immediate is in bytes.
func AddSPImm(rd int, imm uint32) uint16 {
	return 0xa800 | lo(rd)<<8 | uint16(imm>>2)&0xff
}

// IncSP encodes ADD SP, SP, #imm. The immediate is in bytes.
func IncSP(imm uint32) uint16 {
	return 0xb000 | uint16(imm>>2)&0x7f
}

// DecSP encodes SUB SP, SP, #imm. The immediate is in bytes.
func DecSP(imm uint32) uint16 {
	return 0xb080 | uint16(imm>>2)&0x7f
}

// Sxth encodes SXTH Rd, Rm.
func Sxth(rd, rm int) uint16 { return 0xb200 | lo(rm)<<3 | lo(rd) }

// Sxtb encodes SXTB Rd, Rm.
func Sxtb(rd, rm int) uint16 { return 0xb240 | lo(rm)<<3 | lo(rd) }

// Uxth encodes UXTH Rd, Rm.
func Uxth(rd, rm int) uint16 { return 0xb280 | lo(rm)<<3 | lo(rd) }

// Uxtb encodes UXTB Rd, Rm.
func Uxtb(rd, rm int) uint16 { return 0xb2c0 | lo(rm)<<3 | lo(rd) }

// Push encodes PUSH {list}. The list is a bit mask of R0 to R7. LR is pushed
// if lr is true.
func Push(list uint8, lr bool) uint16 {
	op := 0xb400 | uint16(list)
	if lr {
		op |= 0x0100
	}
	return op
}

// Pop encodes POP {list}. The list is a bit mask of R0 to R7. PC is popped if
// pc is true.
func Pop(list uint8, pc bool) uint16 {
	op := 0xbc00 | uint16(list)
	if pc {
		op |= 0x0100
	}
	return op
}

// Cpsie encodes CPSIE i.
func Cpsie() uint16 { return 0xb662 }

// Cpsid encodes CPSID i.
func Cpsid() uint16 { return 0xb672 }

// Rev encodes REV Rd, Rm.
func Rev(rd, rm int) uint16 { return 0xba00 | lo(rm)<<3 | lo(rd) }

// Rev16 encodes REV16 Rd, Rm.
func Rev16(rd, rm int) uint16 { return 0xba40 | lo(rm)<<3 | lo(rd) }

// Revsh encodes REVSH Rd, Rm.
func Revsh(rd, rm int) uint16 { return 0xbac0 | lo(rm)<<3 | lo(rd) }

// Bkpt encodes BKPT #imm.
func Bkpt(imm uint8) uint16 { return 0xbe00 | uint16(imm) }

// Nop encodes NOP.
func Nop() uint16 { return 0xbf00 }

// Wfi encodes WFI.
func Wfi() uint16 { return 0xbf30 }

// Stmia encodes STMIA Rn!, {list}.
func Stmia(rn int, list uint8) uint16 {
	return 0xc000 | lo(rn)<<8 | uint16(list)
}

// Ldmia encodes LDMIA Rn!, {list}. The base register is not written back if
// it is in the list.
func Ldmia(rn int, list uint8) uint16 {
	return 0xc800 | lo(rn)<<8 | uint16(list)
}

// Bcond encodes B<cond> with an offset in bytes from the address of the
// instruction plus four.
func Bcond(cond Cond, offset int32) uint16 {
	return 0xd000 | uint16(cond&0x0f)<<8 | uint16(offset>>1)&0xff
}

// Udf encodes UDF #imm.
func Udf(imm uint8) uint16 { return 0xde00 | uint16(imm) }

// Svc encodes SVC #imm.
func Svc(imm uint8) uint16 { return 0xdf00 | uint16(imm) }

// B encodes an unconditional branch with an offset in bytes from the address
// of the instruction plus four.
func B(offset int32) uint16 {
	return 0xe000 | uint16(offset>>1)&0x07ff
}

// BL encodes BL with an offset in bytes from the address of the instruction
// plus four.
func BL(offset int32) uint32 {
	imm := uint32(offset) >> 1
	s := (imm >> 23) & 0x01
	i1 := (imm >> 22) & 0x01
	i2 := (imm >> 21) & 0x01
	j1 := ^(i1 ^ s) & 0x01
	j2 := ^(i2 ^ s) & 0x01

	first := 0xf000 | s<<10 | (imm>>11)&0x03ff
	second := 0xd000 | j1<<13 | j2<<11 | imm&0x07ff

	return second<<16 | first
}

// special registers for MRS and MSR
const (
	APSR    = 0
	IPSR    = 5
	XPSR    = 3
	MSP     = 8
	PSP     = 9
	PRIMASK = 16
	CONTROL = 20
)

// Msr encodes MSR <sysm>, Rn.
func Msr(sysm uint8, rn int) uint32 {
	first := 0xf380 | uint32(rn)&0x0f
	second := 0x8800 | uint32(sysm)
	return second<<16 | first
}

// Mrs encodes MRS Rd, <sysm>.
func Mrs(rd int, sysm uint8) uint32 {
	second := 0x8000 | (uint32(rd)&0x0f)<<8 | uint32(sysm)
	return second<<16 | 0xf3ef
}

// Barrier options.
const (
	DSB = 0x4
	DMB = 0x5
	ISB = 0x6
)

// Barrier encodes DSB, DMB or ISB with the full system option.
func Barrier(op uint8) uint32 {
	second := 0x8f0f | uint32(op&0x0f)<<4
	return second<<16 | 0xf3bf
}

// UdfW encodes the 32bit UDF.W #imm.
func UdfW(imm uint16) uint32 {
	first := 0xf7f0 | uint32(imm>>12)&0x0f
	second := 0xa000 | uint32(imm)&0x0fff
	return second<<16 | first
}
