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

import (
	"encoding/binary"

	"github.com/jetsetilly/rp2040emu/curated"
)

// Sentinel errors.
const (
	OutOfRange       = "assembler: %s: value out of range (%d)"
	Misaligned       = "assembler: %s: misaligned address (%08x)"
	UnknownLabel     = "assembler: unknown label (%s)"
	DuplicateLabel   = "assembler: duplicate label (%s)"
	OriginBackwards  = "assembler: origin %08x is before current address %08x"
	HighRegisterUsed = "assembler: %s: high register not allowed (r%d)"
)

type fixupKind int

const (
	fixBranch fixupKind = iota
	fixBcond
	fixBL
	fixLiteral
	fixAdr
	fixAddress
)

// a fixup is an instruction or data word that refers to a label.
type fixup struct {
	kind  fixupKind
	idx   int
	label string
	reg   int
	cond  Cond
}

// Program is a sequence of instructions and data starting at an origin
// address. Instructions that refer to labels are resolved by Assemble().
//
// The first error is recorded and all subsequent calls do nothing. The error
// is returned by Assemble().
type Program struct {
	origin uint32
	code   []uint16
	labels map[string]uint32
	fixups []fixup
	err    error
}

// NewProgram is the preferred method of initialisation for the Program type.
func NewProgram(origin uint32) *Program {
	return &Program{
		origin: origin,
		labels: make(map[string]uint32),
	}
}

// Address returns the address of the next instruction.
func (p *Program) Address() uint32 {
	return p.origin + uint32(len(p.code))*2
}

func (p *Program) emit(op uint16) {
	if p.err != nil {
		return
	}
	p.code = append(p.code, op)
}

func (p *Program) emit32(op uint32) {
	p.emit(uint16(op))
	p.emit(uint16(op >> 16))
}

func (p *Program) check(ok bool, pattern string, values ...interface{}) bool {
	if p.err != nil {
		return false
	}
	if !ok {
		p.err = curated.Errorf(pattern, values...)
	}
	return ok
}

func (p *Program) lowRegisters(name string, regs ...int) bool {
	for _, r := range regs {
		if !p.check(r >= 0 && r < 8, HighRegisterUsed, name, r) {
			return false
		}
	}
	return true
}

// Label the address of the next instruction.
func (p *Program) Label(name string) {
	if !p.check(!p.hasLabel(name), DuplicateLabel, name) {
		return
	}
	p.labels[name] = p.Address()
}

func (p *Program) hasLabel(name string) bool {
	_, ok := p.labels[name]
	return ok
}

// Org moves the next address forward to the address. The gap is filled with
// zeroes.
func (p *Program) Org(addr uint32) {
	if !p.check(addr >= p.Address(), OriginBackwards, addr, p.Address()) {
		return
	}
	if !p.check(addr&0x01 == 0, Misaligned, "org", addr) {
		return
	}
	for p.Address() < addr {
		p.emit(0)
	}
}

// Align the next address to four bytes.
func (p *Program) Align() {
	if p.Address()&0x03 != 0 {
		p.emit(0)
	}
}

// Word adds a 32bit data word. The address must be word aligned.
func (p *Program) Word(v uint32) {
	if !p.check(p.Address()&0x03 == 0, Misaligned, "word", p.Address()) {
		return
	}
	p.emit32(v)
}

// WordAddress adds a 32bit data word containing the address of the label with
// the thumb bit set. Used for vector tables.
func (p *Program) WordAddress(label string) {
	if !p.check(p.Address()&0x03 == 0, Misaligned, "word", p.Address()) {
		return
	}
	p.fixups = append(p.fixups, fixup{kind: fixAddress, idx: len(p.code), label: label})
	p.emit32(0)
}

// Bytes adds data to the program. The data is padded to a whole number of
// halfwords.
func (p *Program) Bytes(b []byte) {
	for i := 0; i < len(b); i += 2 {
		v := uint16(b[i])
		if i+1 < len(b) {
			v |= uint16(b[i+1]) << 8
		}
		p.emit(v)
	}
}

// Raw adds an opcode to the program without any checks.
func (p *Program) Raw(op uint16) {
	p.emit(op)
}

// MovsImm adds MOVS Rd, #imm.
func (p *Program) MovsImm(rd int, imm uint32) {
	if p.lowRegisters("movs", rd) && p.check(imm <= 0xff, OutOfRange, "movs", imm) {
		p.emit(MovsImm(rd, imm))
	}
}

// CmpImm adds CMP Rn, #imm.
func (p *Program) CmpImm(rn int, imm uint32) {
	if p.lowRegisters("cmp", rn) && p.check(imm <= 0xff, OutOfRange, "cmp", imm) {
		p.emit(CmpImm(rn, imm))
	}
}

// AddsImm adds ADDS Rdn, #imm.
func (p *Program) AddsImm(rdn int, imm uint32) {
	if p.lowRegisters("adds", rdn) && p.check(imm <= 0xff, OutOfRange, "adds", imm) {
		p.emit(AddsImm(rdn, imm))
	}
}

// SubsImm adds SUBS Rdn, #imm.
func (p *Program) SubsImm(rdn int, imm uint32) {
	if p.lowRegisters("subs", rdn) && p.check(imm <= 0xff, OutOfRange, "subs", imm) {
		p.emit(SubsImm(rdn, imm))
	}
}

// AddsReg adds ADDS Rd, Rn, Rm.
func (p *Program) AddsReg(rd, rn, rm int) {
	if p.lowRegisters("adds", rd, rn, rm) {
		p.emit(AddsReg(rd, rn, rm))
	}
}

// SubsReg adds SUBS Rd, Rn, Rm.
func (p *Program) SubsReg(rd, rn, rm int) {
	if p.lowRegisters("subs", rd, rn, rm) {
		p.emit(SubsReg(rd, rn, rm))
	}
}

// LslsImm adds LSLS Rd, Rm, #imm.
func (p *Program) LslsImm(rd, rm int, imm uint32) {
	if p.lowRegisters("lsls", rd, rm) && p.check(imm <= 31, OutOfRange, "lsls", imm) {
		p.emit(LslsImm(rd, rm, imm))
	}
}

// LsrsImm adds LSRS Rd, Rm, #imm.
func (p *Program) LsrsImm(rd, rm int, imm uint32) {
	if p.lowRegisters("lsrs", rd, rm) && p.check(imm >= 1 && imm <= 32, OutOfRange, "lsrs", imm) {
		p.emit(LsrsImm(rd, rm, imm))
	}
}

// DataProcessing adds one of the format 4 instructions.
func (p *Program) DataProcessing(op ALUOp, rdn, rm int) {
	if p.lowRegisters("alu", rdn, rm) {
		p.emit(DataProcessing(op, rdn, rm))
	}
}

// Mov adds MOV Rd, Rm.
func (p *Program) Mov(rd, rm int) {
	p.emit(Mov(rd, rm))
}

// Bx adds BX Rm.
func (p *Program) Bx(rm int) {
	p.emit(Bx(rm))
}

// Blx adds BLX Rm.
func (p *Program) Blx(rm int) {
	p.emit(Blx(rm))
}

// LdrImm adds LDR Rt, [Rn, #imm].
func (p *Program) LdrImm(rt, rn int, imm uint32) {
	if p.lowRegisters("ldr", rt, rn) && p.check(imm <= 124 && imm&0x03 == 0, OutOfRange, "ldr", imm) {
		p.emit(LdrImm(rt, rn, imm))
	}
}

// StrImm adds STR Rt, [Rn, #imm].
func (p *Program) StrImm(rt, rn int, imm uint32) {
	if p.lowRegisters("str", rt, rn) && p.check(imm <= 124 && imm&0x03 == 0, OutOfRange, "str", imm) {
		p.emit(StrImm(rt, rn, imm))
	}
}

// Push adds PUSH {list}.
func (p *Program) Push(list uint8, lr bool) {
	p.emit(Push(list, lr))
}

// Pop adds POP {list}.
func (p *Program) Pop(list uint8, pc bool) {
	p.emit(Pop(list, pc))
}

// Stmia adds STMIA Rn!, {list}.
func (p *Program) Stmia(rn int, list uint8) {
	if p.lowRegisters("stmia", rn) {
		p.emit(Stmia(rn, list))
	}
}

// Ldmia adds LDMIA Rn!, {list}.
func (p *Program) Ldmia(rn int, list uint8) {
	if p.lowRegisters("ldmia", rn) {
		p.emit(Ldmia(rn, list))
	}
}

// Bkpt adds BKPT #imm.
func (p *Program) Bkpt(imm uint8) {
	p.emit(Bkpt(imm))
}

// Udf adds UDF #imm.
func (p *Program) Udf(imm uint8) {
	p.emit(Udf(imm))
}

// Svc adds SVC #imm.
func (p *Program) Svc(imm uint8) {
	p.emit(Svc(imm))
}

// Nop adds NOP.
func (p *Program) Nop() {
	p.emit(Nop())
}

// Msr adds MSR <sysm>, Rn.
func (p *Program) Msr(sysm uint8, rn int) {
	p.emit32(Msr(sysm, rn))
}

// Mrs adds MRS Rd, <sysm>.
func (p *Program) Mrs(rd int, sysm uint8) {
	p.emit32(Mrs(rd, sysm))
}

func (p *Program) refer(kind fixupKind, label string, reg int, cond Cond) {
	if p.err != nil {
		return
	}
	p.fixups = append(p.fixups, fixup{kind: kind, idx: len(p.code), label: label, reg: reg, cond: cond})
	p.emit(0)
	if kind == fixBL {
		p.emit(0)
	}
}

// B adds an unconditional branch to the label.
func (p *Program) B(label string) {
	p.refer(fixBranch, label, 0, 0)
}

// Bcond adds a conditional branch to the label.
func (p *Program) Bcond(cond Cond, label string) {
	p.refer(fixBcond, label, 0, cond)
}

// BL adds a branch with link to the label.
func (p *Program) BL(label string) {
	p.refer(fixBL, label, 0, 0)
}

// LdrLiteral adds LDR Rt, [PC, #imm] where the address is that of the label.
// The label must be word aligned and after the instruction.
func (p *Program) LdrLiteral(rt int, label string) {
	if p.lowRegisters("ldr", rt) {
		p.refer(fixLiteral, label, rt, 0)
	}
}

// Adr adds ADR Rd, label.
func (p *Program) Adr(rd int, label string) {
	if p.lowRegisters("adr", rd) {
		p.refer(fixAdr, label, rd, 0)
	}
}

// Assemble resolves all labels and returns the program as bytes in little
// endian order.
func (p *Program) Assemble() ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}

	for _, f := range p.fixups {
		target, ok := p.labels[f.label]
		if !ok {
			return nil, curated.Errorf(UnknownLabel, f.label)
		}

		addr := p.origin + uint32(f.idx)*2
		pc := addr + 4
		offset := int32(target - pc)

		switch f.kind {
		case fixBranch:
			if offset < -2048 || offset > 2046 {
				return nil, curated.Errorf(OutOfRange, "b", offset)
			}
			p.code[f.idx] = B(offset)
		case fixBcond:
			if offset < -256 || offset > 254 {
				return nil, curated.Errorf(OutOfRange, "bcond", offset)
			}
			p.code[f.idx] = Bcond(f.cond, offset)
		case fixBL:
			if offset < -(1<<24) || offset >= 1<<24 {
				return nil, curated.Errorf(OutOfRange, "bl", offset)
			}
			op := BL(offset)
			p.code[f.idx] = uint16(op)
			p.code[f.idx+1] = uint16(op >> 16)
		case fixLiteral, fixAdr:
			if target&0x03 != 0 {
				return nil, curated.Errorf(Misaligned, "literal", target)
			}
			imm := target - pc&^0x03
			if target < pc&^0x03 || imm > 1020 {
				return nil, curated.Errorf(OutOfRange, "literal", int64(target)-int64(pc&^0x03))
			}
			if f.kind == fixLiteral {
				p.code[f.idx] = LdrLiteral(f.reg, imm)
			} else {
				p.code[f.idx] = Adr(f.reg, imm)
			}
		case fixAddress:
			v := target | 1
			p.code[f.idx] = uint16(v)
			p.code[f.idx+1] = uint16(v >> 16)
		}
	}

	b := make([]byte, len(p.code)*2)
	for i, op := range p.code {
		binary.LittleEndian.PutUint16(b[i*2:], op)
	}

	return b, nil
}
