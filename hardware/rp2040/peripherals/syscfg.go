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

package peripherals

// SYSCFG register offsets.
const (
	Proc0NMIMask = 0x00
	Proc1NMIMask = 0x04
)

// NMIMasker is implemented by the interrupt controller. The NMI mask selects
// which IRQs are also routed to the NMI of the processor.
type NMIMasker interface {
	NMIMask() uint32
	SetNMIMask(uint32)
}

// SysCfg is the system configuration block. The NMI mask of processor zero is
// passed through to the interrupt controller. Processor one is not emulated
// so its mask is only stored.
type SysCfg struct {
	Logging

	nvic      NMIMasker
	proc1Mask uint32
}

// NewSysCfg is the preferred method of initialisation for the SysCfg type.
func NewSysCfg(name string, nvic NMIMasker) *SysCfg {
	return &SysCfg{
		Logging: Logging{name: name},
		nvic:    nvic,
	}
}

// ReadUint32 implements the Peripheral interface.
func (p *SysCfg) ReadUint32(offset uint32) uint32 {
	switch offset {
	case Proc0NMIMask:
		return p.nvic.NMIMask()
	case Proc1NMIMask:
		return p.proc1Mask
	}
	return p.Logging.ReadUint32(offset)
}

// WriteUint32 implements the Peripheral interface.
func (p *SysCfg) WriteUint32(offset uint32, value uint32) {
	switch offset {
	case Proc0NMIMask:
		p.nvic.SetNMIMask(value)
	case Proc1NMIMask:
		p.proc1Mask = value
	default:
		p.Logging.WriteUint32(offset, value)
	}
}
