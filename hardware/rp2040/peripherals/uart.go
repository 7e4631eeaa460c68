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

// UART register offsets.
const (
	UARTDR = 0x00
	UARTFR = 0x18
)

// UART is the transmit side of a PL011 UART. Bytes written to the data
// register are passed to the OnByte function.
//
// The flag register always reads zero, meaning the transmit FIFO is never
// full and the UART is never busy.
type UART struct {
	Logging

	// OnByte is called for every byte written to the data register. Can be
	// nil, in which case the byte is discarded
	OnByte func(uint8)
}

// NewUART is the preferred method of initialisation for the UART type.
func NewUART(name string) *UART {
	return &UART{
		Logging: Logging{name: name},
	}
}

// ReadUint32 implements the Peripheral interface.
func (p *UART) ReadUint32(offset uint32) uint32 {
	switch offset {
	case UARTFR:
		return 0
	}
	return p.Logging.ReadUint32(offset)
}

// WriteUint32 implements the Peripheral interface.
func (p *UART) WriteUint32(offset uint32, value uint32) {
	switch offset {
	case UARTDR:
		if p.OnByte != nil {
			p.OnByte(uint8(value))
		}
	default:
		p.Logging.WriteUint32(offset, value)
	}
}
