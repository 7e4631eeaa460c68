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

import (
	"fmt"

	"github.com/jetsetilly/rp2040emu/logger"
)

// Environment is the context in which a peripheral operates.
type Environment interface {
	logger.Permission

	// UnhandledRegister is called when firmware writes to a register that
	// the peripheral does not model
	UnhandledRegister(event string)
}

// Logging is a peripheral with no behaviour other than logging the access.
// Reads return 0xffffffff.
//
// Peripheral models embed Logging and defer to it for the registers they do
// not handle.
type Logging struct {
	name string
	env  Environment
}

// NewLogging is the preferred method of initialisation for the Logging type.
func NewLogging(name string) *Logging {
	return &Logging{name: name}
}

// Name implements the Peripheral interface.
func (p *Logging) Name() string {
	return p.name
}

// SetEnvironment attaches the peripheral to an environment. Without an
// environment all accesses are logged and nothing is recorded.
func (p *Logging) SetEnvironment(env Environment) {
	p.env = env
}

func (p *Logging) permission() logger.Permission {
	if p.env == nil {
		return logger.Allow
	}
	return p.env
}

// ReadUint32 implements the Peripheral interface.
func (p *Logging) ReadUint32(offset uint32) uint32 {
	logger.Logf(p.permission(), p.name, "unimplemented read from %#x", offset)
	if offset >= atomicAlias {
		logger.Logf(p.permission(), p.name, "unimplemented read from atomic alias region")
	}
	return 0xffffffff
}

// WriteUint32 implements the Peripheral interface.
func (p *Logging) WriteUint32(offset uint32, value uint32) {
	logger.Logf(p.permission(), p.name, "unimplemented write to %#x: %#08x", offset, value)
	if offset >= atomicAlias {
		logger.Logf(p.permission(), p.name, "unimplemented atomic write")
	}
	if p.env != nil {
		p.env.UnhandledRegister(fmt.Sprintf("%s write to %#x", p.name, offset))
	}
}
