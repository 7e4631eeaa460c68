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

package logger

import (
	"bytes"
	"io"
)

const (
	dimPen    = "\033[2m"
	tagPen    = "\033[36m"
	normalPen = "\033[0m"
)

// Colorizer applies basic coloring rules to logging output. The tag of each
// line is coloured and the detail is dimmed.
//
// Should only be used when the output is a terminal.
type Colorizer struct {
	out io.Writer
}

// NewColorizer is the preferred method if initialisation for the Colorizer type.
func NewColorizer(out io.Writer) Colorizer {
	return Colorizer{out: out}
}

// Write implements the io.Writer interface.
func (c Colorizer) Write(p []byte) (int, error) {
	var b bytes.Buffer

	for _, l := range bytes.SplitAfter(p, []byte("\n")) {
		if len(l) == 0 {
			continue
		}
		tag, detail, ok := bytes.Cut(l, []byte(": "))
		if !ok {
			b.Write(l)
			continue
		}
		b.WriteString(tagPen)
		b.Write(tag)
		b.WriteString(normalPen)
		b.WriteString(": ")
		b.WriteString(dimPen)
		b.Write(bytes.TrimSuffix(detail, []byte("\n")))
		b.WriteString(normalPen)
		if bytes.HasSuffix(detail, []byte("\n")) {
			b.WriteString("\n")
		}
	}

	_, err := c.out.Write(b.Bytes())
	if err != nil {
		return 0, err
	}
	return len(p), nil
}
