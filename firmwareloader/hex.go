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

package firmwareloader

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/jetsetilly/rp2040emu/curated"
	"github.com/jetsetilly/rp2040emu/logger"
)

// Intel HEX record types.
const (
	recordData                  = 0x00
	recordEndOfFile             = 0x01
	recordExtendedLinearAddress = 0x04
)

// decodeHex writes the data records of an Intel HEX file to the target. The
// number of bytes written is returned.
func decodeHex(data []byte, base uint32, target []byte) (int, error) {
	var upper uint32
	var size int

	scanner := bufio.NewScanner(bytes.NewReader(data))

	lineNum := 0
	for scanner.Scan() {
		lineNum++

		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, ":") {
			continue
		}

		rec, err := hex.DecodeString(line[1:])
		if err != nil || len(rec) < 5 {
			return size, curated.Errorf(NotHexRecord, lineNum)
		}

		var sum uint8
		for _, b := range rec {
			sum += b
		}
		if sum != 0 {
			return size, curated.Errorf(BadChecksum, lineNum, sum)
		}

		n := int(rec[0])
		if len(rec) != n+5 {
			return size, curated.Errorf(BadLength, lineNum)
		}
		offset := uint32(rec[1])<<8 | uint32(rec[2])
		payload := rec[4 : 4+n]

		switch rec[3] {
		case recordData:
			addr := upper | offset
			if addr < base {
				return size, curated.Errorf(BelowBase, lineNum, addr, base)
			}
			idx := addr - base
			if uint64(idx)+uint64(n) > uint64(len(target)) {
				return size, curated.Errorf(BeyondTarget, lineNum, addr)
			}
			copy(target[idx:], payload)
			size += n

		case recordExtendedLinearAddress:
			if n != 2 {
				return size, curated.Errorf(BadUpperAddress, lineNum)
			}
			upper = (uint32(payload[0])<<8 | uint32(payload[1])) << 16

		case recordEndOfFile:
			return size, nil

		default:
			logger.Logf(logger.Allow, "loader", "line %d: ignoring record type %02x", lineNum, rec[3])
		}
	}

	if err := scanner.Err(); err != nil {
		return size, curated.Errorf(FileError, err)
	}

	logger.Logf(logger.Allow, "loader", "no end of file record")

	return size, nil
}
