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
	"bytes"
	"crypto/sha1"
	"fmt"
	"path"
	"strings"

	"github.com/jetsetilly/rp2040emu/curated"
	"github.com/jetsetilly/rp2040emu/logger"
	"github.com/spf13/afero"
)

// Sentinal error patterns.
const (
	FileError       = "firmwareloader: %v"
	UnexpectedHash  = "firmwareloader: unexpected hash value"
	UnknownFormat   = "firmwareloader: unknown format (%s)"
	BinaryTooLarge  = "firmwareloader: binary too large (%d bytes)"
	NotHexRecord    = "firmwareloader: line %d: not a HEX record"
	BadChecksum     = "firmwareloader: line %d: checksum mismatch (%02x)"
	BadLength       = "firmwareloader: line %d: record length mismatch"
	BelowBase       = "firmwareloader: line %d: address %08x is below base address %08x"
	BeyondTarget    = "firmwareloader: line %d: address %08x is beyond the end of memory"
	BadUpperAddress = "firmwareloader: line %d: malformed extended linear address"
)

// List of firmware formats.
const (
	FormatAuto   = "AUTO"
	FormatHex    = "HEX"
	FormatBinary = "BIN"
)

// FileExtensions is the list of file extensions that are recognised by the
// firmwareloader package.
var FileExtensions = [...]string{".HEX", ".IHX", ".BIN"}

// Loader is used to specify the firmware file and the address at which the
// target memory begins.
type Loader struct {
	// filename of firmware to load
	Filename string

	// the firmware format. one of the Format constants
	Format string

	// the address of the first byte of the target memory. addresses in a HEX
	// file are relative to this
	Base uint32

	// expected hash of the firmware file. empty string indicates that the
	// hash is unknown and need not be validated. after a load operation the
	// value will be the hash of the loaded file
	Hash string

	// number of bytes written to the target by the most recent Load()
	Size int

	fs afero.Fs
}

// NewLoader is the preferred method of initialisation for the Loader type.
// The format is chosen by the file extension. Files with an unrecognised
// extension have their format decided by the contents of the file when it is
// loaded.
func NewLoader(fs afero.Fs, filename string, base uint32) Loader {
	ld := Loader{
		Filename: filename,
		Format:   FormatAuto,
		Base:     base,
		fs:       fs,
	}

	ext := strings.ToUpper(path.Ext(filename))
	for _, e := range FileExtensions {
		if e == ext {
			ld.Format = FormatHex
			if ext == ".BIN" {
				ld.Format = FormatBinary
			}
		}
	}

	return ld
}

// detectFormat decides between HEX and binary. A HEX file is text and the
// first non-space character is the start of a record.
func detectFormat(data []byte) string {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte{':'}) {
		return FormatHex
	}
	return FormatBinary
}

// ShortName returns a shortened version of the Loader filename.
func (ld Loader) ShortName() string {
	short := path.Base(ld.Filename)
	short = strings.TrimSuffix(short, path.Ext(ld.Filename))
	return short
}

// Load the firmware into the target memory. The target should be the memory
// array that begins at the Base address.
func (ld *Loader) Load(target []byte) error {
	data, err := afero.ReadFile(ld.fs, ld.Filename)
	if err != nil {
		return curated.Errorf(FileError, err)
	}

	hash := fmt.Sprintf("%x", sha1.Sum(data))
	if ld.Hash != "" && ld.Hash != hash {
		return curated.Errorf(UnexpectedHash)
	}
	ld.Hash = hash

	format := ld.Format
	if format == FormatAuto || format == "" {
		format = detectFormat(data)
	}

	switch format {
	case FormatHex:
		ld.Size, err = decodeHex(data, ld.Base, target)
	case FormatBinary:
		ld.Size, err = copyBinary(data, target)
	default:
		return curated.Errorf(UnknownFormat, ld.Format)
	}
	if err != nil {
		return err
	}

	logger.Logf(logger.Allow, "loader", "%s: %d bytes (%s)", ld.ShortName(), ld.Size, format)

	return nil
}

// LoadBinary returns the contents of the named file. It is used to load boot
// ROM images.
func LoadBinary(fs afero.Fs, filename string) ([]byte, error) {
	data, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, curated.Errorf(FileError, err)
	}
	return data, nil
}

func copyBinary(data []byte, target []byte) (int, error) {
	if len(data) > len(target) {
		return 0, curated.Errorf(BinaryTooLarge, len(data))
	}
	return copy(target, data), nil
}
