// Package macbinary implements detection and parsing of the MacBinary
// I header, the 128-byte wrapper used to carry both forks and the
// Finder attributes of a Macintosh file through foreign systems.
//
// Reference: https://files.stairways.com/other/macbinaryii-standard-info.txt
//
// Only the inbound direction is handled: recognising a wrapped file
// and exposing its header. Re-wrapping outbound files is left to the
// caller.
package macbinary

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// HeaderSize is the fixed length of the MacBinary header block.
const HeaderSize = 128

const maxNameLen = 63

// Header is the 128-byte record preceding the forks.
type Header struct {
	Version      uint8    // Always 0 in MacBinary I
	NameLen      uint8    // Filename length, 1..63
	Name         [63]byte // Filename bytes, unused tail zeroed
	Type         [4]byte  // File type code
	Creator      [4]byte  // File creator code
	FinderFlags  uint8    // High byte of the Finder flags
	Zero1        uint8    // Always 0
	IconVert     uint16   // Vertical position in the window
	IconHoriz    uint16   // Horizontal position in the window
	FolderID     uint16   // Window or folder ID
	Protected    uint8    // Low bit: "protected" flag
	Zero2        uint8    // Always 0
	DataForkLen  uint32   // Data fork length in bytes
	RsrcForkLen  uint32   // Resource fork length in bytes
	CreateDate   uint32   // Seconds since the Mac epoch
	ModifyDate   uint32   // Seconds since the Mac epoch
	Reserved     [27]byte // Zero filled in MacBinary I
	ComputerType uint8    // MacBinary II, 0 otherwise
	OSID         uint8    // MacBinary II, 0 otherwise
}

// Filename returns the decoded filename.
func (h Header) Filename() string {
	n := int(h.NameLen)
	if n > maxNameLen {
		n = maxNameLen
	}
	return string(h.Name[:n])
}

// Detect reports whether data plausibly starts with a MacBinary
// header: a zero version byte and a filename length of 1 to 63.
func Detect(data []byte) bool {
	return len(data) >= HeaderSize && data[0] == 0 && data[1] >= 1 && data[1] <= maxNameLen
}

// DetectType reports whether data starts with a MacBinary header
// carrying the given 4-character type code.
func DetectType(data []byte, fileType string) bool {
	return Detect(data) && string(data[65:69]) == fileType
}

// Parse decodes the header at the start of data.
func Parse(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, errors.Errorf("%d bytes is too short for a MacBinary header", len(data))
	}
	if !Detect(data) {
		return nil, errors.New("no MacBinary header present")
	}

	h := &Header{}
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, h); err != nil {
		return nil, errors.Wrap(err, "error reading the MacBinary header")
	}
	return h, nil
}
