// Package storage provides buffered byte-level access to emulator
// media files: disk and tape images, and the file formats stored on
// them.
package storage

import (
	"bufio"
	"encoding/binary"
	"io"
)

// Reader wraps a bufio.Reader with helpers for the byte-at-a-time
// reads the image decoders need. All multi-byte helpers are big-endian,
// matching the 68k byte order of the supported formats.
type Reader struct {
	*bufio.Reader
}

func NewReader(rd io.Reader) *Reader {
	return &Reader{bufio.NewReader(rd)}
}

// ReadByte returns the next byte, or zero once the reader is drained.
// Decoders that must distinguish EOF should Peek first.
func (r *Reader) ReadByte() byte {
	b, err := r.Reader.ReadByte()
	if err != nil {
		return 0
	}
	return b
}

// ReadBytes returns the next n bytes, zero padded past EOF.
func (r *Reader) ReadBytes(n int) []byte {
	buf := make([]byte, n)
	_, _ = io.ReadFull(r.Reader, buf)
	return buf
}

// ReadShort returns the next big-endian uint16.
func (r *Reader) ReadShort() uint16 {
	return binary.BigEndian.Uint16(r.ReadBytes(2))
}

// ReadLong returns the next big-endian uint32.
func (r *Reader) ReadLong() uint32 {
	return binary.BigEndian.Uint32(r.ReadBytes(4))
}

// PeekShort returns the next big-endian uint16 without consuming it.
func (r *Reader) PeekShort() (uint16, error) {
	b, err := r.Peek(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}
