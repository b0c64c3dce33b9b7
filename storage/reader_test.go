package storage

import (
	"bytes"
	"testing"
)

func TestReader(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01, 0xD2, 0xD7, 0x00, 0x00, 0x00, 0x02, 0xAB}))

	if got := r.ReadByte(); got != 0x01 {
		t.Errorf("ReadByte = 0x%02X", got)
	}
	if got, err := r.PeekShort(); err != nil || got != 0xD2D7 {
		t.Errorf("PeekShort = 0x%04X, %v", got, err)
	}
	if got := r.ReadShort(); got != 0xD2D7 {
		t.Errorf("ReadShort = 0x%04X", got)
	}
	if got := r.ReadLong(); got != 2 {
		t.Errorf("ReadLong = %d", got)
	}
	if got := r.ReadBytes(4); !bytes.Equal(got, []byte{0xAB, 0, 0, 0}) {
		t.Errorf("ReadBytes past EOF = %v", got)
	}
	if got := r.ReadByte(); got != 0 {
		t.Errorf("ReadByte past EOF = 0x%02X", got)
	}
}
