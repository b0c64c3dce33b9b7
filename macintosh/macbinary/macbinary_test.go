package macbinary

import (
	"testing"
)

// sample builds a plausible MacBinary header block.
func sample() []byte {
	h := make([]byte, HeaderSize)
	h[0] = 0x00
	h[1] = 8 // name length
	copy(h[2:], "Drawing1")
	copy(h[65:], "PNTG")
	copy(h[69:], "MPNT")
	h[83], h[84], h[85], h[86] = 0, 0, 2, 0 // data fork: 512 bytes
	return h
}

func TestDetect(t *testing.T) {
	if !Detect(sample()) {
		t.Error("valid header not detected")
	}
	if Detect(sample()[:100]) {
		t.Error("short input detected")
	}

	noName := sample()
	noName[1] = 0
	if Detect(noName) {
		t.Error("zero name length detected")
	}

	longName := sample()
	longName[1] = 64
	if Detect(longName) {
		t.Error("oversize name length detected")
	}

	versioned := sample()
	versioned[0] = 1
	if Detect(versioned) {
		t.Error("nonzero version byte detected")
	}
}

func TestDetectType(t *testing.T) {
	if !DetectType(sample(), "PNTG") {
		t.Error("PNTG header not detected")
	}
	if DetectType(sample(), "TEXT") {
		t.Error("wrong type detected")
	}
}

func TestParse(t *testing.T) {
	h, err := Parse(sample())
	if err != nil {
		t.Fatal(err)
	}
	if h.Filename() != "Drawing1" {
		t.Errorf("filename %q", h.Filename())
	}
	if string(h.Type[:]) != "PNTG" || string(h.Creator[:]) != "MPNT" {
		t.Errorf("type/creator %s/%s", h.Type[:], h.Creator[:])
	}
	if h.DataForkLen != 512 {
		t.Errorf("data fork length %d", h.DataForkLen)
	}
	if h.RsrcForkLen != 0 {
		t.Errorf("resource fork length %d", h.RsrcForkLen)
	}

	if _, err := Parse(make([]byte, 64)); err == nil {
		t.Error("short input parsed")
	}
	if _, err := Parse(make([]byte, HeaderSize)); err == nil {
		t.Error("zero block parsed")
	}
}
