// Package macpaint implements reading and writing MacPaint (PNTG)
// image files.
//
// A PNTG file is a 512-byte header (a 4-byte version marker, 38
// eight-byte fill-pattern tiles, and padding) followed by 720
// scanlines of 576 one-bit pixels, each scanline PackBits-compressed
// independently. A set bit is a black pixel; the most significant bit
// of each byte is the leftmost pixel. Files arriving from the network
// often carry a 128-byte MacBinary wrapper, which is detected and
// skipped on parse.
package macpaint

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"

	"macio/macintosh/macbinary"
	"macio/macintosh/raster"
)

const (
	Width       = 576
	Height      = 720
	BytesPerRow = Width / 8

	PatternCount = 38
	PatternSize  = 8

	HeaderSize = 512

	// FileType is the Macintosh type code for MacPaint documents.
	FileType = "PNTG"

	versionMarker = 0x00000002
)

// Error kinds for PNTG handling.
var (
	// ErrInvalidFormat is returned for input too short to hold the
	// 512-byte header.
	ErrInvalidFormat = errors.New("invalid MacPaint file")

	// ErrCorrupted is returned when a scanline does not decompress
	// to exactly 72 bytes.
	ErrCorrupted = errors.New("corrupted MacPaint file")

	// ErrInvalidArgument is returned for scanlines of the wrong
	// length.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Painting is a decoded PNTG file: the raster, always 576x720, and
// the 38 fill patterns from the header.
type Painting struct {
	Raster   *raster.Image
	Patterns [PatternCount][PatternSize]byte

	// Warnings collects oddities tolerated during parsing, such as
	// an unexpected version marker.
	Warnings []string
}

// WriteOptions configures Serialize. The raster is cropped first,
// padded up to 576x720 second, and bilinear-scaled last if its
// dimensions still differ.
type WriteOptions struct {
	Crop     *raster.Rect
	Padding  *PadOptions
	Patterns *[PatternCount][PatternSize]byte
	Dither   raster.Ditherer
}

// PadOptions positions the source inside the 576x720 page.
type PadOptions struct {
	X, Y int
	Fill raster.Fill
}

// Parse decodes a PNTG file, skipping a MacBinary wrapper when one
// is present.
func Parse(data []byte) (*Painting, error) {
	if macbinary.DetectType(data, FileType) {
		data = data[macbinary.HeaderSize:]
	}
	if len(data) < HeaderSize {
		return nil, errors.Wrapf(ErrInvalidFormat, "%d bytes is too short for the header", len(data))
	}

	p := &Painting{Raster: raster.New(Width, Height)}

	if version := binary.BigEndian.Uint32(data); version != versionMarker {
		p.Warnings = append(p.Warnings, fmt.Sprintf("unexpected version marker 0x%08X", version))
	}
	for i := 0; i < PatternCount; i++ {
		copy(p.Patterns[i][:], data[4+i*PatternSize:])
	}

	pos := HeaderSize
	for y := 0; y < Height; y++ {
		line, consumed, err := DecompressScanline(data[pos:])
		if err != nil {
			return nil, errors.Wrapf(err, "scanline %d", y)
		}
		pos += consumed
		unpackRow(p.Raster, y, line)
	}

	return p, nil
}

// Serialize encodes a raster as a PNTG file using the painting's own
// patterns unless the options supply others.
func (p *Painting) Serialize(opts WriteOptions) ([]byte, error) {
	if opts.Patterns == nil {
		opts.Patterns = &p.Patterns
	}
	return Serialize(p.Raster, opts)
}

// Serialize coerces an RGBA raster to the fixed MacPaint page and
// encodes it.
func Serialize(img *raster.Image, opts WriteOptions) ([]byte, error) {
	if opts.Crop != nil {
		cropped, err := img.Crop(*opts.Crop)
		if err != nil {
			return nil, err
		}
		img = cropped
	}
	if opts.Padding != nil && img.Width <= Width && img.Height <= Height &&
		(img.Width < Width || img.Height < Height) {
		img = img.Pad(Width, Height, opts.Padding.X, opts.Padding.Y, opts.Padding.Fill)
	}
	img = img.Scale(Width, Height)

	dither := opts.Dither
	if dither == nil {
		// The look MacPaint itself was known for.
		dither = raster.Atkinson{}
	}
	bits := dither.Dither(img.Grayscale(), Width, Height)

	out := make([]byte, HeaderSize, HeaderSize+Height*(BytesPerRow+1))
	binary.BigEndian.PutUint32(out, versionMarker)
	if opts.Patterns != nil {
		for i := 0; i < PatternCount; i++ {
			copy(out[4+i*PatternSize:], opts.Patterns[i][:])
		}
	}

	for y := 0; y < Height; y++ {
		packet, err := CompressScanline(bits[y*BytesPerRow : (y+1)*BytesPerRow])
		if err != nil {
			return nil, errors.Wrapf(err, "scanline %d", y)
		}
		out = append(out, packet...)
	}

	return out, nil
}

// unpackRow expands 72 packed bytes into RGBA pixels.
func unpackRow(img *raster.Image, y int, line []byte) {
	for x := 0; x < Width; x++ {
		v := byte(0xFF)
		if line[x/8]&(0x80>>(x%8)) != 0 {
			v = 0x00
		}
		i := (y*Width + x) * 4
		img.Pix[i+0] = v
		img.Pix[i+1] = v
		img.Pix[i+2] = v
		img.Pix[i+3] = 0xFF
	}
}
