package macpaint

import "github.com/pkg/errors"

// PackBits run-length coding, applied per scanline. The control byte
// is signed: 0..127 copies n+1 literal bytes, -1..-127 repeats the
// next byte 1-n times, -128 is a no-op.

// DecompressScanline decodes packets from data until exactly
// BytesPerRow bytes are produced, returning the line and the number
// of input bytes consumed. Producing too many bytes, or running out
// of input first, fails.
func DecompressScanline(data []byte) ([]byte, int, error) {
	line := make([]byte, 0, BytesPerRow)
	pos := 0

	for len(line) < BytesPerRow {
		if pos >= len(data) {
			return nil, 0, errors.Wrapf(ErrCorrupted, "scanline truncated after %d of %d bytes", len(line), BytesPerRow)
		}
		n := int8(data[pos])
		pos++

		switch {
		case n >= 0:
			count := int(n) + 1
			if pos+count > len(data) {
				return nil, 0, errors.Wrap(ErrCorrupted, "literal packet truncated")
			}
			if len(line)+count > BytesPerRow {
				return nil, 0, errors.Wrapf(ErrCorrupted, "scanline overruns %d bytes", BytesPerRow)
			}
			line = append(line, data[pos:pos+count]...)
			pos += count

		case n == -128:
			// no-op

		default:
			count := 1 - int(n)
			if pos >= len(data) {
				return nil, 0, errors.Wrap(ErrCorrupted, "repeat packet truncated")
			}
			if len(line)+count > BytesPerRow {
				return nil, 0, errors.Wrapf(ErrCorrupted, "scanline overruns %d bytes", BytesPerRow)
			}
			for i := 0; i < count; i++ {
				line = append(line, data[pos])
			}
			pos++
		}
	}

	return line, pos, nil
}

// CompressScanline encodes one 72-byte line. Runs of two or more
// identical bytes become repeat packets, except that a short repeat
// inside a literal is folded into the literal rather than splitting
// it; this keeps the output within BytesPerRow+1 bytes for every
// input.
func CompressScanline(line []byte) ([]byte, error) {
	if len(line) != BytesPerRow {
		return nil, errors.Wrapf(ErrInvalidArgument, "scanline is %d bytes, want %d", len(line), BytesPerRow)
	}

	out := make([]byte, 0, BytesPerRow+1)
	i := 0
	for i < len(line) {
		if run := runLength(line, i); run >= 2 {
			out = append(out, byte(-(run-1)), line[i])
			i += run
			continue
		}

		start := i
		i++
		for i < len(line) && i-start < 128 && runLength(line, i) < 3 {
			i++
		}
		out = append(out, byte(i-start-1))
		out = append(out, line[start:i]...)
	}

	return out, nil
}

// runLength counts identical bytes from position i, capped at the
// longest encodable repeat.
func runLength(line []byte, i int) int {
	n := 1
	for i+n < len(line) && line[i+n] == line[i] && n < 128 {
		n++
	}
	return n
}
