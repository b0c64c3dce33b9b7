package raster

// A Ditherer maps a grayscale raster to packed one-bit rows: a set
// bit is a black pixel, the most significant bit of each byte is the
// leftmost pixel. Width must be a multiple of 8; the output holds
// width/8 bytes per row. Implementations leave the input untouched.
type Ditherer interface {
	Dither(gray []uint8, width, height int) []byte
}

// Threshold paints every pixel darker than Value black. A zero Value
// means the default of 128.
type Threshold struct {
	Value uint8
}

func (t Threshold) Dither(gray []uint8, width, height int) []byte {
	threshold := t.Value
	if threshold == 0 {
		threshold = 128
	}

	out := newBitmap(width, height)
	for i, gs := range gray {
		if gs < threshold {
			out.setBlack(i)
		}
	}
	return out.bits
}

// FloydSteinberg diffuses the quantisation error of each pixel to
// four unvisited neighbours, weighted 7/16 right, 3/16 below-left,
// 5/16 below, 1/16 below-right.
type FloydSteinberg struct{}

func (FloydSteinberg) Dither(gray []uint8, width, height int) []byte {
	// Accumulated error pushes values outside 0..255, so the working
	// copy needs the headroom of a wider signed type.
	work := make([]int16, len(gray))
	for i, gs := range gray {
		work[i] = int16(gs)
	}

	out := newBitmap(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			old := work[i]
			quantised := int16(255)
			if old < 128 {
				quantised = 0
				out.setBlack(i)
			}
			err := old - quantised

			if x+1 < width {
				work[i+1] += err * 7 / 16
			}
			if y+1 < height {
				if x-1 >= 0 {
					work[i+width-1] += err * 3 / 16
				}
				work[i+width] += err * 5 / 16
				if x+1 < width {
					work[i+width+1] += err * 1 / 16
				}
			}
		}
	}
	return out.bits
}

// Atkinson diffuses six eighths of the error to six neighbours,
// deliberately losing the rest. The lighter touch suits the high
// contrast of one-bit Macintosh screens.
type Atkinson struct{}

func (Atkinson) Dither(gray []uint8, width, height int) []byte {
	work := make([]int16, len(gray))
	for i, gs := range gray {
		work[i] = int16(gs)
	}

	offsets := [6][2]int{{1, 0}, {2, 0}, {-1, 1}, {0, 1}, {1, 1}, {0, 2}}

	out := newBitmap(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			old := work[i]
			quantised := int16(255)
			if old < 128 {
				quantised = 0
				out.setBlack(i)
			}
			err := (old - quantised) / 8

			for _, off := range offsets {
				nx, ny := x+off[0], y+off[1]
				if nx >= 0 && nx < width && ny < height {
					work[ny*width+nx] += err
				}
			}
		}
	}
	return out.bits
}

// Bayer applies ordered dithering with a 2x2, 4x4 or 8x8 matrix.
// Any other Size falls back to 4x4. The result depends only on the
// input and the matrix, never on neighbouring decisions.
type Bayer struct {
	Size int
}

var bayerMatrices = map[int][][]int{
	2: {
		{0, 2},
		{3, 1},
	},
	4: {
		{0, 8, 2, 10},
		{12, 4, 14, 6},
		{3, 11, 1, 9},
		{15, 7, 13, 5},
	},
	8: {
		{0, 32, 8, 40, 2, 34, 10, 42},
		{48, 16, 56, 24, 50, 18, 58, 26},
		{12, 44, 4, 36, 14, 46, 6, 38},
		{60, 28, 52, 20, 62, 30, 54, 22},
		{3, 35, 11, 43, 1, 33, 9, 41},
		{51, 19, 59, 27, 49, 17, 57, 25},
		{15, 47, 7, 39, 13, 45, 5, 37},
		{63, 31, 55, 23, 61, 29, 53, 21},
	},
}

func (b Bayer) Dither(gray []uint8, width, height int) []byte {
	matrix, ok := bayerMatrices[b.Size]
	if !ok {
		matrix = bayerMatrices[4]
	}
	n := len(matrix)

	out := newBitmap(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// gs/255 <= M/n^2, kept in integers
			gs := int(gray[y*width+x])
			if gs*n*n <= matrix[y%n][x%n]*255 {
				out.setBlack(y*width + x)
			}
		}
	}
	return out.bits
}

// bitmap packs pixel indices into MSB-first rows.
type bitmap struct {
	width int
	bits  []byte
}

func newBitmap(width, height int) *bitmap {
	return &bitmap{width: width, bits: make([]byte, width/8*height)}
}

func (b *bitmap) setBlack(i int) {
	x := i % b.width
	y := i / b.width
	b.bits[y*(b.width/8)+x/8] |= 0x80 >> (x % 8)
}
