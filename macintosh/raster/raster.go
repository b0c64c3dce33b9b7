// Package raster provides the RGBA raster operations needed to coerce
// arbitrary images into the 576x720 one-bit form MacPaint stores:
// cropping, padding, bilinear scaling, grayscale conversion and
// dithering.
package raster

import (
	"math"

	"github.com/pkg/errors"
)

// Image is an RGBA raster, 4 bytes per pixel, rows packed
// left-to-right, top-to-bottom.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// New returns a zeroed (transparent black) image.
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]byte, 4*width*height),
	}
}

// Rect is a crop rectangle in pixel coordinates.
type Rect struct {
	X, Y, W, H int
}

// Fill selects the background colour for padding.
type Fill byte

const (
	FillWhite Fill = iota
	FillBlack
)

// ErrInvalidArgument is returned for rectangles that escape their
// source image.
var ErrInvalidArgument = errors.New("invalid argument")

// Crop copies the given rectangle into a new image.
func (img *Image) Crop(r Rect) (*Image, error) {
	if r.W <= 0 || r.H <= 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "crop %dx%d has non-positive dimensions", r.W, r.H)
	}
	if r.X < 0 || r.Y < 0 || r.X+r.W > img.Width || r.Y+r.H > img.Height {
		return nil, errors.Wrapf(ErrInvalidArgument, "crop %+v escapes %dx%d source", r, img.Width, img.Height)
	}

	out := New(r.W, r.H)
	for y := 0; y < r.H; y++ {
		src := img.Pix[((r.Y+y)*img.Width+r.X)*4:]
		copy(out.Pix[y*r.W*4:(y+1)*r.W*4], src)
	}
	return out, nil
}

// Pad returns a width x height image filled with the background
// colour, with the source copied at offset (padX, padY). Source
// pixels falling outside the target are clipped.
func (img *Image) Pad(width, height, padX, padY int, fill Fill) *Image {
	out := New(width, height)

	bg := byte(0xFF)
	if fill == FillBlack {
		bg = 0x00
	}
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i+0] = bg
		out.Pix[i+1] = bg
		out.Pix[i+2] = bg
		out.Pix[i+3] = 0xFF
	}

	for y := 0; y < img.Height; y++ {
		ty := padY + y
		if ty < 0 || ty >= height {
			continue
		}
		for x := 0; x < img.Width; x++ {
			tx := padX + x
			if tx < 0 || tx >= width {
				continue
			}
			copy(out.Pix[(ty*width+tx)*4:], img.Pix[(y*img.Width+x)*4:(y*img.Width+x)*4+4])
		}
	}

	return out
}

// Scale resizes with bilinear interpolation on each channel
// independently. Matching dimensions return the source unchanged.
func (img *Image) Scale(width, height int) *Image {
	if width == img.Width && height == img.Height {
		return img
	}

	out := New(width, height)
	xRatio := float64(img.Width) / float64(width)
	yRatio := float64(img.Height) / float64(height)

	for y := 0; y < height; y++ {
		sy := float64(y) * yRatio
		y0 := int(sy)
		y1 := y0 + 1
		if y1 > img.Height-1 {
			y1 = img.Height - 1
		}
		fy := sy - float64(y0)

		for x := 0; x < width; x++ {
			sx := float64(x) * xRatio
			x0 := int(sx)
			x1 := x0 + 1
			if x1 > img.Width-1 {
				x1 = img.Width - 1
			}
			fx := sx - float64(x0)

			p00 := img.Pix[(y0*img.Width+x0)*4:]
			p10 := img.Pix[(y0*img.Width+x1)*4:]
			p01 := img.Pix[(y1*img.Width+x0)*4:]
			p11 := img.Pix[(y1*img.Width+x1)*4:]

			dst := out.Pix[(y*width+x)*4:]
			for c := 0; c < 4; c++ {
				top := float64(p00[c])*(1-fx) + float64(p10[c])*fx
				bottom := float64(p01[c])*(1-fx) + float64(p11[c])*fx
				dst[c] = clamp8(math.Round(top*(1-fy) + bottom*fy))
			}
		}
	}

	return out
}

// Grayscale converts to one luminance byte per pixel using the
// Rec. 709 weights. Alpha is ignored.
func (img *Image) Grayscale() []uint8 {
	gray := make([]uint8, img.Width*img.Height)
	for i := range gray {
		r := float64(img.Pix[i*4+0])
		g := float64(img.Pix[i*4+1])
		b := float64(img.Pix[i*4+2])
		gray[i] = clamp8(math.Round(0.2126*r + 0.7152*g + 0.0722*b))
	}
	return gray
}

func clamp8(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
