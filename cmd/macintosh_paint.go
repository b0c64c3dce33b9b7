package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/google/renameio"
	"github.com/spf13/cobra"

	"macio/macintosh/macpaint"
	"macio/macintosh/raster"
)

var (
	macintoshPaintDither    string
	macintoshPaintThreshold int
	macintoshPaintBayer     int
)

var macintoshPaintCmd = &cobra.Command{
	Use:   "paint IN.png OUT.pntg",
	Short: "Convert a PNG image to a MacPaint file",
	Long: `Converts a PNG image to a MacPaint (PNTG) file: the image is scaled to
576x720, converted to grayscale and dithered down to one bit per pixel.`,
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		inName, outName := args[0], args[1]

		f, err := os.Open(inName)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer f.Close()

		decoded, err := png.Decode(f)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		dither, err := ditherStrategy()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		data, err := macpaint.Serialize(rasterFromImage(decoded), macpaint.WriteOptions{Dither: dither})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		if err := renameio.WriteFile(outName, data, 0666); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Printf("Wrote %s: %d bytes\n", outName, len(data))
	},
}

// ditherStrategy builds the configured dithering strategy.
func ditherStrategy() (raster.Ditherer, error) {
	switch macintoshPaintDither {
	case "threshold":
		return raster.Threshold{Value: uint8(macintoshPaintThreshold)}, nil
	case "floyd-steinberg":
		return raster.FloydSteinberg{}, nil
	case "atkinson":
		return raster.Atkinson{}, nil
	case "bayer":
		return raster.Bayer{Size: macintoshPaintBayer}, nil
	default:
		return nil, fmt.Errorf("unknown dither strategy '%s'", macintoshPaintDither)
	}
}

// rasterFromImage copies any decoded image into an RGBA raster.
func rasterFromImage(m image.Image) *raster.Image {
	bounds := m.Bounds()
	img := raster.New(bounds.Dx(), bounds.Dy())
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := m.At(x, y).RGBA()
			img.Pix[i+0] = byte(r >> 8)
			img.Pix[i+1] = byte(g >> 8)
			img.Pix[i+2] = byte(b >> 8)
			img.Pix[i+3] = byte(a >> 8)
			i += 4
		}
	}
	return img
}

func init() {
	macintoshPaintCmd.Flags().StringVar(&macintoshPaintDither, "dither", "atkinson", `Dither strategy: threshold, floyd-steinberg, atkinson or bayer`)
	macintoshPaintCmd.Flags().IntVar(&macintoshPaintThreshold, "threshold", 128, `Threshold value for the threshold strategy`)
	macintoshPaintCmd.Flags().IntVar(&macintoshPaintBayer, "bayer", 4, `Matrix size for the bayer strategy: 2, 4 or 8`)
	macintoshCmd.AddCommand(macintoshPaintCmd)
}
