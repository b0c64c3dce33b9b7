package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/google/renameio"
	"github.com/spf13/cobra"

	"macio/macintosh/macpaint"
	"macio/macintosh/raster"
)

var macintoshUnpaintCmd = &cobra.Command{
	Use:                   "unpaint IN.pntg OUT.png",
	Short:                 "Convert a MacPaint file to a PNG image",
	Long:                  `Converts a MacPaint (PNTG) file, MacBinary wrapped or not, to a PNG image.`,
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		inName, outName := args[0], args[1]

		data, err := os.ReadFile(inName)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		painting, err := macpaint.Parse(data)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		for _, w := range painting.Warnings {
			fmt.Printf("WARNING %s\n", w)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, imageFromRaster(painting.Raster)); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		if err := renameio.WriteFile(outName, buf.Bytes(), 0666); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Printf("Wrote %s: %dx%d\n", outName, painting.Raster.Width, painting.Raster.Height)
	},
}

// imageFromRaster wraps an RGBA raster as a standard library image.
func imageFromRaster(img *raster.Image) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			i := (y*img.Width + x) * 4
			out.Set(x, y, color.RGBA{
				R: img.Pix[i+0],
				G: img.Pix[i+1],
				B: img.Pix[i+2],
				A: img.Pix[i+3],
			})
		}
	}
	return out
}

func init() {
	macintoshCmd.AddCommand(macintoshUnpaintCmd)
}
