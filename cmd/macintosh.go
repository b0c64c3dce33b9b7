package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"macio/macintosh/mfs"
)

var macintoshMediaType string

var macintoshCmd = &cobra.Command{
	Use:   "macintosh",
	Short: "Original Macintosh commands",
	Long:  `Read, create and modify Macintosh MFS volume images and MacPaint files.`,
}

func init() {
	rootCmd.AddCommand(macintoshCmd)
}

// openVolume loads an MFS volume image from disk.
func openVolume(filename string) (*mfs.Volume, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return mfs.Load(data)
}

// reportDiagnostics prints any non-fatal observations the volume
// collected, such as damage found while freeing blocks.
func reportDiagnostics(volume *mfs.Volume) {
	for _, d := range volume.Diagnostics {
		fmt.Printf("WARNING %s: block %d: %s\n", d.Op, d.Block, d.Message)
	}
}
