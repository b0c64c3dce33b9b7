package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "macio",
	Short: "A toolkit for original Macintosh disk images and file formats",
	Long: `macio reads and writes the storage formats of the original Apple
Macintosh: MFS floppy volume images and MacPaint (PNTG) picture files.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// mediaType returns the media type for a filename: the override when
// one was given, otherwise the lower-cased file extension.
func mediaType(override, filename string) string {
	if override != "" {
		return strings.ToLower(override)
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
