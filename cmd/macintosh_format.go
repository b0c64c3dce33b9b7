package cmd

import (
	"fmt"
	"os"

	"github.com/google/renameio"
	"github.com/spf13/cobra"

	"macio/macintosh/mfs"
)

var (
	macintoshFormatSizeKB int
	macintoshFormatName   string
)

var macintoshFormatCmd = &cobra.Command{
	Use:                   "format FILE",
	Short:                 "Create a blank MFS volume image",
	Long:                  `Formats a new MFS volume image and writes it to FILE.`,
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]

		volume, err := mfs.Format(mfs.FormatOptions{
			SizeKB: macintoshFormatSizeKB,
			Name:   macintoshFormatName,
		})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		if err := renameio.WriteFile(filename, volume.DiskImage(), 0666); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		info := volume.Info
		fmt.Printf("Formatted %s: %d allocation blocks of %d bytes\n",
			info.Name(), info.AllocBlocks, info.AllocBlockSize)
	},
}

func init() {
	macintoshFormatCmd.Flags().IntVar(&macintoshFormatSizeKB, "size-kb", mfs.DefaultSizeKB, `Image size in KB; sizes other than 400 are experimental`)
	macintoshFormatCmd.Flags().StringVar(&macintoshFormatName, "name", mfs.DefaultVolumeName, `Volume name, up to 27 characters`)
	macintoshCmd.AddCommand(macintoshFormatCmd)
}
