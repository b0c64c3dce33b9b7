package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"macio/macintosh"
	"macio/macintosh/mfs"
	"macio/storage"
)

var macintoshLsCmd = &cobra.Command{
	Use:                   "ls FILE",
	Short:                 "Displays the volume directory",
	Long:                  `Reads and displays the file directory contents from an MFS volume image.`,
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]

		f, err := os.Open(filename)
		if err != nil {
			fmt.Println(err)
			return
		}
		defer f.Close()
		reader := storage.NewReader(f)

		var disk macintosh.Image
		dskType := mediaType(macintoshMediaType, filename)

		switch dskType {
		case "dsk", "img", "image":
			disk = mfs.New(reader)
		default:
			fmt.Printf("Unsupported media type: '%s'", dskType)
			return
		}

		if err := disk.Read(); err != nil {
			fmt.Println("Storage read error!")
			fmt.Println(err)
			os.Exit(1)
		}

		disk.DirectoryListing()
	},
}

func init() {
	macintoshLsCmd.Flags().StringVarP(&macintoshMediaType, "media", "m", "", `Media type, default: file extension`)
	macintoshCmd.AddCommand(macintoshLsCmd)
}
