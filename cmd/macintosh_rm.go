package cmd

import (
	"fmt"
	"os"

	"github.com/google/renameio"
	"github.com/spf13/cobra"
)

var macintoshRmCmd = &cobra.Command{
	Use:                   "rm IMAGE NAME",
	Short:                 "Delete a file from an MFS volume image",
	Long:                  `Deletes a file from an MFS volume image, releasing its allocation blocks.`,
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		imageName, fileName := args[0], args[1]

		volume, err := openVolume(imageName)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		if err := volume.DeleteFile(fileName); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		reportDiagnostics(volume)

		if err := renameio.WriteFile(imageName, volume.DiskImage(), 0666); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Printf("Deleted %s\n", fileName)
	},
}

func init() {
	macintoshCmd.AddCommand(macintoshRmCmd)
}
