package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"macio/macintosh/mfs"
)

var (
	macintoshGetFork   string
	macintoshGetOutput string
)

var macintoshGetCmd = &cobra.Command{
	Use:                   "get IMAGE NAME",
	Short:                 "Copy a file out of an MFS volume image",
	Long:                  `Copies one fork of a file from an MFS volume image to a local file.`,
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		imageName, fileName := args[0], args[1]

		volume, err := openVolume(imageName)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		contents, err := volume.ReadFile(fileName, mfs.ForkType(macintoshGetFork))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		output := macintoshGetOutput
		if output == "" {
			output = fileName
		}
		if err := os.WriteFile(output, contents, 0666); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Printf("Read %s (%s fork): %d bytes\n", fileName, macintoshGetFork, len(contents))
	},
}

func init() {
	macintoshGetCmd.Flags().StringVarP(&macintoshGetFork, "fork", "f", "data", `Fork to read: data or resource`)
	macintoshGetCmd.Flags().StringVarP(&macintoshGetOutput, "output", "o", "", `Output filename, default: the file's own name`)
	macintoshCmd.AddCommand(macintoshGetCmd)
}
