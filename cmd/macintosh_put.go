package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"github.com/spf13/cobra"

	"macio/macintosh/macbinary"
	"macio/macintosh/mfs"
)

var (
	macintoshPutType    string
	macintoshPutCreator string
	macintoshPutName    string
	macintoshPutRsrc    string
)

var macintoshPutCmd = &cobra.Command{
	Use:   "put IMAGE FILE",
	Short: "Copy a file onto an MFS volume image",
	Long: `Copies a local file into the data fork of a new file on an MFS volume
image. A MacBinary input file is unwrapped into its data and resource
forks and its type, creator and name are used as defaults.`,
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		imageName, fileName := args[0], args[1]

		volume, err := openVolume(imageName)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		contents, err := os.ReadFile(fileName)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		name := macintoshPutName
		if name == "" {
			name = filepath.Base(fileName)
		}
		meta := mfs.FileMeta{Type: macintoshPutType, Creator: macintoshPutCreator}
		data := contents
		var rsrc []byte

		if macbinary.Detect(contents) {
			header, err := macbinary.Parse(contents)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			data, rsrc = forkSplit(contents[macbinary.HeaderSize:], header)
			if macintoshPutName == "" {
				name = header.Filename()
			}
			if !cmd.Flags().Changed("type") {
				meta.Type = string(header.Type[:])
			}
			if !cmd.Flags().Changed("creator") {
				meta.Creator = string(header.Creator[:])
			}
		}

		if macintoshPutRsrc != "" {
			rsrc, err = os.ReadFile(macintoshPutRsrc)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}

		info, err := volume.WriteFile(name, data, rsrc, meta)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		reportDiagnostics(volume)

		if err := renameio.WriteFile(imageName, volume.DiskImage(), 0666); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Printf("Wrote %s %s/%s: %d+%d bytes\n",
			info.Name, info.Type, info.Creator, info.DataSize, info.RsrcSize)
	},
}

// forkSplit slices the two forks out of an unwrapped MacBinary
// payload. Each fork is zero padded to a 128-byte boundary.
func forkSplit(payload []byte, header *macbinary.Header) (data, rsrc []byte) {
	dataLen := int(header.DataForkLen)
	if dataLen > len(payload) {
		dataLen = len(payload)
	}
	data = payload[:dataLen]

	rsrcStart := (dataLen + 127) &^ 127
	rsrcEnd := rsrcStart + int(header.RsrcForkLen)
	if rsrcStart > len(payload) {
		return data, nil
	}
	if rsrcEnd > len(payload) {
		rsrcEnd = len(payload)
	}
	return data, payload[rsrcStart:rsrcEnd]
}

func init() {
	macintoshPutCmd.Flags().StringVarP(&macintoshPutType, "type", "t", "????", `File type code, 4 characters`)
	macintoshPutCmd.Flags().StringVarP(&macintoshPutCreator, "creator", "c", "????", `File creator code, 4 characters`)
	macintoshPutCmd.Flags().StringVarP(&macintoshPutName, "name", "n", "", `Name on the volume, default: the local filename`)
	macintoshPutCmd.Flags().StringVar(&macintoshPutRsrc, "rsrc", "", `Local file holding the resource fork`)
	macintoshCmd.AddCommand(macintoshPutCmd)
}
