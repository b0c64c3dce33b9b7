// Package mfs implements reading and writing Macintosh File System
// (MFS) volume images, the flat file system of 400K Macintosh
// floppies.
//
// Reference: Inside Macintosh, Volume II, "The File Manager"
//
// Volume layout, in 512-byte sectors:
//
//	0-1   boot blocks (left zeroed here)
//	2-3   Master Directory Block: volume information + block map
//	4-15  file directory (default geometry)
//	16-   allocation blocks, 1024 bytes each by default
//
// All WORD and DWORD values are stored big-endian.
package mfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"macio/storage"
)

const (
	SectorSize = 512

	// MFS volume signature, first word of the MDB.
	Signature uint16 = 0xD2D7

	mdbOffset      = 2 * SectorSize
	mdbSize        = 2 * SectorSize
	volumeInfoSize = 64

	// The packed block map fills the MDB after the volume
	// information: (1024-64)/3*2 entries at most.
	maxAllocBlocks = (mdbSize - volumeInfoSize) / 3 * 2

	maxVolumeNameLen = 27
	maxFileNameLen   = 255

	// Default geometry for a 400K floppy.
	DefaultSizeKB     = 400
	DefaultVolumeName = "Untitled"

	defaultAllocBlockSize = 1024
	defaultDirectoryStart = 4
	defaultDirectoryLen   = 12
)

// Volume is an MFS volume held in memory. The image buffer is
// authoritative; the decoded volume information, block map and
// directory list are kept in lockstep with it on every mutation.
// A Volume is not safe for concurrent use.
type Volume struct {
	reader *storage.Reader

	image []byte
	Info  VolumeInformation
	abm   []uint16
	files []*DirectoryEntry

	// Diagnostics collects non-fatal observations, such as damage
	// found while freeing an allocation chain.
	Diagnostics []Diagnostic
}

// FormatOptions configures a freshly formatted volume.
type FormatOptions struct {
	SizeKB int    // image size in KB, default 400
	Name   string // volume name, truncated to 27 characters
}

// New creates a volume that will be parsed from reader by Read.
func New(reader *storage.Reader) *Volume {
	return &Volume{reader: reader}
}

// Read loads and parses the volume image from the reader.
func (v *Volume) Read() error {
	image, err := io.ReadAll(v.reader)
	if err != nil {
		return errors.Wrap(err, "error reading the volume image")
	}
	parsed, err := Load(image)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

// Load parses an existing volume image. The buffer is owned by the
// returned volume until DiskImage is called.
func Load(image []byte) (*Volume, error) {
	if len(image) == 0 || len(image)%SectorSize != 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "image size %d is not a positive multiple of %d", len(image), SectorSize)
	}
	if len(image) < mdbOffset+mdbSize {
		return nil, errors.Wrap(ErrInvalidArgument, "image too small to hold a Master Directory Block")
	}

	v := &Volume{image: image}

	r := bytes.NewReader(image[mdbOffset:])
	if err := binary.Read(r, binary.BigEndian, &v.Info); err != nil {
		return nil, errors.Wrap(err, "error reading the volume information")
	}
	if v.Info.Signature != Signature {
		return nil, errors.Wrapf(ErrInvalidSignature, "got 0x%04X, want 0x%04X", v.Info.Signature, Signature)
	}

	if int(v.Info.AllocBlocks) > maxAllocBlocks {
		return nil, errors.Wrapf(ErrCorrupted, "block map of %d entries exceeds the MDB", v.Info.AllocBlocks)
	}
	end := v.allocRegionEnd()
	if end > len(v.image) {
		return nil, errors.Wrapf(ErrCorrupted, "allocation region ends at %d but image is %d bytes", end, len(v.image))
	}

	v.abm = unpackBlockMap(image[mdbOffset+volumeInfoSize:], int(v.Info.AllocBlocks))

	if err := v.scanDirectory(); err != nil {
		return nil, err
	}

	return v, nil
}

// Format creates a blank volume. Geometry follows the 400K floppy
// layout; other sizes are accepted when the fixed directory and block
// map still fit, but may not be readable by period emulators.
func Format(opts FormatOptions) (*Volume, error) {
	sizeKB := opts.SizeKB
	if sizeKB == 0 {
		sizeKB = DefaultSizeKB
	}
	name := opts.Name
	if name == "" {
		name = DefaultVolumeName
	}
	if len(name) > maxVolumeNameLen {
		name = name[:maxVolumeNameLen]
	}

	if sizeKB <= 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "volume size %dKB", sizeKB)
	}
	sectors := sizeKB * 1024 / SectorSize

	const blockSectors = defaultAllocBlockSize / SectorSize
	allocStart := defaultDirectoryStart + defaultDirectoryLen
	allocBlocks := (sectors - allocStart) / blockSectors
	if allocBlocks < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "volume size %dKB leaves no room for allocation blocks", sizeKB)
	}
	if allocBlocks > maxAllocBlocks {
		return nil, errors.Wrapf(ErrInvalidArgument, "volume size %dKB needs %d allocation blocks, the MDB holds %d", sizeKB, allocBlocks, maxAllocBlocks)
	}

	now := macStamp(time.Now())
	v := &Volume{
		image: make([]byte, sectors*SectorSize),
		abm:   make([]uint16, allocBlocks),
	}
	v.Info = VolumeInformation{
		Signature:      Signature,
		CreateDate:     now,
		ModifyDate:     now,
		FileCount:      0,
		DirectoryStart: defaultDirectoryStart,
		DirectoryLen:   defaultDirectoryLen,
		AllocBlocks:    uint16(allocBlocks),
		AllocBlockSize: defaultAllocBlockSize,
		ClumpSize:      8 * defaultAllocBlockSize,
		AllocStart:     uint16(allocStart),
		NextFileNumber: 1,
		FreeBlocks:     uint16(allocBlocks),
	}
	putPascalString(v.Info.RawVolumeName[:], name)

	if err := v.flushMDB(); err != nil {
		return nil, err
	}

	return v, nil
}

// DiskImage returns the volume's backing buffer.
func (v *Volume) DiskImage() []byte {
	return v.image
}

// flushMDB serialises the volume information and the packed block map
// back into sectors 2-3.
func (v *Volume) flushMDB() error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, &v.Info); err != nil {
		return errors.Wrap(err, "error writing the volume information")
	}
	copy(v.image[mdbOffset:], buf.Bytes())
	return packBlockMap(v.abm, v.image[mdbOffset+volumeInfoSize:mdbOffset+mdbSize])
}

// allocRegionEnd returns the image offset just past the last
// allocation block.
func (v *Volume) allocRegionEnd() int {
	return int(v.Info.AllocStart)*SectorSize + int(v.Info.AllocBlocks)*int(v.Info.AllocBlockSize)
}

// blockOffset returns the image offset of an allocation block.
func (v *Volume) blockOffset(block uint16) int {
	sectorsPerBlock := int(v.Info.AllocBlockSize) / SectorSize
	return (int(v.Info.AllocStart) + int(block-firstAllocBlock)*sectorsPerBlock) * SectorSize
}

// DisplayGeometry prints the volume information to the terminal.
func (v *Volume) DisplayGeometry() {
	fmt.Println("VOLUME INFORMATION:")
	fmt.Println(v.Info)
}

// DirectoryListing prints the directory contents to the terminal.
func (v *Volume) DirectoryListing() {
	fmt.Printf("Volume %s: %d file(s)\n", v.Info.Name(), v.Info.FileCount)
	fmt.Println()

	for _, f := range v.ListFiles() {
		fmt.Printf("%-32s %s/%s %8d %8d  %s\n",
			f.Name, f.Type, f.Creator,
			f.DataSize, f.RsrcSize,
			f.Modified.Format("2006-01-02 15:04"))
	}
	fmt.Println()

	free := int(v.Info.FreeBlocks) * int(v.Info.AllocBlockSize) / 1024
	fmt.Printf("%dK free\n", free)
}
