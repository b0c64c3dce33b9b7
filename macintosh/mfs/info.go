package mfs

import (
	"fmt"
	"time"
)

// The Master Directory Block occupies sectors 2-3 of the volume. Its
// first 64 bytes are the volume information; the rest of the MDB holds
// the allocation block map.
//
// All values are big-endian. The volume name is a Pascal string of at
// most 27 characters, zero padded to 28 bytes.
type VolumeInformation struct {
	Signature      uint16   // drSigWord, always 0xD2D7
	CreateDate     uint32   // drCrDate, seconds since the Mac epoch
	ModifyDate     uint32   // drLsBkUp, updated on every mutation
	Attributes     uint16   // drAtrb, volume attributes
	FileCount      uint16   // drNmFls, number of files in the directory
	DirectoryStart uint16   // drDirSt, first sector of the file directory
	DirectoryLen   uint16   // drBlLen, directory length in sectors
	AllocBlocks    uint16   // drNmAlBlks, number of allocation blocks
	AllocBlockSize uint32   // drAlBlkSiz, allocation block size in bytes
	ClumpSize      uint32   // drClpSiz, bytes to allocate when growing a file
	AllocStart     uint16   // drAlBlSt, first sector of the allocation region
	NextFileNumber uint32   // drNxtFNum, next unused file number
	FreeBlocks     uint16   // drFreeBks, number of free allocation blocks
	RawVolumeName  [28]byte // drVN, volume name as a Pascal string
}

// Name returns the decoded volume name.
func (vi VolumeInformation) Name() string {
	return pascalString(vi.RawVolumeName[:])
}

// Created returns the volume creation date.
func (vi VolumeInformation) Created() time.Time {
	return macTime(vi.CreateDate)
}

// Modified returns the last modification date.
func (vi VolumeInformation) Modified() time.Time {
	return macTime(vi.ModifyDate)
}

func (vi VolumeInformation) String() string {
	str := ""
	str += fmt.Sprintf("Volume Name:     %s\n", vi.Name())
	str += fmt.Sprintf("Signature:       0x%04X\n", vi.Signature)
	str += fmt.Sprintf("Created:         %s\n", vi.Created().Format("2006-01-02 15:04:05"))
	str += fmt.Sprintf("Modified:        %s\n", vi.Modified().Format("2006-01-02 15:04:05"))
	str += fmt.Sprintf("Files:           %d\n", vi.FileCount)
	str += fmt.Sprintf("Directory Start: sector %d (%d sectors)\n", vi.DirectoryStart, vi.DirectoryLen)
	str += fmt.Sprintf("Alloc Blocks:    %d x %d bytes from sector %d\n", vi.AllocBlocks, vi.AllocBlockSize, vi.AllocStart)
	str += fmt.Sprintf("Clump Size:      %d\n", vi.ClumpSize)
	str += fmt.Sprintf("Free Blocks:     %d\n", vi.FreeBlocks)
	str += fmt.Sprintf("Next File No:    %d", vi.NextFileNumber)
	return str
}

// pascalString decodes a length-prefixed string. The bytes are kept
// raw: MFS names are MacRoman and are not transcoded here.
func pascalString(data []byte) string {
	length := int(data[0])
	if length == 0 || length >= len(data) {
		return ""
	}
	return string(data[1 : length+1])
}

// putPascalString writes s as a length-prefixed string and zeroes the
// remainder of the slot.
func putPascalString(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	dst[0] = byte(len(s))
	copy(dst[1:], s)
}
