package mfs

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// A file directory entry is 50 fixed bytes, a Pascal-string name, and
// a padding byte when needed so the next entry starts on a 2-byte
// boundary. Entries are packed back to back within a directory sector
// and never cross a sector boundary. An entry whose flag byte has bit
// 7 clear ends the scan of its sector.
const (
	entryFlagInUse = 0x80

	entryFixedSize = 50

	// Smallest possible entry: fixed part, name length byte, padding.
	entryMinSize = 52
)

type DirectoryEntry struct {
	Flags       byte   // flFlags, bit 7 set while the file exists
	Version     byte   // flTyp, always 0
	Type        [4]byte
	Creator     [4]byte
	FinderFlags uint16
	IconVert    int16
	IconHoriz   int16
	FolderNum   int16
	FileNum     uint32 // unique on the volume, never reused
	DataStart   uint16 // first allocation block of the data fork
	DataLen     uint32 // data fork logical length
	DataAlloc   uint32 // data fork allocated length
	RsrcStart   uint16
	RsrcLen     uint32
	RsrcAlloc   uint32
	CreateDate  uint32
	ModifyDate  uint32
	Name        string

	// Byte offset of this entry within the volume image.
	offset int
}

// entrySize returns the on-disk length, including padding, of an
// entry whose name has nameLen bytes.
func entrySize(nameLen int) int {
	n := entryFixedSize + 1 + nameLen
	if n%2 == 1 {
		n++
	}
	return n
}

// size returns the entry's on-disk length including padding.
func (e *DirectoryEntry) size() int {
	return entrySize(len(e.Name))
}

func (e *DirectoryEntry) inUse() bool {
	return e.Flags&entryFlagInUse != 0
}

// marshal packs the entry at dst, which must hold size() bytes.
func (e *DirectoryEntry) marshal(dst []byte) {
	dst[0] = e.Flags
	dst[1] = e.Version
	copy(dst[2:6], e.Type[:])
	copy(dst[6:10], e.Creator[:])
	binary.BigEndian.PutUint16(dst[10:], e.FinderFlags)
	binary.BigEndian.PutUint16(dst[12:], uint16(e.IconVert))
	binary.BigEndian.PutUint16(dst[14:], uint16(e.IconHoriz))
	binary.BigEndian.PutUint16(dst[16:], uint16(e.FolderNum))
	binary.BigEndian.PutUint32(dst[18:], e.FileNum)
	binary.BigEndian.PutUint16(dst[22:], e.DataStart)
	binary.BigEndian.PutUint32(dst[24:], e.DataLen)
	binary.BigEndian.PutUint32(dst[28:], e.DataAlloc)
	binary.BigEndian.PutUint16(dst[32:], e.RsrcStart)
	binary.BigEndian.PutUint32(dst[34:], e.RsrcLen)
	binary.BigEndian.PutUint32(dst[38:], e.RsrcAlloc)
	binary.BigEndian.PutUint32(dst[42:], e.CreateDate)
	binary.BigEndian.PutUint32(dst[46:], e.ModifyDate)
	dst[entryFixedSize] = byte(len(e.Name))
	copy(dst[entryFixedSize+1:], e.Name)
	if (entryFixedSize+1+len(e.Name))%2 == 1 {
		dst[entryFixedSize+1+len(e.Name)] = 0
	}
}

// unmarshal decodes the entry found at src.
func (e *DirectoryEntry) unmarshal(src []byte) {
	e.Flags = src[0]
	e.Version = src[1]
	copy(e.Type[:], src[2:6])
	copy(e.Creator[:], src[6:10])
	e.FinderFlags = binary.BigEndian.Uint16(src[10:])
	e.IconVert = int16(binary.BigEndian.Uint16(src[12:]))
	e.IconHoriz = int16(binary.BigEndian.Uint16(src[14:]))
	e.FolderNum = int16(binary.BigEndian.Uint16(src[16:]))
	e.FileNum = binary.BigEndian.Uint32(src[18:])
	e.DataStart = binary.BigEndian.Uint16(src[22:])
	e.DataLen = binary.BigEndian.Uint32(src[24:])
	e.DataAlloc = binary.BigEndian.Uint32(src[28:])
	e.RsrcStart = binary.BigEndian.Uint16(src[32:])
	e.RsrcLen = binary.BigEndian.Uint32(src[34:])
	e.RsrcAlloc = binary.BigEndian.Uint32(src[38:])
	e.CreateDate = binary.BigEndian.Uint32(src[42:])
	e.ModifyDate = binary.BigEndian.Uint32(src[46:])
	nameLen := int(src[entryFixedSize])
	e.Name = string(src[entryFixedSize+1 : entryFixedSize+1+nameLen])
}

// fourCC converts a Type or Creator string to its on-disk form.
// Strings shorter than four characters are padded with '?'.
func fourCC(s string) [4]byte {
	cc := [4]byte{'?', '?', '?', '?'}
	copy(cc[:], s)
	return cc
}

// directoryBounds returns the byte range of the directory sectors.
func (v *Volume) directoryBounds() (start, end int) {
	start = int(v.Info.DirectoryStart) * SectorSize
	end = start + int(v.Info.DirectoryLen)*SectorSize
	return start, end
}

// scanDirectory decodes all in-use entries from the directory sectors.
// An unused entry ends its own sector only; later sectors may still
// hold live entries.
func (v *Volume) scanDirectory() error {
	dirStart, dirEnd := v.directoryBounds()
	if dirEnd > len(v.image) {
		return errors.Wrap(ErrCorrupted, "directory extends past end of image")
	}

	v.files = nil
	for sector := dirStart; sector < dirEnd; sector += SectorSize {
		offset := sector
		for offset+entryMinSize <= sector+SectorSize {
			if v.image[offset]&entryFlagInUse == 0 {
				break
			}
			size := entrySize(int(v.image[offset+entryFixedSize]))
			if offset+size > sector+SectorSize {
				return errors.Wrapf(ErrCorrupted, "directory entry at %d crosses a sector boundary", offset)
			}

			entry := &DirectoryEntry{}
			entry.unmarshal(v.image[offset:])
			entry.offset = offset
			v.files = append(v.files, entry)

			offset += size
		}
	}

	return nil
}

// lookup finds the in-use entry with the given name. Names compare as
// raw byte sequences; MacRoman is not decoded.
func (v *Volume) lookup(name string) *DirectoryEntry {
	for _, entry := range v.files {
		if entry.Name == name {
			return entry
		}
	}
	return nil
}

// findFreeSlot returns the image offset where an entry of the given
// size can be written: immediately after the last live entry, rounded
// up to the next sector when the entry would straddle a boundary.
func (v *Volume) findFreeSlot(size int) (int, error) {
	dirStart, dirEnd := v.directoryBounds()

	offset := dirStart
	for _, entry := range v.files {
		if end := entry.offset + entry.size(); end > offset {
			offset = end
		}
	}

	if offset/SectorSize != (offset+size-1)/SectorSize {
		offset = (offset/SectorSize + 1) * SectorSize
	}
	if offset+size > dirEnd {
		return 0, errors.Wrap(ErrDirectoryFull, "no room for directory entry")
	}

	return offset, nil
}

// invalidateEntry clears the in-use flag on disk, leaving the rest of
// the entry bytes behind as a tombstone.
func (v *Volume) invalidateEntry(entry *DirectoryEntry) {
	entry.Flags &^= entryFlagInUse
	v.image[entry.offset] = entry.Flags
}
