package mfs

import (
	"time"

	"github.com/pkg/errors"
)

// ForkType selects one of a file's two byte streams.
type ForkType string

const (
	DataFork     ForkType = "data"
	ResourceFork ForkType = "resource"
)

// FileMeta carries the caller-supplied attributes of a new file.
// Type and Creator must be exactly four characters. Zero dates mean
// "now".
type FileMeta struct {
	Type        string
	Creator     string
	FolderNum   int16
	FinderFlags uint16
	Created     time.Time
	Modified    time.Time
}

// FileInfo describes one file in the directory.
type FileInfo struct {
	Name        string
	Type        string
	Creator     string
	DataSize    uint32 // data fork logical length
	RsrcSize    uint32 // resource fork logical length
	Created     time.Time
	Modified    time.Time
	FileNum     uint32
	FolderNum   int16
	FinderFlags uint16
	IconVert    int16
	IconHoriz   int16
}

func (e *DirectoryEntry) fileInfo() FileInfo {
	return FileInfo{
		Name:        e.Name,
		Type:        string(e.Type[:]),
		Creator:     string(e.Creator[:]),
		DataSize:    e.DataLen,
		RsrcSize:    e.RsrcLen,
		Created:     macTime(e.CreateDate),
		Modified:    macTime(e.ModifyDate),
		FileNum:     e.FileNum,
		FolderNum:   e.FolderNum,
		FinderFlags: e.FinderFlags,
		IconVert:    e.IconVert,
		IconHoriz:   e.IconHoriz,
	}
}

// ListFiles returns the directory contents in directory order.
func (v *Volume) ListFiles() []FileInfo {
	files := make([]FileInfo, 0, len(v.files))
	for _, entry := range v.files {
		files = append(files, entry.fileInfo())
	}
	return files
}

// GetFileInfo returns the directory record for a single file.
func (v *Volume) GetFileInfo(name string) (FileInfo, error) {
	entry := v.lookup(name)
	if entry == nil {
		return FileInfo{}, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return entry.fileInfo(), nil
}

// CreateFile adds an empty file: both forks have zero length and no
// allocation blocks.
func (v *Volume) CreateFile(name string, meta FileMeta) (FileInfo, error) {
	return v.WriteFile(name, nil, nil, meta)
}

// WriteFile adds a file with the given fork contents. An existing
// file of the same name is deleted first; there is no in-place
// overwrite. Either both forks are stored or the volume is left in
// its prior state (after any such delete).
func (v *Volume) WriteFile(name string, data, rsrc []byte, meta FileMeta) (FileInfo, error) {
	if len(name) == 0 || len(name) > maxFileNameLen {
		return FileInfo{}, errors.Wrapf(ErrInvalidArgument, "file name length %d", len(name))
	}
	if len(meta.Type) != 4 {
		return FileInfo{}, errors.Wrapf(ErrInvalidArgument, "type code %q is not 4 characters", meta.Type)
	}
	if len(meta.Creator) != 4 {
		return FileInfo{}, errors.Wrapf(ErrInvalidArgument, "creator code %q is not 4 characters", meta.Creator)
	}

	if v.lookup(name) != nil {
		if err := v.DeleteFile(name); err != nil {
			return FileInfo{}, err
		}
	}

	blockSize := int(v.Info.AllocBlockSize)
	dataBlocks := (len(data) + blockSize - 1) / blockSize
	rsrcBlocks := (len(rsrc) + blockSize - 1) / blockSize
	if dataBlocks+rsrcBlocks > int(v.Info.FreeBlocks) {
		return FileInfo{}, errors.Wrapf(ErrDiskFull, "%d blocks needed, %d free", dataBlocks+rsrcBlocks, v.Info.FreeBlocks)
	}

	dataStart, dataChain, err := v.allocateChain(dataBlocks)
	if err != nil {
		return FileInfo{}, err
	}
	rsrcStart, rsrcChain, err := v.allocateChain(rsrcBlocks)
	if err != nil {
		v.freeChain(dataStart)
		return FileInfo{}, err
	}

	now := time.Now()
	created := meta.Created
	if created.IsZero() {
		created = now
	}
	modified := meta.Modified
	if modified.IsZero() {
		modified = now
	}

	entry := &DirectoryEntry{
		Flags:       entryFlagInUse,
		Version:     0,
		Type:        fourCC(meta.Type),
		Creator:     fourCC(meta.Creator),
		FinderFlags: meta.FinderFlags,
		FolderNum:   meta.FolderNum,
		FileNum:     v.Info.NextFileNumber,
		DataStart:   dataStart,
		DataLen:     uint32(len(data)),
		DataAlloc:   uint32(dataBlocks * blockSize),
		RsrcStart:   rsrcStart,
		RsrcLen:     uint32(len(rsrc)),
		RsrcAlloc:   uint32(rsrcBlocks * blockSize),
		CreateDate:  macStamp(created),
		ModifyDate:  macStamp(modified),
		Name:        name,
	}

	offset, err := v.findFreeSlot(entry.size())
	if err != nil {
		v.freeChain(dataStart)
		v.freeChain(rsrcStart)
		return FileInfo{}, err
	}
	entry.offset = offset

	v.Info.NextFileNumber++
	entry.marshal(v.image[offset : offset+entry.size()])

	v.writeFork(dataChain, data)
	v.writeFork(rsrcChain, rsrc)

	v.Info.FileCount++
	v.Info.ModifyDate = macStamp(now)
	if err := v.flushMDB(); err != nil {
		return FileInfo{}, err
	}

	v.files = append(v.files, entry)

	return entry.fileInfo(), nil
}

// writeFork copies fork contents into the blocks of its chain. The
// tail of the last block keeps whatever the image already held.
func (v *Volume) writeFork(chain []uint16, contents []byte) {
	blockSize := int(v.Info.AllocBlockSize)
	for i, block := range chain {
		src := contents[i*blockSize:]
		if len(src) > blockSize {
			src = src[:blockSize]
		}
		copy(v.image[v.blockOffset(block):], src)
	}
}

// ReadFile returns the contents of one fork of a file.
func (v *Volume) ReadFile(name string, fork ForkType) ([]byte, error) {
	entry := v.lookup(name)
	if entry == nil {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}

	var start uint16
	var length uint32
	switch fork {
	case DataFork, "":
		start, length = entry.DataStart, entry.DataLen
	case ResourceFork:
		start, length = entry.RsrcStart, entry.RsrcLen
	default:
		return nil, errors.Wrapf(ErrInvalidArgument, "fork type %q", fork)
	}

	if start == 0 || length == 0 {
		return []byte{}, nil
	}

	out := make([]byte, length)
	blockSize := int(v.Info.AllocBlockSize)
	read := 0
	block := start

	// A healthy chain cannot be longer than the whole map.
	for steps := 0; ; steps++ {
		if steps > int(v.Info.AllocBlocks) {
			return nil, errors.Wrapf(ErrCorrupted, "allocation chain for %q does not terminate", name)
		}
		if block < firstAllocBlock || block > v.Info.AllocBlocks+1 {
			return nil, errors.Wrapf(ErrCorrupted, "block %d outside allocation map", block)
		}

		n := int(length) - read
		if n > blockSize {
			n = blockSize
		}
		copy(out[read:], v.image[v.blockOffset(block):v.blockOffset(block)+n])
		read += n

		next := v.abm[block-firstAllocBlock]
		if read == int(length) {
			break
		}
		switch {
		case next == blockChainEnd:
			return nil, errors.Wrapf(ErrCorrupted, "chain for %q ends after %d of %d bytes", name, read, length)
		case next == blockFree || next == blockDirUse:
			return nil, errors.Wrapf(ErrCorrupted, "chain for %q passes through reserved entry 0x%03X", name, next)
		}
		block = next
	}

	return out, nil
}

// DeleteFile removes a file, releasing its blocks and leaving its
// directory entry behind as a tombstone.
func (v *Volume) DeleteFile(name string) error {
	entry := v.lookup(name)
	if entry == nil {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}

	v.freeChain(entry.DataStart)
	v.freeChain(entry.RsrcStart)
	v.invalidateEntry(entry)

	for i, e := range v.files {
		if e == entry {
			v.files = append(v.files[:i], v.files[i+1:]...)
			break
		}
	}

	v.Info.FileCount--
	v.Info.ModifyDate = macStamp(time.Now())
	return v.flushMDB()
}
