package mfs

import "github.com/pkg/errors"

// Error kinds returned by the volume operations. Call sites wrap these
// with context; test with errors.Cause.
var (
	// ErrInvalidSignature is returned when the MFS magic word is
	// missing from sectors 2-3 of an image.
	ErrInvalidSignature = errors.New("invalid volume signature")

	// ErrInvalidArgument is returned for bad filenames, Type/Creator
	// codes that are not 4 characters, bad image sizes, and 12-bit
	// values that do not fit the allocation block map.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDiskFull is returned when fewer free allocation blocks remain
	// than a requested chain needs.
	ErrDiskFull = errors.New("disk full")

	// ErrDirectoryFull is returned when the file directory sectors
	// have no room for another entry.
	ErrDirectoryFull = errors.New("directory full")

	// ErrNotFound is returned when no directory entry matches a name.
	ErrNotFound = errors.New("file not found")

	// ErrCorrupted is returned when an allocation chain is
	// inconsistent with the directory entry that owns it.
	ErrCorrupted = errors.New("volume corrupted")
)

// Diagnostic records a non-fatal inconsistency noticed while walking
// an allocation chain. Freeing a damaged chain stops early and reports
// here rather than failing the whole operation.
type Diagnostic struct {
	Op      string
	Block   uint16
	Message string
}
