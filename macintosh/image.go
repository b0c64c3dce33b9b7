// Package macintosh is the platform directory for the original
// Apple Macintosh media and file formats: 400K MFS floppy volumes and
// the file formats commonly stored on them.
package macintosh

// Image is the interface for Macintosh disk image handling.
type Image interface {
	Read() error
	DisplayGeometry()
	DirectoryListing()
}
