package storage

import (
	"context"
	"io"
	"io/fs"
	"time"
)

// FileInfo represents metadata about a directory entry
type FileInfo struct {
	Name         string
	RelativePath string
	Size         int64
	ModTime      time.Time
	Mode         fs.FileMode
}

// IsDir reports whether the entry is a directory
func (fi *FileInfo) IsDir() bool {
	return fi.Mode.IsDir()
}

// IsRegular reports whether the entry is a regular file
func (fi *FileInfo) IsRegular() bool {
	return fi.Mode.IsRegular()
}

// Backend defines the read-only operations the tree walk needs.
// Paths are slash-separated and relative to Root; "" is the root itself.
type Backend interface {
	// ReadDir returns the names of the entries directly inside path
	ReadDir(ctx context.Context, path string) ([]string, error)

	// Stat returns entry metadata, following symbolic links
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Root returns the location the backend is rooted at, for messages
	Root() string

	// Close releases any resources held by the backend
	Close() error
}
