package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/sdejongh/treediff/pkg/models"
)

// Billy is a storage backend over a go-billy filesystem
type Billy struct {
	fs   billy.Filesystem
	root string
}

// NewBilly wraps a billy filesystem; root is only used to label paths
func NewBilly(fs billy.Filesystem, root string) *Billy {
	return &Billy{fs: fs, root: root}
}

// ErrNotDirectory is the cause reported when a root is not a directory
var ErrNotDirectory = errors.New("not a directory")

// NewLocal creates a backend rooted at a directory on the local filesystem.
// A root that cannot be used yields a *models.FilesystemError naming it.
func NewLocal(rootPath string) (*Billy, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, &models.FilesystemError{Op: "resolve", Path: rootPath, Err: err}
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, &models.FilesystemError{Op: "stat", Path: absPath, Err: err}
	}

	if !info.IsDir() {
		return nil, &models.FilesystemError{Op: "list", Path: absPath, Err: ErrNotDirectory}
	}

	return NewBilly(osfs.New(absPath), absPath), nil
}

// NewMemory creates an empty in-memory backend
func NewMemory() *Billy {
	fs := memfs.New()
	// memfs only materialises its root once something is created under it
	_ = fs.MkdirAll(".", 0755)
	return NewBilly(fs, "memory:/")
}

// Filesystem exposes the underlying billy filesystem, e.g. to populate a memory backend
func (b *Billy) Filesystem() billy.Filesystem {
	return b.fs
}

// ReadDir returns the names of the entries directly inside p
func (b *Billy) ReadDir(ctx context.Context, p string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := b.fs.ReadDir(b.native(p))
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}

// Stat returns entry metadata
func (b *Billy) Stat(ctx context.Context, p string) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := b.fs.Stat(b.native(p))
	if err != nil {
		return nil, fmt.Errorf("failed to stat: %w", err)
	}

	return &FileInfo{
		Name:         path.Base(p),
		RelativePath: p,
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		Mode:         info.Mode(),
	}, nil
}

// Read opens a file for reading
func (b *Billy) Read(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := b.fs.Open(b.native(p))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Root returns the root the backend was created with
func (b *Billy) Root() string {
	return b.root
}

// Close releases resources (no-op for billy filesystems)
func (b *Billy) Close() error {
	return nil
}

// native converts a slash-separated relative path for the filesystem
func (b *Billy) native(p string) string {
	if p == "" {
		return "."
	}
	return filepath.FromSlash(p)
}
