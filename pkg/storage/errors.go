package storage

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/sdejongh/treediff/pkg/models"
)

// FullPath joins a backend-relative path onto the backend root for display
func FullPath(b Backend, path string) string {
	if path == "" {
		return b.Root()
	}
	return filepath.Join(b.Root(), filepath.FromSlash(path))
}

// WrapError turns a backend failure into a FilesystemError naming the full path.
// Context cancellation is returned as is.
func WrapError(b Backend, op, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var fsErr *models.FilesystemError
	if errors.As(err, &fsErr) {
		return err
	}
	return &models.FilesystemError{Op: op, Path: FullPath(b, path), Err: err}
}
