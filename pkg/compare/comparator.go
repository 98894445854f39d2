package compare

import (
	"context"
	"io"

	"github.com/sdejongh/treediff/pkg/storage"
)

// Comparison holds the result of comparing the content of two files
type Comparison struct {
	Path   string
	Equal  bool
	Size   int64
	Digest string // xxh3 of the content, set when Equal
	Reason string
}

// ReaderWrapper wraps a file reader, e.g. for rate limiting
type ReaderWrapper func(io.ReadCloser) io.ReadCloser

// ProgressFunc receives throttled byte progress while a file pair is compared
type ProgressFunc func(path string, current, total int64)

// Comparator defines the interface for file content comparison.
// The same relative path is compared on both backends.
type Comparator interface {
	// Compare compares the file at path on left and right
	Compare(ctx context.Context, left, right storage.Backend, path string) (*Comparison, error)

	// Name returns the name of the comparison method
	Name() string
}
