package compare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/sdejongh/treediff/pkg/storage"
)

const (
	// DefaultBufferSize is the per-side read buffer used when none is configured
	DefaultBufferSize = 64 * 1024

	minBufferSize = 4096

	progressReportInterval = 50 * time.Millisecond
	progressReportBytes    = 64 * 1024
)

// BinaryComparator compares files byte-by-byte.
// Metadata never makes two files equal: matching sizes always lead to a full read.
type BinaryComparator struct {
	bufferSize     int
	bufferPool     *sync.Pool
	progressReport ProgressFunc
	readerWrapper  ReaderWrapper
}

// NewBinaryComparator creates a new byte-by-byte comparator
func NewBinaryComparator(bufferSize int) *BinaryComparator {
	if bufferSize < minBufferSize {
		bufferSize = minBufferSize
	}
	return &BinaryComparator{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetProgressCallback sets the progress reporting callback
func (c *BinaryComparator) SetProgressCallback(callback ProgressFunc) {
	c.progressReport = callback
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (c *BinaryComparator) SetReaderWrapper(wrapper ReaderWrapper) {
	c.readerWrapper = wrapper
}

// Compare compares the file at path on both backends byte-by-byte.
// It stats both sides itself, so sizes are taken right before the read even
// when the caller classified the entry earlier. A file that changes size
// while it is read is reported as differing at the offset where one side ended.
func (c *BinaryComparator) Compare(ctx context.Context, left, right storage.Backend, path string) (*Comparison, error) {
	leftInfo, err := left.Stat(ctx, path)
	if err != nil {
		return nil, storage.WrapError(left, "stat", path, err)
	}

	rightInfo, err := right.Stat(ctx, path)
	if err != nil {
		return nil, storage.WrapError(right, "stat", path, err)
	}

	// Different sizes can never hold the same bytes
	if leftInfo.Size != rightInfo.Size {
		return &Comparison{
			Path:   path,
			Size:   leftInfo.Size,
			Reason: fmt.Sprintf("size mismatch: left=%d, right=%d", leftInfo.Size, rightInfo.Size),
		}, nil
	}

	leftReader, err := c.open(ctx, left, path)
	if err != nil {
		return nil, err
	}
	defer leftReader.Close()

	rightReader, err := c.open(ctx, right, path)
	if err != nil {
		return nil, err
	}
	defer rightReader.Close()

	leftBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(leftBufPtr)
	leftBuf := *leftBufPtr

	rightBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(rightBufPtr)
	rightBuf := *rightBufPtr

	hasher := xxh3.New()

	var bytesCompared int64
	var lastReported int64
	var lastReportTime time.Time

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		leftN, leftErr := io.ReadFull(leftReader, leftBuf)
		if isReadFailure(leftErr) {
			return nil, storage.WrapError(left, "read", path, leftErr)
		}
		rightN, rightErr := io.ReadFull(rightReader, rightBuf)
		if isReadFailure(rightErr) {
			return nil, storage.WrapError(right, "read", path, rightErr)
		}

		n := min(leftN, rightN)
		if !bytes.Equal(leftBuf[:n], rightBuf[:n]) {
			offset := bytesCompared + int64(firstDifference(leftBuf[:n], rightBuf[:n]))
			return &Comparison{
				Path:   path,
				Size:   leftInfo.Size,
				Reason: fmt.Sprintf("content differs at byte offset %d", offset),
			}, nil
		}

		// A file changed size after it was stat'ed
		if leftN != rightN {
			shorter := "left"
			if rightN < leftN {
				shorter = "right"
			}
			return &Comparison{
				Path:   path,
				Size:   leftInfo.Size,
				Reason: fmt.Sprintf("%s ended at byte offset %d", shorter, bytesCompared+int64(n)),
			}, nil
		}

		hasher.Write(leftBuf[:n])
		bytesCompared += int64(n)

		if c.progressReport != nil && n > 0 {
			if bytesCompared-lastReported >= progressReportBytes ||
				time.Since(lastReportTime) >= progressReportInterval {
				c.progressReport(path, bytesCompared, leftInfo.Size)
				lastReported = bytesCompared
				lastReportTime = time.Now()
			}
		}

		// Short or empty reads mean both sides reached EOF together
		if leftErr != nil {
			break
		}
	}

	if c.progressReport != nil && bytesCompared > lastReported {
		c.progressReport(path, bytesCompared, leftInfo.Size)
	}

	return &Comparison{
		Path:   path,
		Equal:  true,
		Size:   bytesCompared,
		Digest: fmt.Sprintf("%016x", hasher.Sum64()),
		Reason: fmt.Sprintf("binary content matches (%d bytes)", bytesCompared),
	}, nil
}

// Name returns the comparator name
func (c *BinaryComparator) Name() string {
	return "binary"
}

func (c *BinaryComparator) open(ctx context.Context, backend storage.Backend, path string) (io.ReadCloser, error) {
	reader, err := backend.Read(ctx, path)
	if err != nil {
		return nil, storage.WrapError(backend, "open", path, err)
	}
	if c.readerWrapper != nil {
		reader = c.readerWrapper(reader)
	}
	return reader, nil
}

// isReadFailure reports errors other than the end-of-file markers io.ReadFull returns
func isReadFailure(err error) bool {
	return err != nil && err != io.EOF && err != io.ErrUnexpectedEOF
}

func firstDifference(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}
	return len(a)
}
