// Package ratelimit throttles content reads, e.g. when comparing trees on a
// network share that other users depend on.
package ratelimit

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

const minBucketSize = 64 * 1024

// Limiter is a token bucket shared by every reader it wraps
type Limiter struct {
	limiter *rate.Limiter
	burst   int
}

// NewLimiter creates a limiter for bytesPerSecond; zero or less means no limit and returns nil
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	// One second of data, never less than 64KB, so small limits still read in useful chunks
	burst := int(max(bytesPerSecond, minBucketSize))

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(bytesPerSecond), burst),
		burst:   burst,
	}
}

// ReadCloser is an io.ReadCloser whose reads draw from a Limiter
type ReadCloser struct {
	ctx     context.Context
	rc      io.ReadCloser
	limiter *Limiter
}

// NewReadCloser wraps rc; a nil limiter returns rc unchanged
func NewReadCloser(ctx context.Context, rc io.ReadCloser, limiter *Limiter) io.ReadCloser {
	if limiter == nil {
		return rc
	}
	return &ReadCloser{ctx: ctx, rc: rc, limiter: limiter}
}

// Read reads at most one burst of data, then waits until the bytes read are
// paid for. Bytes already read are returned with the context error when ctx
// ends during the wait.
func (r *ReadCloser) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}

	if len(p) > r.limiter.burst {
		p = p[:r.limiter.burst]
	}

	n, err := r.rc.Read(p)
	if n > 0 {
		if waitErr := r.limiter.limiter.WaitN(r.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}

// Close closes the wrapped reader
func (r *ReadCloser) Close() error {
	return r.rc.Close()
}
