package server

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// throttleChunk is the largest read passed through the limiter at once. It is
// also the limiter burst, so WaitN never asks for more than the bucket holds.
const throttleChunk = 32 * 1024

func newSiteLimiter(bytesPerSec int64) *rate.Limiter {
	if bytesPerSec <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), throttleChunk)
}

// throttledReader delays each read until the site limiter grants tokens for
// the bytes just read.
type throttledReader struct {
	ctx     context.Context
	src     io.Reader
	limiter *rate.Limiter
}

func (t *throttledReader) Read(p []byte) (int, error) {
	if len(p) > throttleChunk {
		p = p[:throttleChunk]
	}
	n, err := t.src.Read(p)
	if n > 0 {
		if werr := t.limiter.WaitN(t.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
