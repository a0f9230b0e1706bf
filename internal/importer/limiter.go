package importer

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyImports is returned when every parse slot is occupied and the
// wait window expires. The client should retry shortly.
var ErrTooManyImports = errors.New("too many concurrent imports, please try again later")

// DefaultMaxConcurrentImports bounds simultaneous workbook parses. Decoding
// holds the whole workbook in memory, so the cap is deliberately small.
const DefaultMaxConcurrentImports = 4

// defaultParseWait is how long Acquire waits for a slot before rejecting.
const defaultParseWait = 10 * time.Second

// ParseLimiter is a semaphore over concurrent workbook parses. A request
// that cannot get a slot within the wait window fails with
// ErrTooManyImports instead of queueing indefinitely.
type ParseLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.Mutex
	active int
}

// NewParseLimiter creates a limiter for at most maxConcurrent parses.
// Non-positive arguments fall back to the defaults.
func NewParseLimiter(maxConcurrent int, maxWait time.Duration) *ParseLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentImports
	}
	if maxWait <= 0 {
		maxWait = defaultParseWait
	}
	return &ParseLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a parse slot, waiting up to the configured window. The
// caller must Release exactly once after a nil return.
func (l *ParseLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyImports
	}
}

// Release frees a slot taken by Acquire.
func (l *ParseLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	<-l.slots
}

// Active returns the number of parses currently holding a slot.
func (l *ParseLimiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}
