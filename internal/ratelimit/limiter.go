package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrLimitExceeded is surfaced when a client runs over its window budget.
var ErrLimitExceeded = errors.New("rate limit exceeded")

// Store counts requests in fixed windows.
type Store interface {
	// Incr increments the counter for key and returns the post-increment
	// count. When the increment starts a new window (counter was absent), the
	// counter's lifetime is set to the window length.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

// Limiter defines the interface for rate limiting.
type Limiter interface {
	// Allow checks if a request from the given key should be allowed.
	Allow(ctx context.Context, key string) (allowed bool, err error)
}

// FixedWindowLimiter counts requests per key in fixed windows: the counter
// resets entirely when its window elapses, unlike a sliding window.
type FixedWindowLimiter struct {
	store  Store
	max    int64
	window time.Duration
}

// NewFixedWindowLimiter creates a limiter allowing max requests per key per
// window.
func NewFixedWindowLimiter(store Store, max int64, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		store:  store,
		max:    max,
		window: window,
	}
}

// Allow increments the client's counter and reports whether the request stays
// within the window budget. The increment happens even for denied requests;
// that is the operation's only side effect.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return false, err
	}

	return count <= l.max, nil
}
