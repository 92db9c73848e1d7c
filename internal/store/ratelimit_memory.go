package store

import (
	"context"
	"sync"
	"time"
)

type windowCounter struct {
	count   int64
	resetAt time.Time
}

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store with
// fixed-window counters.
type RateLimitMemoryStore struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
	now      func() time.Time
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		counters: make(map[string]*windowCounter),
		now:      time.Now,
	}
}

func (s *RateLimitMemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	counter, ok := s.counters[key]
	if !ok || !now.Before(counter.resetAt) {
		// New window: the counter resets entirely.
		s.counters[key] = &windowCounter{count: 1, resetAt: now.Add(window)}

		return 1, nil
	}

	counter.count++

	return counter.count, nil
}
