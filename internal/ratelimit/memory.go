package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultSweepInterval is how often the background sweep removes expired
// windows to bound memory growth from transient client keys.
const DefaultSweepInterval = 5 * time.Minute

type entry struct {
	count   int
	resetAt time.Time
}

// MemoryStore is a mutex-guarded fixed-window counter map for a single
// process. Counters are independent per instance; see RedisStore for
// multi-instance deployments.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*entry)}
}

func (s *MemoryStore) Check(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e, ok := s.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(window)}
		s.entries[key] = e
		return Result{Allowed: true, Limit: limit, Remaining: limit - 1, ResetAt: e.resetAt}, nil
	}

	e.count++
	if e.count > limit {
		return Result{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    e.resetAt,
			RetryAfter: retryAfterSeconds(e.resetAt, now),
		}, nil
	}

	return Result{Allowed: true, Limit: limit, Remaining: limit - e.count, ResetAt: e.resetAt}, nil
}

// Sweep removes every entry whose window has already closed and returns the
// number removed. Racing a sweep against a concurrent Check on the same key
// is harmless: the entry is either reset or recreated on the next request.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if now.After(e.resetAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on a fixed interval until ctx is cancelled.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Sweep(now)
			}
		}
	}()
}

func (s *MemoryStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
