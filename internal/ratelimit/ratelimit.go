// Package ratelimit provides the fixed-window request counters that gate
// every route. The in-memory store is the default; a Redis-backed store is
// available for deployments running more than one instance, where
// per-process counters would multiply the effective budget.
package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of a single admission check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is the whole number of seconds until the window resets,
	// rounded up. Only meaningful when Allowed is false.
	RetryAfter int
}

// Store counts requests per client key within a fixed window.
type Store interface {
	// Check records one request for key and reports whether it is within
	// limit for the window. The first request of a window always passes
	// and opens a fresh window.
	Check(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

func retryAfterSeconds(resetAt, now time.Time) int {
	d := resetAt.Sub(now)
	if d <= 0 {
		return 1
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
