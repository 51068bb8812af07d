// Package ratelimit bounds request volume per source address within a
// sliding time window. State lives in process memory only; the limiter is a
// soft abuse guard, not an audit trail, so nothing survives a restart.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter keeps one timestamp window per source address. Entries older than
// the period are pruned inline on every access; there is no background
// sweep. All window updates happen under one lock so two concurrent requests
// from the same address cannot both pass on a single remaining slot.
type Limiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	period  time.Duration
	now     func() time.Time
}

// New creates a Limiter admitting up to limit requests per address within
// any trailing period.
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// SetClock overrides the limiter's time source. Test hook.
func (l *Limiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Allow records a request from addr and reports whether it is admitted.
// The request's own timestamp is retained even when the request is
// rejected: a rejected attempt still occupies a window slot, so sustained
// hammering stays rejected until traffic actually stops for a full period.
func (l *Limiter) Allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	old := l.windows[addr]
	window := old[:0]
	for _, t := range old {
		if now.Sub(t) < l.period {
			window = append(window, t)
		}
	}
	window = append(window, now)
	l.windows[addr] = window

	return len(window) <= l.limit
}

// Size returns the current number of retained timestamps for addr.
func (l *Limiter) Size(addr string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows[addr])
}
