package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is the in-process fallback when no Redis is configured.
// Counters reset lazily when their window has passed; keys that stopped
// arriving are swept out once per window so one-off callers do not
// accumulate forever.
type MemoryLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	max       int
	now       func() time.Time
	windows   map[string]*window
	lastSweep time.Time
}

type window struct {
	start time.Time
	count int
}

func NewMemoryLimiter(windowSize time.Duration, max int) *MemoryLimiter {
	return &MemoryLimiter{
		window:  windowSize,
		max:     max,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		w = &window{start: now}
		l.windows[key] = w
	}

	w.count++
	return w.count <= l.max, nil
}

// sweep drops expired windows at most once per window length. Callers hold
// the mutex.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, key)
		}
	}
}
