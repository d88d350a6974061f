package rate

import (
	"context"
	"sync"
	"time"
)

// Config holds rate limiter tuning parameters.
type Config struct {
	Limit  int
	Window time.Duration
}

// Limiter is a fixed-window counter keyed by an opaque client
// identifier (typically the source address).
//
// Fixed windows are an accepted approximation of a sliding log: a burst
// straddling a window boundary can transiently admit up to twice the
// limit across the boundary. Callers relying on a hard ceiling need a
// different windowing scheme, not a tweak to this one.
type Limiter interface {
	// Allow records one request from clientID and reports whether it is
	// within the budget for the current window. The first request from a
	// client, or the first after the window elapsed, opens a fresh window.
	Allow(ctx context.Context, clientID string) (bool, error)
}

type window struct {
	count int
	start time.Time
}

// MemoryLimiter counts windows in a mutex-guarded map. State is
// process-local and vanishes on exit; there is nothing to tear down.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	config  Config
	now     func() time.Time
}

// NewMemoryLimiter creates an in-process [Limiter].
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		config:  cfg,
		now:     time.Now,
	}
}

// Allow implements [Limiter]. The check-reset-increment sequence runs
// under the map lock so concurrent requests from one client never lose
// updates.
func (l *MemoryLimiter) Allow(_ context.Context, clientID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[clientID]
	if !ok || now.Sub(w.start) > l.config.Window {
		w = &window{start: now}
		l.windows[clientID] = w
	}

	w.count++
	return w.count <= l.config.Limit, nil
}
