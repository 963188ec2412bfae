// Package ratelimit provides the in-process sliding-window counter that
// gates login attempts.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter counts attempts per key inside a sliding window. Pruning is
// lazy, on each call; there is no background eviction. Calls for
// different keys do not contend; calls for the same key serialize around
// the read-prune-append sequence so concurrent attempts cannot be
// undercounted.
type Limiter struct {
	maxAttempts int
	window      time.Duration
	keys        sync.Map // key -> *keyWindow
	nowFunc     func() time.Time
}

type keyWindow struct {
	mu       sync.Mutex
	attempts []time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithNowFunc overrides the time source (for tests).
func WithNowFunc(now func() time.Time) Option {
	return func(l *Limiter) {
		l.nowFunc = now
	}
}

func New(maxAttempts int, window time.Duration, options ...Option) *Limiter {
	l := &Limiter{
		maxAttempts: maxAttempts,
		window:      window,
		nowFunc:     time.Now,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Allow reports whether another attempt for key is permitted. A denied
// attempt is not recorded, so hammering a locked key does not extend the
// lockout.
func (l *Limiter) Allow(key string) bool {
	v, _ := l.keys.LoadOrStore(key, &keyWindow{})
	kw := v.(*keyWindow)

	kw.mu.Lock()
	defer kw.mu.Unlock()

	now := l.nowFunc()
	windowStart := now.Add(-l.window)

	kept := kw.attempts[:0]
	for _, t := range kw.attempts {
		if !t.Before(windowStart) {
			kept = append(kept, t)
		}
	}
	kw.attempts = kept

	if len(kw.attempts) >= l.maxAttempts {
		return false
	}
	kw.attempts = append(kw.attempts, now)
	return true
}
