// Package ratelimit implements a keyed sliding-window failure counter,
// used to throttle driver login attempts. The limiter is injected into
// the login service so tests can substitute a fake clock.
package ratelimit

import (
	"sync"
	"time"
)

// Clock abstracts time.Now for tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type entry struct {
	count       int
	windowStart time.Time
}

// Limiter counts failures per key within a sliding window. Once a key
// accumulates `limit` failures, Allowed returns false until the window
// expires or the key is reset.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	clock  Clock

	entries map[string]*entry
}

// New returns a limiter allowing up to limit failures per window.
func New(limit int, window time.Duration) *Limiter {
	return NewWithClock(limit, window, realClock{})
}

// NewWithClock is New with an injectable clock.
func NewWithClock(limit int, window time.Duration, clock Clock) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		clock:   clock,
		entries: make(map[string]*entry),
	}
}

// Allowed reports whether the key is still under the failure threshold.
// The check and the expiry pruning happen under one lock, so concurrent
// requests for the same key observe a consistent counter.
func (l *Limiter) Allowed(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return true
	}

	if l.expired(e) {
		delete(l.entries, key)
		return true
	}

	return e.count < l.limit
}

// Fail records one failed attempt for the key. Starts a new window if
// the previous one expired.
func (l *Limiter) Fail(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()

	e, ok := l.entries[key]
	if !ok || l.expired(e) {
		l.entries[key] = &entry{count: 1, windowStart: now}
		return
	}

	e.count++
}

// Reset clears the failure counter for the key (called after a
// successful login).
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, key)
}

func (l *Limiter) expired(e *entry) bool {
	return l.clock.Now().Sub(e.windowStart) >= l.window
}
