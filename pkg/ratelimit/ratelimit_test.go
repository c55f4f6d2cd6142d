package ratelimit

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLimiter_ThresholdReached(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewWithClock(10, 15*time.Minute, clock)

	for i := 0; i < 10; i++ {
		if !l.Allowed("key") {
			t.Fatalf("attempt %d should still be allowed", i+1)
		}
		l.Fail("key")
	}

	// 11th attempt is blocked regardless of credentials
	if l.Allowed("key") {
		t.Fatal("11th attempt should be blocked")
	}
}

func TestLimiter_WindowExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewWithClock(3, 15*time.Minute, clock)

	for i := 0; i < 3; i++ {
		l.Fail("key")
	}
	if l.Allowed("key") {
		t.Fatal("key should be blocked inside window")
	}

	clock.Advance(15 * time.Minute)
	if !l.Allowed("key") {
		t.Fatal("key should be allowed after window expires")
	}
}

func TestLimiter_Reset(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewWithClock(3, 15*time.Minute, clock)

	for i := 0; i < 3; i++ {
		l.Fail("key")
	}
	l.Reset("key")

	if !l.Allowed("key") {
		t.Fatal("reset key should be allowed again")
	}
}

func TestLimiter_KeysIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewWithClock(3, 15*time.Minute, clock)

	for i := 0; i < 3; i++ {
		l.Fail("a")
	}

	if l.Allowed("a") {
		t.Fatal("key a should be blocked")
	}
	if !l.Allowed("b") {
		t.Fatal("key b should not be affected by key a")
	}
}

func TestLimiter_ConcurrentFails(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewWithClock(100, 15*time.Minute, clock)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Fail("key")
		}()
	}
	wg.Wait()

	if l.Allowed("key") {
		t.Fatal("exactly 100 concurrent failures must trip a limit of 100")
	}
}
