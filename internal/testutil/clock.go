// Package testutil holds deterministic test doubles shared across packages.
package testutil

import (
	"sync"
	"time"
)

// Clock is a thread-safe deterministic time source for tests.
//
// Each call to Now advances the clock by a fixed step, so stored timestamps
// are strictly increasing and reproducible across runs.
type Clock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewClock creates a clock starting at a fixed epoch with a one-second step.
func NewClock() *Clock {
	return &Clock{
		next: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		step: time.Second,
	}
}

// NewClockAt creates a clock starting at start, advancing by step per call.
func NewClockAt(start time.Time, step time.Duration) *Clock {
	return &Clock{next: start, step: step}
}

// Now returns the current instant and advances the clock.
//
// Thread-safe: uses mutex to protect the cursor.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}
