// Package clocktest provides a manual clock and scheduler for deterministic
// tests of time-dependent behavior.
package clocktest

import (
	"sort"
	"sync"
	"time"

	"github.com/statuskit/lspstatus/internal/clock"
)

// Clock is a manually-advanced clock.Clock and clock.Scheduler. Timers fire
// synchronously inside Advance once their deadline is reached.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

// New creates a Clock starting at the given time.
func New(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current manual time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After registers fn to run when the manual time reaches now+d.
func (c *Clock) After(d time.Duration, fn func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, deadline: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and fires every due timer in deadline
// order. Callbacks run without the internal lock held, so they may schedule
// new timers.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()

	for {
		t := c.popDue()
		if t == nil {
			return
		}
		t.fn()
	}
}

// PendingTimers reports the number of unexpired, unstopped timers.
func (c *Clock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (c *Clock) popDue() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	sort.SliceStable(c.timers, func(i, j int) bool {
		return c.timers[i].deadline.Before(c.timers[j].deadline)
	})
	for i, t := range c.timers {
		if t.stopped {
			continue
		}
		if !t.deadline.After(c.now) {
			t.stopped = true
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return t
		}
	}
	return nil
}

type fakeTimer struct {
	clock    *Clock
	deadline time.Time
	fn       func()
	stopped  bool
}

// Stop cancels the timer; it reports false if the timer already fired.
func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}
