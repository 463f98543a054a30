// Package notify implements the leading+trailing debounce used to coalesce
// bursts of progress mutations into rate-limited update callbacks.
package notify

import (
	"sync"
	"time"

	"github.com/statuskit/lspstatus/internal/clock"
)

// DefaultInterval is the minimum spacing between fires when no interval is
// configured.
const DefaultInterval = 500 * time.Millisecond

// Debouncer coalesces Signal calls into at most one callback invocation per
// interval. A signal arriving when the previous fire is older than the
// interval fires immediately; otherwise exactly one trailing fire is
// scheduled for the remainder of the window. At most one scheduled fire
// exists at any time.
//
// The zero interval falls back to DefaultInterval. Without a callback,
// Signal is a no-op and no timer is ever scheduled.
type Debouncer struct {
	clock clock.Clock
	sched clock.Scheduler

	mu       sync.Mutex
	callback func()
	interval time.Duration
	lastFire time.Time
	pending  clock.Timer // non-nil only while a trailing fire is scheduled
}

// New creates a Debouncer with no callback configured.
func New(c clock.Clock, s clock.Scheduler) *Debouncer {
	return &Debouncer{clock: c, sched: s, interval: DefaultInterval}
}

// Configure installs the callback and interval, cancelling any outstanding
// scheduled fire first so the one-pending-fire invariant survives
// reconfiguration. A nil callback disables the debouncer. Safe to call
// repeatedly.
func (d *Debouncer) Configure(callback func(), interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.callback = callback
	d.interval = interval
}

// Signal records that something changed. Calls while a trailing fire is
// pending coalesce into it.
func (d *Debouncer) Signal() {
	d.mu.Lock()
	if d.callback == nil || d.pending != nil {
		d.mu.Unlock()
		return
	}
	now := d.clock.Now()
	wait := d.interval - now.Sub(d.lastFire)
	if wait <= 0 {
		d.lastFire = now
		cb := d.callback
		d.mu.Unlock()
		cb()
		return
	}
	d.pending = d.sched.After(wait, d.firePending)
	d.mu.Unlock()
}

func (d *Debouncer) firePending() {
	d.mu.Lock()
	if d.pending == nil {
		// Cancelled by Configure after the timer already expired.
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.lastFire = d.clock.Now()
	cb := d.callback
	d.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// Pending reports whether a trailing fire is currently scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
