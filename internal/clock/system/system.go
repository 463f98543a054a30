// Package system provides real clock and scheduler implementations.
package system

import (
	"time"

	"github.com/statuskit/lspstatus/internal/clock"
)

// Clock implements clock.Clock using time.Now.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}

// Scheduler implements clock.Scheduler using time.AfterFunc.
type Scheduler struct{}

// NewScheduler creates a new Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After schedules fn on its own goroutine after d.
func (Scheduler) After(d time.Duration, fn func()) clock.Timer {
	return timer{t: time.AfterFunc(d, fn)}
}

type timer struct {
	t *time.Timer
}

func (t timer) Stop() bool {
	return t.t.Stop()
}
