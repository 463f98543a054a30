package system

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClockNowIsUTC(t *testing.T) {
	t.Parallel()

	c := New()
	now := c.Now()
	require.Equal(t, time.UTC, now.Location())
	require.WithinDuration(t, time.Now().UTC(), now, time.Second)
}

func TestSchedulerFiresOnce(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	s := NewScheduler()
	s.After(5*time.Millisecond, func() { fired.Add(1) })

	require.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, time.Millisecond)
}

func TestSchedulerStopPreventsFire(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	s := NewScheduler()
	timer := s.After(50*time.Millisecond, func() { fired.Add(1) })
	require.True(t, timer.Stop())

	time.Sleep(80 * time.Millisecond)
	require.Equal(t, int32(0), fired.Load())
}
