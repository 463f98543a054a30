package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statuskit/lspstatus/internal/metrics"
)

func TestBrokerFanOut(t *testing.T) {
	t.Parallel()
	metrics.Init()

	b := NewBroker()
	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel1()
	defer cancel2()
	require.Equal(t, 2, b.Subscribers())

	b.Notify()
	assert.Len(t, ch1, 1)
	assert.Len(t, ch2, 1)

	// An undrained subscriber coalesces repeat notifications.
	b.Notify()
	assert.Len(t, ch1, 1)

	<-ch1
	b.Notify()
	assert.Len(t, ch1, 1)
}

func TestBrokerCancelIdempotent(t *testing.T) {
	t.Parallel()
	metrics.Init()

	b := NewBroker()
	_, cancel := b.Subscribe()
	cancel()
	cancel()
	assert.Equal(t, 0, b.Subscribers())

	// Notifying with no subscribers is a no-op.
	b.Notify()
}
