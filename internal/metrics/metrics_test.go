package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInit(t *testing.T) {
	// Reset collectors for testing purposes.
	httpRequestsTotal = nil
	httpRequestDurationSeconds = nil
	notificationsTotal = nil
	activeWorkers = nil
	sseSubscribers = nil

	// Call Init multiple times to test idempotency.
	Init()
	Init()

	if httpRequestsTotal == nil || httpRequestDurationSeconds == nil ||
		notificationsTotal == nil || activeWorkers == nil || sseSubscribers == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}

	ObserveNotification()
	if val := testutil.ToFloat64(notificationsTotal); val != 1 {
		t.Errorf("Expected notificationsTotal to be 1, got %f", val)
	}

	IncActiveWorkers()
	IncActiveWorkers()
	DecActiveWorkers()
	if val := testutil.ToFloat64(activeWorkers); val != 1 {
		t.Errorf("Expected activeWorkers to be 1, got %f", val)
	}

	IncSubscribers()
	DecSubscribers()
	if val := testutil.ToFloat64(sseSubscribers); val != 0 {
		t.Errorf("Expected sseSubscribers to be 0, got %f", val)
	}
}
