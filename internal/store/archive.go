// Package store declares interfaces for archiving raw progress events. The
// archive is an inspection aid for the debug pipeline; core aggregation state
// is never read back from it.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound signals that the requested record does not exist.
var ErrNotFound = errors.New("archive record not found")

// EventRecord models one archived progress event.
type EventRecord struct {
	// ID is the primary key assigned at insert time.
	ID uuid.UUID
	// WorkerID is the registered worker the event came from.
	WorkerID string
	// WorkerName is the display name at the time of the event.
	WorkerName string
	// Token scopes the progress stream within the worker.
	Token string
	// Kind is begin/report/end/other.
	Kind string
	// Percentage is nil for indeterminate progress.
	Percentage *int
	// ObservedAt is the emitter timestamp.
	ObservedAt time.Time
}

// EventArchive persists raw progress events for later inspection.
type EventArchive interface {
	// InsertEvents appends a batch of records atomically.
	InsertEvents(ctx context.Context, records []EventRecord) error
	// ListWorkerEvents returns the most recent records for one worker,
	// newest first.
	ListWorkerEvents(ctx context.Context, workerID string, limit, offset int) ([]EventRecord, error)
}
