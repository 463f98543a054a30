package sinks

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/statuskit/lspstatus/internal/progress"
	"github.com/statuskit/lspstatus/internal/store"
)

// NameResolver maps a worker ID to its display name for archived records.
// The registry implements this; unresolved workers archive with an empty
// name.
type NameResolver interface {
	WorkerName(workerID string) string
}

// ArchiveSink persists raw events through a store.EventArchive.
type ArchiveSink struct {
	archive store.EventArchive
	names   NameResolver
}

// NewArchiveSink constructs an ArchiveSink; names may be nil.
func NewArchiveSink(archive store.EventArchive, names NameResolver) *ArchiveSink {
	return &ArchiveSink{archive: archive, names: names}
}

// Consume converts the batch into archive records and inserts them in one
// call. Repository errors are returned verbatim for the hub to log.
func (s *ArchiveSink) Consume(ctx context.Context, batch []progress.Event) error {
	if s == nil || s.archive == nil || len(batch) == 0 {
		return nil
	}
	records := make([]store.EventRecord, 0, len(batch))
	for _, evt := range batch {
		name := ""
		if s.names != nil {
			name = s.names.WorkerName(evt.Worker)
		}
		records = append(records, store.EventRecord{
			ID:         uuid.New(),
			WorkerID:   evt.Worker,
			WorkerName: name,
			Token:      evt.Token,
			Kind:       string(evt.Kind),
			Percentage: evt.Percentage,
			ObservedAt: evt.TS,
		})
	}
	if err := s.archive.InsertEvents(ctx, records); err != nil {
		return fmt.Errorf("archive events: %w", err)
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *ArchiveSink) Close(context.Context) error {
	return nil
}
