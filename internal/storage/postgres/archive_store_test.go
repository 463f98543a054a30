package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/statuskit/lspstatus/internal/store"
)

func sampleRecord(pct *int) store.EventRecord {
	return store.EventRecord{
		ID:         uuid.New(),
		WorkerID:   "worker-1",
		WorkerName: "gopls",
		Token:      "index",
		Kind:       "report",
		Percentage: pct,
		ObservedAt: time.Unix(1700000000, 0).UTC(),
	}
}

func TestInsertEventsCommitsBatch(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	archive := NewArchiveStoreWithDB(mock)
	pct := 40
	recs := []store.EventRecord{sampleRecord(&pct), sampleRecord(nil)}

	mock.ExpectBegin()
	for _, rec := range recs {
		mock.ExpectExec("INSERT INTO progress_events").
			WithArgs(
				rec.ID,
				rec.WorkerID,
				rec.WorkerName,
				rec.Token,
				rec.Kind,
				rec.Percentage,
				rec.ObservedAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()
	mock.ExpectRollback()

	require.NoError(t, archive.InsertEvents(context.Background(), recs))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertEventsEmptyBatchSkipsDatabase(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	archive := NewArchiveStoreWithDB(mock)
	require.NoError(t, archive.InsertEvents(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertEventsRollsBackOnError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	archive := NewArchiveStoreWithDB(mock)
	rec := sampleRecord(nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO progress_events").
		WithArgs(
			rec.ID,
			rec.WorkerID,
			rec.WorkerName,
			rec.Token,
			rec.Kind,
			rec.Percentage,
			rec.ObservedAt,
		).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	err = archive.InsertEvents(context.Background(), []store.EventRecord{rec})
	require.Error(t, err)
	require.ErrorContains(t, err, "insert archive event")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListWorkerEventsScansRows(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	archive := NewArchiveStoreWithDB(mock)
	id := uuid.New()
	observed := time.Unix(1700000000, 0).UTC()
	pct := 70

	mock.ExpectQuery("SELECT id, worker_id, worker_name, token, kind, percentage, observed_at").
		WithArgs("worker-1", 50, 0).
		WillReturnRows(pgxmock.
			NewRows([]string{"id", "worker_id", "worker_name", "token", "kind", "percentage", "observed_at"}).
			AddRow(id, "worker-1", "gopls", "index", "report", &pct, observed))

	records, err := archive.ListWorkerEvents(context.Background(), "worker-1", 50, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, id, records[0].ID)
	require.Equal(t, "gopls", records[0].WorkerName)
	require.NotNil(t, records[0].Percentage)
	require.Equal(t, 70, *records[0].Percentage)
	require.NoError(t, mock.ExpectationsWereMet())
}
