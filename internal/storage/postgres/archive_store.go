// Package postgres provides the Postgres-backed event archive.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/statuskit/lspstatus/internal/store"
)

// DB is the subset of pgxpool.Pool the archive needs; pgxmock satisfies it in
// tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ArchiveStore implements store.EventArchive on Postgres.
//
// Expected schema:
//
//	CREATE TABLE progress_events (
//	    id UUID PRIMARY KEY,
//	    worker_id TEXT NOT NULL,
//	    worker_name TEXT NOT NULL,
//	    token TEXT NOT NULL,
//	    kind TEXT NOT NULL,
//	    percentage SMALLINT,
//	    observed_at TIMESTAMPTZ NOT NULL
//	);
type ArchiveStore struct {
	db   DB
	pool *pgxpool.Pool
}

// NewArchiveStore connects a pool and verifies it with a ping.
func NewArchiveStore(ctx context.Context, dsn string) (*ArchiveStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create archive pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping archive database: %w", err)
	}
	return &ArchiveStore{db: pool, pool: pool}, nil
}

// NewArchiveStoreWithDB wraps an existing connection; used by tests.
func NewArchiveStoreWithDB(db DB) *ArchiveStore {
	return &ArchiveStore{db: db}
}

// Close releases the underlying pool when this store owns one.
func (s *ArchiveStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const insertEventSQL = `
	INSERT INTO progress_events (id, worker_id, worker_name, token, kind, percentage, observed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

// InsertEvents appends the batch inside one transaction.
func (s *ArchiveStore) InsertEvents(ctx context.Context, records []store.EventRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, rec := range records {
		if _, err := tx.Exec(
			ctx,
			insertEventSQL,
			rec.ID,
			rec.WorkerID,
			rec.WorkerName,
			rec.Token,
			rec.Kind,
			rec.Percentage,
			rec.ObservedAt,
		); err != nil {
			return fmt.Errorf("insert archive event: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}
	return nil
}

const listEventsSQL = `
	SELECT id, worker_id, worker_name, token, kind, percentage, observed_at
	FROM progress_events
	WHERE worker_id = $1
	ORDER BY observed_at DESC
	LIMIT $2 OFFSET $3;
`

// ListWorkerEvents returns the newest records for one worker.
func (s *ArchiveStore) ListWorkerEvents(
	ctx context.Context,
	workerID string,
	limit,
	offset int,
) ([]store.EventRecord, error) {
	rows, err := s.db.Query(ctx, listEventsSQL, workerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list archive events: %w", err)
	}
	defer rows.Close()

	var records []store.EventRecord
	for rows.Next() {
		var rec store.EventRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.WorkerID,
			&rec.WorkerName,
			&rec.Token,
			&rec.Kind,
			&rec.Percentage,
			&rec.ObservedAt,
		); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, store.ErrNotFound
			}
			return nil, fmt.Errorf("scan archive event: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archive events: %w", err)
	}
	return records, nil
}
