// Package history persists a log of handled queries in PostgreSQL. The
// store is optional: the pipeline runs identically without it, and a
// failed write never affects a query's result.
package history

import (
	"context"
	"database/sql"
	"time"

	"lnd-advisor/internal/common/logger"
)

// Entry is one recorded query.
type Entry struct {
	ID         string
	IntentType string
	Query      string
	ResultType string
	DurationMs int64
	CreatedAt  time.Time
}

type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "history"}),
	}
}

// EnsureSchema creates the history table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS query_history (
			id          UUID PRIMARY KEY,
			intent_type TEXT NOT NULL,
			query       TEXT NOT NULL,
			result_type TEXT NOT NULL,
			duration_ms BIGINT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL
		)`)
	return err
}

// Record inserts one entry. Callers treat failures as advisory.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_history (id, intent_type, query, result_type, duration_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.IntentType, e.Query, e.ResultType, e.DurationMs, e.CreatedAt)
	if err != nil {
		s.logger.Warn("history insert failed", map[string]interface{}{
			"id":    e.ID,
			"error": err.Error(),
		})
	}
	return err
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, intent_type, query, result_type, duration_ms, created_at
		 FROM query_history ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.IntentType, &e.Query, &e.ResultType, &e.DurationMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
