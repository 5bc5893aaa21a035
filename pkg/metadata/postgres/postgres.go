// Package postgres provides a PostgreSQL-backed metadata sink via pgx's
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/recallhq/recall/pkg/metadata"
)

const schema = `
CREATE TABLE IF NOT EXISTS call_metadata (
	id                BIGSERIAL PRIMARY KEY,
	user_id           TEXT NOT NULL,
	call_id           TEXT NOT NULL,
	timestamp         TIMESTAMPTZ NOT NULL,
	duration_seconds  DOUBLE PRECISION NOT NULL,
	mood              TEXT NOT NULL,
	completion_status TEXT NOT NULL,
	transcript_chars  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_call_metadata_user ON call_metadata (user_id);
`

// Sink persists call metadata to PostgreSQL.
type Sink struct {
	db *sql.DB
}

// NewSink connects with the given DSN and ensures the schema exists.
func NewSink(ctx context.Context, dsn string) (*Sink, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating call_metadata schema: %w", err)
	}

	return &Sink{db: db}, nil
}

// Store inserts one record.
func (s *Sink) Store(ctx context.Context, m metadata.CallMetadata) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO call_metadata
			(user_id, call_id, timestamp, duration_seconds, mood, completion_status, transcript_chars)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.UserID, m.CallID, m.Timestamp, m.DurationSeconds, m.Mood, m.CompletionStatus, m.TranscriptChars,
	)
	if err != nil {
		return fmt.Errorf("inserting call metadata: %w", err)
	}
	return nil
}

// Close closes the underlying pool.
func (s *Sink) Close() error {
	return s.db.Close()
}
