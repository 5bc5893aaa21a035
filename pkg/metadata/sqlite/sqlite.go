// Package sqlite provides a SQLite-backed metadata sink.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/recallhq/recall/pkg/metadata"
)

const schema = `
CREATE TABLE IF NOT EXISTS call_metadata (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id           TEXT NOT NULL,
	call_id           TEXT NOT NULL,
	timestamp         TIMESTAMP NOT NULL,
	duration_seconds  REAL NOT NULL,
	mood              TEXT NOT NULL,
	completion_status TEXT NOT NULL,
	transcript_chars  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_call_metadata_user ON call_metadata (user_id);
`

// Sink persists call metadata to a SQLite database.
type Sink struct {
	db *sql.DB
}

// NewSink opens (or creates) the database at dbPath and ensures the schema
// exists. ":memory:" is accepted for tests.
func NewSink(dbPath string) (*Sink, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
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
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.UserID, m.CallID, m.Timestamp, m.DurationSeconds, m.Mood, m.CompletionStatus, m.TranscriptChars,
	)
	if err != nil {
		return fmt.Errorf("inserting call metadata: %w", err)
	}
	return nil
}

// ForUser returns all records stored for a user, oldest first.
func (s *Sink) ForUser(ctx context.Context, userID string) ([]metadata.CallMetadata, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, call_id, timestamp, duration_seconds, mood, completion_status, transcript_chars
		 FROM call_metadata WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying call metadata: %w", err)
	}
	defer rows.Close()

	var out []metadata.CallMetadata
	for rows.Next() {
		var m metadata.CallMetadata
		if err := rows.Scan(&m.UserID, &m.CallID, &m.Timestamp, &m.DurationSeconds,
			&m.Mood, &m.CompletionStatus, &m.TranscriptChars); err != nil {
			return nil, fmt.Errorf("scanning call metadata row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Sink) Close() error {
	return s.db.Close()
}
