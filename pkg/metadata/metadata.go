// Package metadata defines the call metadata record and the sink interface
// for persisting it.
//
// Metadata persistence is separate from memory persistence on purpose: the
// memory store holds semantic content for future recall, while metadata is
// operational bookkeeping (who called, when, for how long, how it ended).
// Either write can fail without affecting the other.
package metadata

import (
	"context"
	"time"
)

// CallMetadata is the operational record of one finished call.
type CallMetadata struct {
	UserID           string    `json:"user_id"`
	CallID           string    `json:"call_id"`
	Timestamp        time.Time `json:"timestamp"`
	DurationSeconds  float64   `json:"duration_seconds"`
	Mood             string    `json:"mood"`
	CompletionStatus string    `json:"completion_status"`
	TranscriptChars  int       `json:"transcript_chars"`
}

// Sink persists call metadata records.
type Sink interface {
	// Store persists one record.
	Store(ctx context.Context, m CallMetadata) error

	// Close releases any resources held by the sink.
	Close() error
}
