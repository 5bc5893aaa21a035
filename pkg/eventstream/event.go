package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/recallhq/recall/pkg/insight"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeCallProcessed is emitted after post-call processing finishes
	// for a call, whether or not the memory write succeeded.
	EventTypeCallProcessed = "recall.call.processed"
)

// CallProcessedEvent is a transport-neutral event payload for a processed
// call.
type CallProcessedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	UserID    string `json:"user_id"`
	CallID    string `json:"call_id"`
	Mood      string `json:"mood"`
	Sentiment string `json:"sentiment"`

	// Counts holds how many lines each category captured.
	Counts CategoryCounts `json:"counts"`

	// Persisted reports whether the memory write succeeded.
	Persisted bool `json:"persisted"`
}

// CategoryCounts is the per-category line tally of one processed call.
type CategoryCounts struct {
	Promises int `json:"promises"`
	Goals    int `json:"goals"`
	Blockers int `json:"blockers"`
	Progress int `json:"progress"`
}

// NewCallProcessedEvent builds a v1 event from one post-call result.
func NewCallProcessedEvent(userID, callID, mood string, in *insight.Insight, persisted bool) *CallProcessedEvent {
	ev := &CallProcessedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeCallProcessed,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		UserID:        userID,
		CallID:        callID,
		Mood:          mood,
		Persisted:     persisted,
	}
	if in != nil {
		ev.Sentiment = string(in.Sentiment)
		ev.Counts = CategoryCounts{
			Promises: len(in.Promises),
			Goals:    len(in.Goals),
			Blockers: len(in.Blockers),
			Progress: len(in.Progress),
		}
	}
	return ev
}
