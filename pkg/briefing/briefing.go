// Package briefing assembles the pre-call context for a user: the small,
// bounded digest of stored memories injected into the assistant's prompt
// before the conversation starts.
package briefing

import (
	"context"
	"log/slog"
	"strings"

	"github.com/recallhq/recall/pkg/logger"
	"github.com/recallhq/recall/pkg/memstore"
	"github.com/recallhq/recall/pkg/mood"
)

// maxPerBucket caps each surfaced category. Prompts stay short; the full
// fetch result is still available on Raw for diagnostics.
const maxPerBucket = 3

// Briefing is the assembled pre-call context. Promises, Goals and Progress
// each hold at most maxPerBucket entries in store order. Blockers are
// deliberately absent: they are extracted after calls so a human or a later
// model can review them, but they are never read back to the user.
type Briefing struct {
	Promises []string
	Goals    []string
	Progress []string

	// Raw is everything the store returned, unbucketed and unbounded.
	Raw []memstore.Record
}

// Empty reports whether the briefing surfaces nothing.
func (b *Briefing) Empty() bool {
	return len(b.Promises) == 0 && len(b.Goals) == 0 && len(b.Progress) == 0
}

// ContextBlock renders the briefing as prompt text, one bullet section per
// non-empty bucket. An empty briefing renders as "".
func (b *Briefing) ContextBlock() string {
	if b.Empty() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("User Context (from previous calls):\n")
	writeSection(&sb, "Recent Promises:", b.Promises)
	writeSection(&sb, "Current Goals:", b.Goals)
	writeSection(&sb, "Recent Progress:", b.Progress)
	return strings.TrimRight(sb.String(), "\n")
}

func writeSection(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n" + heading + "\n")
	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}
}

// Assembler turns stored memories into briefings.
type Assembler struct {
	client *memstore.Client
	logger *slog.Logger
}

// NewAssembler creates an assembler over the given memory client. A nil
// client is allowed and yields empty briefings, so callers without a
// configured memory service degrade instead of branching.
func NewAssembler(client *memstore.Client, log *slog.Logger) *Assembler {
	if log == nil {
		log = logger.Nop()
	}
	return &Assembler{client: client, logger: log}
}

// Assemble fetches the user's memories tagged for the given mood and
// buckets them. It never fails: any fetch problem produces an empty
// briefing, which renders as an empty context block downstream.
func (a *Assembler) Assemble(ctx context.Context, userID string, m mood.Mood, limit int) *Briefing {
	b := &Briefing{}
	if a.client == nil {
		return b
	}

	records := a.client.Fetch(ctx, userID, m.Tags(), limit)
	b.Raw = records

	for _, rec := range records {
		if rec.Content == "" {
			continue
		}
		switch rec.Category() {
		case memstore.CategoryPromise:
			if len(b.Promises) < maxPerBucket {
				b.Promises = append(b.Promises, rec.Content)
			}
		case memstore.CategoryGoal:
			if len(b.Goals) < maxPerBucket {
				b.Goals = append(b.Goals, rec.Content)
			}
		case memstore.CategoryProgress:
			if len(b.Progress) < maxPerBucket {
				b.Progress = append(b.Progress, rec.Content)
			}
		}
		// Blockers and summaries fall through: fetched, kept in Raw,
		// never surfaced.
	}

	a.logger.Debug("assembled briefing",
		"user_id", userID,
		"fetched", len(records),
		"promises", len(b.Promises),
		"goals", len(b.Goals),
		"progress", len(b.Progress),
	)
	return b
}
