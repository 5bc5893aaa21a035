// Package postcall turns a finished call into durable artifacts: a memory
// record in the remote store, a call metadata row, and a processed-call
// event.
//
// The memory write and the metadata write are independent paths. Either can
// fail without affecting the other, and neither failure is fatal: the
// extracted insight is always returned so analytics see the call even when
// persistence does not.
package postcall

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/recallhq/recall/pkg/insight"
	"github.com/recallhq/recall/pkg/logger"
	"github.com/recallhq/recall/pkg/memstore"
	"github.com/recallhq/recall/pkg/metadata"
	"github.com/recallhq/recall/pkg/mood"
	"github.com/recallhq/recall/pkg/utils"
)

// summaryMaxChars is the hard truncation point for the transcript summary.
// No sentence-boundary awareness: the summary is a raw prefix.
const summaryMaxChars = 200

// Processor runs post-call extraction and persistence.
type Processor struct {
	store  *memstore.Client
	sink   metadata.Sink
	logger *slog.Logger
}

// NewProcessor creates a processor. Both store and sink may be nil, in
// which case the corresponding write path is skipped.
func NewProcessor(store *memstore.Client, sink metadata.Sink, log *slog.Logger) *Processor {
	if log == nil {
		log = logger.Nop()
	}
	return &Processor{store: store, sink: sink, logger: log}
}

// Process mines the transcript and writes one memory record for the call.
// It returns the extracted insight and whether the memory write succeeded.
// The insight is returned even when the write fails or no store is
// configured; the call's success is never contingent on persistence.
func (p *Processor) Process(ctx context.Context, userID, callID, transcript string, m mood.Mood) (*insight.Insight, bool) {
	in := insight.Classify(transcript)

	if p.store == nil || transcript == "" {
		return in, false
	}

	content := fmt.Sprintf("Call Summary (%s): %s", m, utils.Truncate(transcript, summaryMaxChars))
	if compact := in.Compact(); compact != "" {
		content += "\n" + compact
	}

	tags := append([]string{"call", m.String(), "processed"}, in.Categories()...)

	persisted := p.store.Write(ctx, userID, content, tags, map[string]any{
		"call_id":   callID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"sentiment": string(in.Sentiment),
	})
	if !persisted {
		p.logger.Warn("call memory not persisted", "user_id", userID, "call_id", callID)
	}

	return in, persisted
}

// StoreMetadata persists the call's operational record through the
// configured sink. Independent of Process: either write may succeed while
// the other fails.
func (p *Processor) StoreMetadata(ctx context.Context, m metadata.CallMetadata) bool {
	if p.sink == nil {
		return false
	}
	if err := p.sink.Store(ctx, m); err != nil {
		p.logger.Warn("call metadata not persisted",
			"user_id", m.UserID,
			"call_id", m.CallID,
			"err", err,
		)
		return false
	}
	return true
}
