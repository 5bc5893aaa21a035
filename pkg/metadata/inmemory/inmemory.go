// Package inmemory provides an in-memory metadata sink, used in tests and
// as the default when no persistence backend is configured.
package inmemory

import (
	"context"
	"sync"

	"github.com/recallhq/recall/pkg/metadata"
)

// Sink stores call metadata in process memory.
type Sink struct {
	mu      sync.RWMutex
	records []metadata.CallMetadata
}

// NewSink creates an empty in-memory sink.
func NewSink() *Sink {
	return &Sink{}
}

// Store appends the record.
func (s *Sink) Store(_ context.Context, m metadata.CallMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, m)
	return nil
}

// Records returns a copy of everything stored so far.
func (s *Sink) Records() []metadata.CallMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]metadata.CallMetadata, len(s.records))
	copy(out, s.records)
	return out
}

// Close is a no-op.
func (s *Sink) Close() error {
	return nil
}
