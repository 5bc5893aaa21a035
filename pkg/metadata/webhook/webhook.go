// Package webhook provides a metadata sink that POSTs each record to an
// HTTP endpoint, for deployments that collect call records in an external
// system instead of a local database.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/recallhq/recall/pkg/metadata"
)

// DefaultTimeout bounds each delivery attempt.
const DefaultTimeout = 2 * time.Second

// Sink delivers call metadata over HTTP.
type Sink struct {
	url        string
	httpClient *http.Client
}

// NewSink creates a webhook sink targeting the given URL.
func NewSink(url string) *Sink {
	return &Sink{
		url: url,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Store POSTs the record as JSON. Any non-2xx response is an error; the
// caller decides whether delivery failures matter.
func (s *Sink) Store(ctx context.Context, m metadata.CallMetadata) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling call metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building metadata webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delivering call metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("metadata webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Close is a no-op.
func (s *Sink) Close() error {
	return nil
}
