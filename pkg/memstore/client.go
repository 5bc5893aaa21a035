// Package memstore is the typed client for the remote memory service, the
// semantic store holding durable per-user facts.
//
// Both operations are best-effort by contract: a call must never stall
// because the memory service is slow or down. Fetch collapses every failure
// mode (transport error, non-2xx status, malformed payload) into an empty
// result, Write into a false return. Failures surface to operators through
// warn-level logs only.
package memstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/recallhq/recall/pkg/logger"
)

const (
	// DefaultTimeout bounds every request to the memory service. Recall is
	// on the pre-call path and persistence on the post-call path; neither
	// may block a voice call, so the cap stays in the low hundreds of
	// milliseconds.
	DefaultTimeout = 300 * time.Millisecond

	// DefaultFetchLimit is the number of memories requested when the
	// caller does not say otherwise.
	DefaultFetchLimit = 10

	memoriesPath = "/v1/memories"
)

// Config holds settings for the memory service client.
type Config struct {
	// BaseURL is the memory service origin, e.g. "https://api.supermemory.ai".
	BaseURL string

	// APIKey is sent as a bearer token. Empty means unauthenticated.
	APIKey string

	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Logger receives warn-level failure signals. Defaults to a nop logger.
	Logger *slog.Logger
}

// Client talks to the remote memory service. It keeps no per-call state, so
// one instance is safely shared across concurrent calls.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a memory service client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}, nil
}

// fetchResponse is the envelope shape of the memory service's list endpoint.
// The service may also return a bare JSON array; Fetch handles both.
type fetchResponse struct {
	Memories []Record `json:"memories"`
}

// writeRequest is the body of the memory service's create endpoint.
type writeRequest struct {
	UserID   string         `json:"user_id"`
	Content  string         `json:"content"`
	Tags     []string       `json:"tags"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Fetch retrieves up to limit memories for the user, filtered by the given
// tags. It never returns an error: any failure yields an empty slice, since
// losing personalization is acceptable but stalling the call is not.
func (c *Client) Fetch(ctx context.Context, userID string, tags []string, limit int) []Record {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}

	q := url.Values{}
	q.Set("user_id", userID)
	q.Set("limit", strconv.Itoa(limit))
	for _, tag := range tags {
		q.Add("tags", tag)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+memoriesPath+"?"+q.Encode(), nil)
	if err != nil {
		c.logger.Warn("building memory fetch request", "user_id", userID, "err", err)
		return nil
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("memory fetch failed", "user_id", userID, "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("memory fetch returned non-OK status",
			"user_id", userID,
			"status", resp.StatusCode,
		)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("reading memory fetch response", "user_id", userID, "err", err)
		return nil
	}

	records, err := decodeMemories(body)
	if err != nil {
		c.logger.Warn("decoding memory fetch response", "user_id", userID, "err", err)
		return nil
	}

	c.logger.Debug("fetched memories", "user_id", userID, "count", len(records))
	return records
}

// Write persists one memory record. It returns false on any failure; the
// cause is logged but never propagated, so callers treat persistence as a
// boolean outcome.
func (c *Client) Write(ctx context.Context, userID, content string, tags []string, metadata map[string]any) bool {
	if content == "" {
		c.logger.Warn("refusing to write empty memory content", "user_id", userID)
		return false
	}

	payload, err := json.Marshal(writeRequest{
		UserID:   userID,
		Content:  content,
		Tags:     tags,
		Metadata: metadata,
	})
	if err != nil {
		c.logger.Warn("marshaling memory write request", "user_id", userID, "err", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+memoriesPath, bytes.NewReader(payload))
	if err != nil {
		c.logger.Warn("building memory write request", "user_id", userID, "err", err)
		return false
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("memory write failed", "user_id", userID, "err", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Warn("memory write returned non-success status",
			"user_id", userID,
			"status", resp.StatusCode,
		)
		return false
	}

	c.logger.Debug("memory written", "user_id", userID, "tags", tags)
	return true
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// decodeMemories accepts either the {"memories": [...]} envelope or a bare
// JSON array of records.
func decodeMemories(body []byte) ([]Record, error) {
	var envelope fetchResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Memories != nil {
		return envelope.Memories, nil
	}

	var bare []Record
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return bare, nil
}
