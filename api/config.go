// Package api provides the HTTP lifecycle server the voice pipeline drives:
// call start, per-turn transcript events, and call end.
package api

// Config is the lifecycle API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// FetchLimit is the number of memories requested per briefing.
	FetchLimit int
}
