package eventstream

import "context"

// Publisher publishes call events to an event stream backend.
type Publisher interface {
	PublishCallProcessed(ctx context.Context, event *CallProcessedEvent) error
	Close() error
}
