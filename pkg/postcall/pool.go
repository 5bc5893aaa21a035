package postcall

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/recallhq/recall/pkg/eventstream"
	"github.com/recallhq/recall/pkg/logger"
	"github.com/recallhq/recall/pkg/metadata"
	"github.com/recallhq/recall/pkg/mood"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 64
)

// Job is one finished call awaiting processing.
type Job struct {
	UserID     string
	CallID     string
	Transcript string
	Mood       mood.Mood

	StartedAt        time.Time
	EndedAt          time.Time
	CompletionStatus string
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Processor runs extraction and persistence for each job.
	Processor *Processor

	// Events receives a CallProcessedEvent per job. Optional.
	Events eventstream.Publisher

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel.
	QueueSize uint

	Logger *slog.Logger
}

// Pool processes finished calls asynchronously. It decouples post-call
// persistence from the lifecycle API's hot path: ending a call returns
// immediately while extraction and writes happen on pool workers.
type Pool struct {
	processor *Processor
	events    eventstream.Publisher
	queue     chan Job
	wg        sync.WaitGroup
	logger    *slog.Logger
}

// NewPool creates a pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Processor == nil {
		return nil, ErrNoProcessor
	}
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}
	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}
	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	log := c.Logger
	if log == nil {
		log = logger.Nop()
	}

	p := &Pool{
		processor: c.Processor,
		events:    c.Events,
		queue:     make(chan Job, c.QueueSize),
		logger:    log,
	}

	p.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go p.worker(i)
	}

	return p, nil
}

// Enqueue submits a job without blocking. Returns false when the queue is
// full; callers that must not lose transcripts can fall back to Run.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("post-call job queued", "user_id", job.UserID, "call_id", job.CallID)
		return true
	default:
		p.logger.Error("post-call queue full, job dropped", "user_id", job.UserID, "call_id", job.CallID)
		return false
	}
}

// Run processes one job synchronously on the caller's goroutine. It is the
// overflow path for Enqueue and the drain path for shutdown.
func (p *Pool) Run(ctx context.Context, job Job) {
	p.processJob(ctx, job)
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call during graceful shutdown after the API server has stopped accepting
// call-end requests.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("post-call worker started", "worker_id", id)

	for job := range p.queue {
		p.processJob(context.Background(), job)
	}

	p.logger.Debug("post-call worker stopped", "worker_id", id)
}

func (p *Pool) processJob(ctx context.Context, job Job) {
	in, persisted := p.processor.Process(ctx, job.UserID, job.CallID, job.Transcript, job.Mood)

	endedAt := job.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now()
	}
	var duration float64
	if !job.StartedAt.IsZero() {
		duration = endedAt.Sub(job.StartedAt).Seconds()
	}

	p.processor.StoreMetadata(ctx, metadata.CallMetadata{
		UserID:           job.UserID,
		CallID:           job.CallID,
		Timestamp:        endedAt.UTC(),
		DurationSeconds:  duration,
		Mood:             job.Mood.String(),
		CompletionStatus: job.CompletionStatus,
		TranscriptChars:  len(job.Transcript),
	})

	if p.events != nil {
		ev := eventstream.NewCallProcessedEvent(job.UserID, job.CallID, job.Mood.String(), in, persisted)
		if err := p.events.PublishCallProcessed(ctx, ev); err != nil {
			p.logger.Warn("publishing call event", "call_id", job.CallID, "err", err)
		}
	}

	p.logger.Info("call processed",
		"user_id", job.UserID,
		"call_id", job.CallID,
		"sentiment", in.Sentiment,
		"persisted", persisted,
	)
}
