package api

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/recallhq/recall/pkg/briefing"
	"github.com/recallhq/recall/pkg/logger"
	"github.com/recallhq/recall/pkg/postcall"
	"github.com/recallhq/recall/pkg/session"
)

// Server is the lifecycle API server. It owns the registry of active
// sessions; everything else (briefing assembly, post-call processing) is
// injected so instances stay shareable.
type Server struct {
	config    Config
	assembler *briefing.Assembler
	pool      *postcall.Pool
	logger    *slog.Logger
	app       *fiber.App

	mu       sync.Mutex
	sessions map[string]*session.Session
}

// NewServer creates a new lifecycle API server.
func NewServer(config Config, assembler *briefing.Assembler, pool *postcall.Pool, log *slog.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:    config,
		assembler: assembler,
		pool:      pool,
		logger:    log,
		app:       app,
		sessions:  make(map[string]*session.Session),
	}

	app.Get("/ping", s.handlePing)
	app.Post("/calls", s.handleStartCall)
	app.Post("/calls/:id/turns", s.handleRecordTurn)
	app.Post("/calls/:id/end", s.handleEndCall)
	app.Get("/calls/:id/transcript", s.handleTranscript)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting lifecycle API server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown stops the HTTP server and drains every still-open session into
// the post-call pipeline, so interrupted calls persist whatever transcript
// was captured.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.Shutdown()

	s.mu.Lock()
	remaining := make([]*session.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		remaining = append(remaining, sess)
	}
	s.sessions = make(map[string]*session.Session)
	s.mu.Unlock()

	for _, sess := range remaining {
		s.logger.Warn("draining interrupted call", "call_id", sess.CallID())
		s.pool.Run(ctx, jobFor(sess, "interrupted"))
	}

	return err
}

// ActiveCalls reports how many sessions are currently open.
func (s *Server) ActiveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) lookup(callID string) (*session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[callID]
	return sess, ok
}

func (s *Server) remove(callID string) (*session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[callID]
	if ok {
		delete(s.sessions, callID)
	}
	return sess, ok
}

func jobFor(sess *session.Session, status string) postcall.Job {
	return postcall.Job{
		UserID:           sess.UserID(),
		CallID:           sess.CallID(),
		Transcript:       sess.Transcript(),
		Mood:             sess.Mood(),
		StartedAt:        sess.StartedAt(),
		CompletionStatus: status,
	}
}
