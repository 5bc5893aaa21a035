package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/recallhq/recall/pkg/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

// StartCallResponse is returned when a call session is created.
type StartCallResponse struct {
	CallID       string `json:"call_id"`
	SystemPrompt string `json:"system_prompt"`
	Opening      string `json:"opening"`

	// Source reports whether the prompt came from the backend or was
	// generated here.
	Source string `json:"source"`
}

// TurnRequest is one transcript turn from the voice pipeline.
type TurnRequest struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// EndCallRequest carries optional completion details from the voice
// pipeline.
type EndCallRequest struct {
	CompletionStatus string  `json:"completion_status"`
	DurationSeconds  float64 `json:"duration_seconds"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleStartCall creates a session from raw room metadata. Metadata parse
// failures still produce a defaulted session; a call with no
// personalization is better than no call.
func (s *Server) handleStartCall(c *fiber.Ctx) error {
	meta := ParseRoomMetadata(c.Body())

	b := s.assembler.Assemble(c.Context(), meta.MemoryUserID, meta.Mood, s.config.FetchLimit)

	sess := session.New(session.Params{
		UserID:              meta.MemoryUserID,
		CallID:              meta.CallID,
		Mood:                meta.Mood,
		Briefing:            b,
		BackendSystemPrompt: meta.SystemPrompt,
		BackendFirstMessage: meta.FirstMessage,
	})

	s.mu.Lock()
	if _, exists := s.sessions[sess.CallID()]; exists {
		s.mu.Unlock()
		return c.Status(fiber.StatusConflict).JSON(errorResponse{Error: "call already active"})
	}
	s.sessions[sess.CallID()] = sess
	s.mu.Unlock()

	s.logger.Info("call started",
		"call_id", sess.CallID(),
		"user_id", sess.UserID(),
		"mood", sess.Mood().String(),
		"prompt_source", sess.PromptSource(),
	)

	return c.JSON(StartCallResponse{
		CallID:       sess.CallID(),
		SystemPrompt: sess.SystemPrompt(),
		Opening:      sess.Opening(),
		Source:       sess.PromptSource(),
	})
}

// handleRecordTurn appends one turn to an active call's transcript.
func (s *Server) handleRecordTurn(c *fiber.Ctx) error {
	sess, ok := s.lookup(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "unknown call"})
	}

	var req TurnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "malformed turn"})
	}

	if err := sess.RecordTurn(req.Speaker, req.Text); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// handleEndCall removes the session and queues post-call processing. The
// response returns immediately; extraction and persistence run on pool
// workers. If the queue is full the job runs synchronously instead, so a
// finished transcript is never dropped.
func (s *Server) handleEndCall(c *fiber.Ctx) error {
	sess, ok := s.remove(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "unknown call"})
	}

	var req EndCallRequest
	// Body is optional; parse failures fall back to defaults.
	_ = c.BodyParser(&req)

	status := req.CompletionStatus
	if status == "" {
		status = "completed"
	}

	job := jobFor(sess, status)
	if req.DurationSeconds > 0 {
		job.EndedAt = sess.StartedAt().Add(time.Duration(req.DurationSeconds * float64(time.Second)))
	}

	if !s.pool.Enqueue(job) {
		s.pool.Run(c.Context(), job)
	}

	s.logger.Info("call ended", "call_id", sess.CallID(), "status", status)

	return c.JSON(fiber.Map{"queued": true})
}

// handleTranscript returns the rendered transcript so far. Diagnostics
// only; the voice pipeline never reads this.
func (s *Server) handleTranscript(c *fiber.Ctx) error {
	sess, ok := s.lookup(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "unknown call"})
	}

	return c.JSON(fiber.Map{
		"call_id":    sess.CallID(),
		"transcript": sess.Transcript(),
		"turns":      sess.Turns(),
	})
}
