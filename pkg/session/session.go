// Package session tracks one live call: its identity, its mood, the prompts
// handed to the voice pipeline, and the append-only transcript.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/recallhq/recall/pkg/briefing"
	"github.com/recallhq/recall/pkg/mood"
)

// basePrompt is the generated system prompt used when the call backend did
// not supply one. The personality lines are filled per mood.
const basePrompt = `You are Recall, a supportive AI accountability assistant.

Personality & Tone:
- %s
- %s

Core Behaviors:
1. Ask clarifying questions to understand the user's situation
2. Acknowledge their emotions and experiences
3. Provide actionable, specific advice
4. Remember and reference previous commitments
5. Celebrate progress, no matter how small
6. Challenge gently when appropriate (for accountability mood)
7. Keep responses concise (1-3 sentences typically)

Call Guidelines:
- Listen more than you talk
- Ask follow-up questions
- Be genuine and authentic
- If unsure, ask clarifying questions
- Reference past promises when relevant
- End with actionable next steps when appropriate`

// PromptSourceBackend and PromptSourceGenerated name where a session's
// system prompt came from.
const (
	PromptSourceBackend   = "backend"
	PromptSourceGenerated = "generated"
)

// Turn is one utterance in a call.
type Turn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Params configures a new session. Backend-supplied prompts, when present,
// take precedence over the generated ones.
type Params struct {
	UserID string

	// CallID identifies the call. Generated when empty.
	CallID string

	Mood     mood.Mood
	Briefing *briefing.Briefing

	// BackendSystemPrompt and BackendFirstMessage come from the call
	// backend's session metadata and override prompt generation.
	BackendSystemPrompt string
	BackendFirstMessage string
}

// Session is the in-memory state of one active call. All methods are safe
// for concurrent use; sessions for different calls share nothing.
type Session struct {
	userID    string
	callID    string
	mood      mood.Mood
	briefing  *briefing.Briefing
	startedAt time.Time

	backendSystemPrompt string
	backendFirstMessage string

	mu         sync.Mutex
	transcript []Turn
}

// New creates a session for one call.
func New(p Params) *Session {
	callID := p.CallID
	if callID == "" {
		callID = uuid.NewString()
	}
	b := p.Briefing
	if b == nil {
		b = &briefing.Briefing{}
	}
	return &Session{
		userID:              p.UserID,
		callID:              callID,
		mood:                p.Mood,
		briefing:            b,
		startedAt:           time.Now(),
		backendSystemPrompt: strings.TrimSpace(p.BackendSystemPrompt),
		backendFirstMessage: strings.TrimSpace(p.BackendFirstMessage),
	}
}

func (s *Session) UserID() string       { return s.userID }
func (s *Session) CallID() string       { return s.callID }
func (s *Session) Mood() mood.Mood      { return s.mood }
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Briefing returns the pre-call context assembled for this session.
func (s *Session) Briefing() *briefing.Briefing { return s.briefing }

// PromptSource reports whether the system prompt is backend-supplied or
// generated.
func (s *Session) PromptSource() string {
	if s.backendSystemPrompt != "" {
		return PromptSourceBackend
	}
	return PromptSourceGenerated
}

// SystemPrompt composes the system prompt for the call. A backend prompt is
// used as-is, enhanced with the memory context block; otherwise the prompt
// is generated from the mood's personality. The context block is appended
// only when the briefing surfaces something.
func (s *Session) SystemPrompt() string {
	prompt := s.backendSystemPrompt
	if prompt == "" {
		p := s.mood.Personality()
		prompt = fmt.Sprintf(basePrompt, p.Tone, p.Approach)
	}
	if block := s.briefing.ContextBlock(); block != "" {
		prompt += "\n\n" + block
	}
	return prompt
}

// Opening returns the assistant's first line: the backend-supplied first
// message when present, otherwise the mood's scripted opener.
func (s *Session) Opening() string {
	if s.backendFirstMessage != "" {
		return s.backendFirstMessage
	}
	return s.mood.Opening()
}

// RecordTurn appends one utterance to the transcript. The speaker label is
// required; the text may be empty (a silence marker is still a turn).
func (s *Session) RecordTurn(speaker, text string) error {
	if strings.TrimSpace(speaker) == "" {
		return ErrNoSpeaker
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, Turn{Speaker: speaker, Text: text})
	return nil
}

// Turns returns a copy of the transcript so far.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Transcript renders the transcript as "{speaker}: {text}" lines joined by
// newlines. This exact shape is what the post-call classifier consumes, so
// the renderer and the classifier agree on line boundaries.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]string, len(s.transcript))
	for i, t := range s.transcript {
		lines[i] = t.Speaker + ": " + t.Text
	}
	return strings.Join(lines, "\n")
}

// Duration reports how long the session has been open.
func (s *Session) Duration() time.Duration {
	return time.Since(s.startedAt)
}
