package api

import (
	"encoding/json"

	"github.com/recallhq/recall/pkg/mood"
)

// Room metadata defaults. The voice backend is not always able to supply
// every field, so each one has a defined fallback.
const (
	defaultUserID  = "unknown"
	defaultCallID  = "unknown"
	defaultVoiceID = "default"
)

// RoomMetadata is the parsed per-call metadata supplied by the voice
// backend when a call starts. Both snake_case and camelCase field variants
// are accepted, matching what different backend versions emit.
type RoomMetadata struct {
	UserID  string
	CallID  string
	Mood    mood.Mood
	VoiceID string

	// MemoryUserID is the id used against the memory service. Falls back
	// to UserID when the backend does not distinguish the two.
	MemoryUserID string

	// SystemPrompt and FirstMessage are backend-generated prompts that
	// take precedence over the session's own prompt composition.
	SystemPrompt string
	FirstMessage string
}

type rawRoomMetadata struct {
	UserID       string `json:"user_id"`
	UserIDCamel  string `json:"userId"`
	CallID       string `json:"call_id"`
	CallIDCamel  string `json:"callId"`
	Mood         string `json:"mood"`
	VoiceID      string `json:"voice_id"`
	VoiceIDCamel string `json:"voiceId"`

	MemoryUserID      string `json:"memory_user_id"`
	MemoryUserIDCamel string `json:"memoryUserId"`

	Prompts struct {
		SystemPrompt      string `json:"system_prompt"`
		SystemPromptCamel string `json:"systemPrompt"`
		FirstMessage      string `json:"first_message"`
		FirstMessageCamel string `json:"firstMessage"`
	} `json:"prompts"`
}

// ParseRoomMetadata decodes raw room metadata. It never fails: malformed
// JSON yields a fully-defaulted RoomMetadata, since a call with no
// personalization is still a call worth taking.
func ParseRoomMetadata(data []byte) RoomMetadata {
	var raw rawRoomMetadata
	if len(data) > 0 {
		// Decode errors leave raw zeroed; defaults apply below.
		_ = json.Unmarshal(data, &raw)
	}

	m := RoomMetadata{
		UserID:       firstOf(raw.UserID, raw.UserIDCamel, defaultUserID),
		CallID:       firstOf(raw.CallID, raw.CallIDCamel, defaultCallID),
		Mood:         mood.Parse(raw.Mood),
		VoiceID:      firstOf(raw.VoiceID, raw.VoiceIDCamel, defaultVoiceID),
		SystemPrompt: firstOf(raw.Prompts.SystemPrompt, raw.Prompts.SystemPromptCamel),
		FirstMessage: firstOf(raw.Prompts.FirstMessage, raw.Prompts.FirstMessageCamel),
	}
	m.MemoryUserID = firstOf(raw.MemoryUserID, raw.MemoryUserIDCamel, m.UserID)
	return m
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
