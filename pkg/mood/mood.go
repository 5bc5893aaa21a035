// Package mood defines the conversational stances a call can take.
//
// A mood selects the assistant's tone, its scripted opener, and the tag set
// used when filtering stored memories. Mood values arrive from external
// session metadata as free-form strings, so every lookup keyed by mood has
// one designated default arm: unrecognized values behave exactly like
// Supportive rather than failing.
package mood

import "strings"

// Mood is a closed enumeration of conversational stances.
type Mood int

const (
	// Supportive is the default stance: empathetic and encouraging.
	Supportive Mood = iota

	// Accountability gently challenges the user about prior commitments.
	Accountability

	// Celebration acknowledges wins and asks about next goals.
	Celebration
)

// Default is the stance substituted for any unrecognized mood string.
const Default = Supportive

// Parse maps a metadata string to a Mood. Unknown values, including the
// empty string, map to Default. An unknown mood is a modeled case, not an
// error.
func Parse(s string) Mood {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "supportive":
		return Supportive
	case "accountability":
		return Accountability
	case "celebration":
		return Celebration
	default:
		return Default
	}
}

// String returns the canonical lowercase name, used both for logging and as
// the memory tag for this mood.
func (m Mood) String() string {
	switch m {
	case Accountability:
		return "accountability"
	case Celebration:
		return "celebration"
	default:
		return "supportive"
	}
}

// Personality holds the prompt-building strings for one mood.
type Personality struct {
	// Tone describes how the assistant should sound.
	Tone string

	// Approach describes how the assistant should steer the conversation.
	Approach string
}

var personalities = map[Mood]Personality{
	Supportive: {
		Tone:     "empathetic, kind, and encouraging",
		Approach: "Ask clarifying questions and provide emotional support",
	},
	Accountability: {
		Tone:     "direct, kind but firm, focused on action",
		Approach: "Gently challenge, ask about progress on commitments",
	},
	Celebration: {
		Tone:     "enthusiastic, warm, celebratory",
		Approach: "Acknowledge progress, ask about next goals",
	},
}

var openings = map[Mood]string{
	Supportive:     "Hi there! I'm so glad we can talk today. How are you doing?",
	Accountability: "Hey! Let's catch up on how things have been going with your goals.",
	Celebration:    "I have a feeling today's going to be good. How have you been?",
}

// Personality returns the prompt-building strings for this mood, falling
// back to the Default entry for any value outside the table.
func (m Mood) Personality() Personality {
	if p, ok := personalities[m]; ok {
		return p
	}
	return personalities[Default]
}

// Opening returns the scripted opener for this mood, falling back to the
// Default entry for any value outside the table.
func (m Mood) Opening() string {
	if o, ok := openings[m]; ok {
		return o
	}
	return openings[Default]
}

// Tags returns the tag filter used when fetching memories for a call in
// this mood. The "recent" tag asks the store to bias toward fresh records.
func (m Mood) Tags() []string {
	return []string{m.String(), "recent"}
}
