// Package insight mines finished call transcripts for durable facts.
//
// Classification is a coarse keyword heuristic: good enough to seed the
// memory store, cheap enough to run synchronously after every call. The
// contract is deliberately narrow (text in, Insight out) so a model-based
// classifier can replace the keyword scan without touching any caller.
package insight

import "strings"

// Sentiment is the coarse overall tone of a call.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Insight is the structured result of mining one transcript. Lines are
// verbatim transcript lines; a line that matches several keyword sets
// appears in several lists.
type Insight struct {
	Promises  []string  `json:"promises"`
	Goals     []string  `json:"goals"`
	Blockers  []string  `json:"blockers"`
	Progress  []string  `json:"progress"`
	Sentiment Sentiment `json:"sentiment"`
}

var (
	promiseKeywords  = []string{"i promise", "i will", "i commit", "i'll", "i'm going to"}
	goalKeywords     = []string{"goal", "want to", "plan to", "aim for", "target"}
	blockerKeywords  = []string{"struggle", "challenge", "problem", "issue", "difficult", "can't"}
	progressKeywords = []string{"progress", "improved", "better", "achieved", "completed", "finished"}

	positiveWords = []string{"good", "great", "excellent", "happy", "positive"}
	negativeWords = []string{"bad", "sad", "worried", "anxious", "frustrated"}
)

// Classify scans a rendered transcript and returns its Insight. It is a
// pure function: empty input yields empty category lists and a neutral
// sentiment, never an error.
func Classify(transcript string) *Insight {
	result := &Insight{
		Sentiment: analyzeSentiment(transcript),
	}

	for _, raw := range strings.Split(transcript, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		// Each category is scanned independently: a line carrying both a
		// promise keyword and a goal keyword lands in both lists.
		if containsAny(lower, promiseKeywords) {
			result.Promises = append(result.Promises, line)
		}
		if containsAny(lower, goalKeywords) {
			result.Goals = append(result.Goals, line)
		}
		if containsAny(lower, blockerKeywords) {
			result.Blockers = append(result.Blockers, line)
		}
		if containsAny(lower, progressKeywords) {
			result.Progress = append(result.Progress, line)
		}
	}

	return result
}

// Categories returns the names of the non-empty category lists, in the
// fixed promise/goal/blocker/progress order. These become tags on the
// memory record written after the call.
func (in *Insight) Categories() []string {
	var cats []string
	if len(in.Promises) > 0 {
		cats = append(cats, "promise")
	}
	if len(in.Goals) > 0 {
		cats = append(cats, "goal")
	}
	if len(in.Blockers) > 0 {
		cats = append(cats, "blocker")
	}
	if len(in.Progress) > 0 {
		cats = append(cats, "progress")
	}
	return cats
}

// Compact renders the non-empty categories as a single pipe-separated
// line, e.g. "Promises: a, b | Goals: c". Empty categories are omitted;
// an insight with no matches renders as "".
func (in *Insight) Compact() string {
	var sections []string
	if len(in.Promises) > 0 {
		sections = append(sections, "Promises: "+strings.Join(in.Promises, ", "))
	}
	if len(in.Goals) > 0 {
		sections = append(sections, "Goals: "+strings.Join(in.Goals, ", "))
	}
	if len(in.Blockers) > 0 {
		sections = append(sections, "Blockers: "+strings.Join(in.Blockers, ", "))
	}
	if len(in.Progress) > 0 {
		sections = append(sections, "Progress: "+strings.Join(in.Progress, ", "))
	}
	return strings.Join(sections, " | ")
}

// analyzeSentiment counts which of the fixed positive and negative word
// lists appear in the text. Substring matching is intentional ("sad"
// inside "sadness" counts); ties are neutral.
func analyzeSentiment(text string) Sentiment {
	lower := strings.ToLower(text)

	var positive, negative int
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func containsAny(line string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}
