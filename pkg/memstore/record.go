package memstore

import "time"

// Category classifies what kind of durable fact a memory record holds.
// The same vocabulary is used when tagging records at write time and when
// bucketing them at read time, so classification is symmetric across the
// store boundary.
type Category string

const (
	CategoryPromise  Category = "promise"
	CategoryGoal     Category = "goal"
	CategoryProgress Category = "progress"
	CategoryBlocker  Category = "blocker"
	CategorySummary  Category = "summary"
)

// Record is a single durable fact about a user, as returned by the remote
// memory service.
type Record struct {
	ID        string         `json:"id,omitempty"`
	UserID    string         `json:"user_id"`
	Content   string         `json:"content"`
	Tags      []string       `json:"tags,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Category derives the record's category from its tag set. The first
// category tag wins; records without one are summaries.
func (r Record) Category() Category {
	for _, tag := range r.Tags {
		switch Category(tag) {
		case CategoryPromise, CategoryGoal, CategoryProgress, CategoryBlocker:
			return Category(tag)
		}
	}
	return CategorySummary
}

// HasTag reports whether the record carries the given tag.
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SourceCallID returns the call this record was extracted from, if the
// writing side recorded one.
func (r Record) SourceCallID() string {
	if r.Metadata == nil {
		return ""
	}
	if id, ok := r.Metadata["call_id"].(string); ok {
		return id
	}
	return ""
}
