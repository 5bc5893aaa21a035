package session_test

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/recallhq/recall/pkg/briefing"
	"github.com/recallhq/recall/pkg/insight"
	"github.com/recallhq/recall/pkg/mood"
	"github.com/recallhq/recall/pkg/session"
)

func TestSession(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Session Suite")
}

var _ = Describe("New", func() {
	It("generates a call id when none is supplied", func() {
		s := session.New(session.Params{UserID: "u1"})
		Expect(s.CallID()).NotTo(BeEmpty())
	})

	It("keeps a supplied call id", func() {
		s := session.New(session.Params{UserID: "u1", CallID: "c-7"})
		Expect(s.CallID()).To(Equal("c-7"))
	})
})

var _ = Describe("SystemPrompt", func() {
	It("generates a prompt from the mood's personality", func() {
		s := session.New(session.Params{UserID: "u1", Mood: mood.Accountability})

		prompt := s.SystemPrompt()
		Expect(s.PromptSource()).To(Equal(session.PromptSourceGenerated))
		Expect(prompt).To(ContainSubstring("direct, kind but firm"))
		Expect(prompt).NotTo(ContainSubstring("User Context"))
	})

	It("appends the context block when the briefing surfaces memories", func() {
		s := session.New(session.Params{
			UserID: "u1",
			Mood:   mood.Supportive,
			Briefing: &briefing.Briefing{
				Promises: []string{"call mom weekly"},
			},
		})

		prompt := s.SystemPrompt()
		Expect(prompt).To(ContainSubstring("Recent Promises:\n- call mom weekly"))
	})

	It("prefers a backend prompt but still enhances it with the briefing", func() {
		s := session.New(session.Params{
			UserID:              "u1",
			BackendSystemPrompt: "You are a custom assistant.",
			Briefing: &briefing.Briefing{
				Goals: []string{"run a 5k"},
			},
		})

		prompt := s.SystemPrompt()
		Expect(s.PromptSource()).To(Equal(session.PromptSourceBackend))
		Expect(prompt).To(HavePrefix("You are a custom assistant."))
		Expect(prompt).To(ContainSubstring("Current Goals:\n- run a 5k"))
		Expect(prompt).NotTo(ContainSubstring("Core Behaviors"))
	})
})

var _ = Describe("Opening", func() {
	It("uses the mood's scripted opener by default", func() {
		s := session.New(session.Params{UserID: "u1", Mood: mood.Celebration})
		Expect(s.Opening()).To(Equal(mood.Celebration.Opening()))
	})

	It("prefers a backend first message", func() {
		s := session.New(session.Params{
			UserID:              "u1",
			BackendFirstMessage: "Welcome back!",
		})
		Expect(s.Opening()).To(Equal("Welcome back!"))
	})

	It("is deterministic for unknown moods", func() {
		a := session.New(session.Params{UserID: "u1", Mood: mood.Parse("zen")})
		b := session.New(session.Params{UserID: "u1", Mood: mood.Parse("chaotic")})
		Expect(a.Opening()).To(Equal(b.Opening()))
		Expect(a.Opening()).To(Equal(mood.Default.Opening()))
	})
})

var _ = Describe("Transcript", func() {
	It("renders turns as speaker-prefixed lines in arrival order", func() {
		s := session.New(session.Params{UserID: "u1"})
		Expect(s.RecordTurn("assistant", "Hi there! How are you doing?")).To(Succeed())
		Expect(s.RecordTurn("user", "Doing well, thanks")).To(Succeed())

		Expect(s.Transcript()).To(Equal(
			"assistant: Hi there! How are you doing?\nuser: Doing well, thanks"))
		Expect(s.Turns()).To(HaveLen(2))
	})

	It("rejects turns without a speaker", func() {
		s := session.New(session.Params{UserID: "u1"})
		Expect(s.RecordTurn("  ", "hello")).To(MatchError(session.ErrNoSpeaker))
		Expect(s.Transcript()).To(BeEmpty())
	})

	It("renders an empty session as an empty string", func() {
		Expect(session.New(session.Params{UserID: "u1"}).Transcript()).To(BeEmpty())
	})

	It("produces lines the classifier splits back into the same turns", func() {
		s := session.New(session.Params{UserID: "u1"})
		Expect(s.RecordTurn("assistant", "How did the week go?")).To(Succeed())
		Expect(s.RecordTurn("user", "I promise to exercise daily")).To(Succeed())
		Expect(s.RecordTurn("user", "my goal is to run a 5k")).To(Succeed())

		rendered := s.Transcript()
		Expect(strings.Count(rendered, "\n")).To(Equal(2))

		result := insight.Classify(rendered)
		Expect(result.Promises).To(Equal([]string{"user: I promise to exercise daily"}))
		Expect(result.Goals).To(Equal([]string{"user: my goal is to run a 5k"}))
	})
})
