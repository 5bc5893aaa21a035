package webhook_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/recallhq/recall/pkg/metadata"
	"github.com/recallhq/recall/pkg/metadata/webhook"
)

func TestWebhook(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Webhook Metadata Suite")
}

var _ = Describe("Sink", func() {
	It("POSTs the record as JSON", func() {
		var got metadata.CallMetadata

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))
			Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		m := metadata.CallMetadata{
			UserID:           "u1",
			CallID:           "c-1",
			Timestamp:        time.Now().UTC(),
			DurationSeconds:  42.5,
			Mood:             "supportive",
			CompletionStatus: "completed",
			TranscriptChars:  128,
		}

		Expect(webhook.NewSink(srv.URL).Store(context.Background(), m)).To(Succeed())
		Expect(got.CallID).To(Equal("c-1"))
		Expect(got.DurationSeconds).To(Equal(42.5))
	})

	It("errors on a non-2xx response", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		err := webhook.NewSink(srv.URL).Store(context.Background(), metadata.CallMetadata{CallID: "c-1"})
		Expect(err).To(MatchError(ContainSubstring("status 500")))
	})

	It("errors when the endpoint is unreachable", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		err := webhook.NewSink(srv.URL).Store(context.Background(), metadata.CallMetadata{CallID: "c-1"})
		Expect(err).To(HaveOccurred())
	})
})
