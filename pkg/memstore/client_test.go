package memstore_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/recallhq/recall/pkg/memstore"
)

func TestMemstore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Memstore Suite")
}

func newTestClient(serverURL string) *memstore.Client {
	client, err := memstore.NewClient(memstore.Config{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Timeout: time.Second,
	})
	Expect(err).NotTo(HaveOccurred())
	return client
}

var _ = Describe("NewClient", func() {
	It("requires a base URL", func() {
		_, err := memstore.NewClient(memstore.Config{})
		Expect(err).To(MatchError(memstore.ErrNoBaseURL))
	})
})

var _ = Describe("Fetch", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("requests the user's memories with tag filters and bearer auth", func() {
		var gotPath, gotAuth string
		var gotQuery map[string][]string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			gotQuery = r.URL.Query()
			json.NewEncoder(w).Encode(map[string]any{
				"memories": []map[string]any{
					{"user_id": "u1", "content": "run a 5k", "tags": []string{"goal"}},
				},
			})
		}))
		defer srv.Close()

		records := newTestClient(srv.URL).Fetch(ctx, "u1", []string{"supportive", "recent"}, 5)

		Expect(gotPath).To(Equal("/v1/memories"))
		Expect(gotAuth).To(Equal("Bearer test-key"))
		Expect(gotQuery["user_id"]).To(Equal([]string{"u1"}))
		Expect(gotQuery["limit"]).To(Equal([]string{"5"}))
		Expect(gotQuery["tags"]).To(Equal([]string{"supportive", "recent"}))

		Expect(records).To(HaveLen(1))
		Expect(records[0].Content).To(Equal("run a 5k"))
		Expect(records[0].Category()).To(Equal(memstore.CategoryGoal))
	})

	It("accepts a bare list response", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode([]map[string]any{
				{"user_id": "u1", "content": "i promise to call mom", "tags": []string{"promise"}},
			})
		}))
		defer srv.Close()

		records := newTestClient(srv.URL).Fetch(ctx, "u1", nil, 0)
		Expect(records).To(HaveLen(1))
		Expect(records[0].Category()).To(Equal(memstore.CategoryPromise))
	})

	It("returns empty on non-OK status", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		Expect(newTestClient(srv.URL).Fetch(ctx, "u1", nil, 3)).To(BeEmpty())
	})

	It("returns empty on malformed payload", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"unexpected": true}`))
		}))
		defer srv.Close()

		Expect(newTestClient(srv.URL).Fetch(ctx, "u1", nil, 3)).To(BeEmpty())
	})

	It("returns empty when the service is unreachable", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close() // shut down before use

		Expect(newTestClient(srv.URL).Fetch(ctx, "u1", nil, 3)).To(BeEmpty())
	})
})

var _ = Describe("Write", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("posts the record and reports success on 201", func() {
		var gotBody map[string]any

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		ok := newTestClient(srv.URL).Write(ctx, "u1", "Call Summary: good chat",
			[]string{"call", "supportive", "processed"},
			map[string]any{"call_id": "c-42"})

		Expect(ok).To(BeTrue())
		Expect(gotBody["user_id"]).To(Equal("u1"))
		Expect(gotBody["content"]).To(Equal("Call Summary: good chat"))
		Expect(gotBody["tags"]).To(ContainElement("processed"))
	})

	It("returns false on non-success status", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		Expect(newTestClient(srv.URL).Write(ctx, "u1", "content", nil, nil)).To(BeFalse())
	})

	It("returns false when the service is unreachable", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		Expect(newTestClient(srv.URL).Write(ctx, "u1", "content", nil, nil)).To(BeFalse())
	})

	It("refuses empty content without touching the network", func() {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))
		defer srv.Close()

		Expect(newTestClient(srv.URL).Write(ctx, "u1", "", nil, nil)).To(BeFalse())
		Expect(called).To(BeFalse())
	})
})

var _ = Describe("Record", func() {
	It("derives its category from tags", func() {
		Expect(memstore.Record{Tags: []string{"call", "blocker"}}.Category()).To(Equal(memstore.CategoryBlocker))
		Expect(memstore.Record{Tags: []string{"call", "processed"}}.Category()).To(Equal(memstore.CategorySummary))
		Expect(memstore.Record{}.Category()).To(Equal(memstore.CategorySummary))
	})

	It("exposes the source call id from metadata", func() {
		r := memstore.Record{Metadata: map[string]any{"call_id": "c-1"}}
		Expect(r.SourceCallID()).To(Equal("c-1"))
		Expect(memstore.Record{}.SourceCallID()).To(BeEmpty())
	})
})
