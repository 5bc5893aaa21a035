package postcall_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/recallhq/recall/pkg/eventstream"
	"github.com/recallhq/recall/pkg/metadata/inmemory"
	"github.com/recallhq/recall/pkg/mood"
	"github.com/recallhq/recall/pkg/postcall"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*eventstream.CallProcessedEvent
}

func (r *recordingPublisher) PublishCallProcessed(_ context.Context, ev *eventstream.CallProcessedEvent) error {
	if ev == nil {
		return eventstream.ErrNilEvent
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) all() []*eventstream.CallProcessedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*eventstream.CallProcessedEvent(nil), r.events...)
}

var _ = Describe("Pool", func() {
	It("requires a processor", func() {
		_, err := postcall.NewPool(&postcall.Config{})
		Expect(err).To(MatchError(postcall.ErrNoProcessor))
	})

	It("processes enqueued jobs and emits events", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		sink := inmemory.NewSink()
		events := &recordingPublisher{}

		pool, err := postcall.NewPool(&postcall.Config{
			Processor:  postcall.NewProcessor(storeClient(srv.URL), sink, nil),
			Events:     events,
			NumWorkers: 1,
		})
		Expect(err).NotTo(HaveOccurred())

		started := time.Now().Add(-90 * time.Second)
		Expect(pool.Enqueue(postcall.Job{
			UserID:           "u1",
			CallID:           "c-1",
			Transcript:       "user: I promise to exercise daily",
			Mood:             mood.Accountability,
			StartedAt:        started,
			EndedAt:          started.Add(90 * time.Second),
			CompletionStatus: "completed",
		})).To(BeTrue())

		pool.Close() // drains the job

		records := sink.Records()
		Expect(records).To(HaveLen(1))
		Expect(records[0].CallID).To(Equal("c-1"))
		Expect(records[0].DurationSeconds).To(BeNumerically("~", 90, 1))
		Expect(records[0].CompletionStatus).To(Equal("completed"))
		Expect(records[0].TranscriptChars).To(Equal(len("user: I promise to exercise daily")))

		published := events.all()
		Expect(published).To(HaveLen(1))
		Expect(published[0].CallID).To(Equal("c-1"))
		Expect(published[0].Counts.Promises).To(Equal(1))
		Expect(published[0].Persisted).To(BeTrue())
	})

	It("runs jobs synchronously via Run", func() {
		sink := inmemory.NewSink()
		pool, err := postcall.NewPool(&postcall.Config{
			Processor: postcall.NewProcessor(nil, sink, nil),
		})
		Expect(err).NotTo(HaveOccurred())
		defer pool.Close()

		pool.Run(context.Background(), postcall.Job{
			UserID: "u1",
			CallID: "c-2",
			Mood:   mood.Supportive,
		})

		Expect(sink.Records()).To(HaveLen(1))
		Expect(sink.Records()[0].Mood).To(Equal("supportive"))
	})
})
