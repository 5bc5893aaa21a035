package inmemory_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/recallhq/recall/pkg/metadata"
	"github.com/recallhq/recall/pkg/metadata/inmemory"
)

func TestInmemory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Inmemory Metadata Suite")
}

var _ = Describe("Sink", func() {
	It("stores records in order", func() {
		sink := inmemory.NewSink()
		defer sink.Close()

		ctx := context.Background()
		Expect(sink.Store(ctx, metadata.CallMetadata{CallID: "c-1", Timestamp: time.Now()})).To(Succeed())
		Expect(sink.Store(ctx, metadata.CallMetadata{CallID: "c-2", Timestamp: time.Now()})).To(Succeed())

		records := sink.Records()
		Expect(records).To(HaveLen(2))
		Expect(records[0].CallID).To(Equal("c-1"))
		Expect(records[1].CallID).To(Equal("c-2"))
	})

	It("returns copies that do not alias internal state", func() {
		sink := inmemory.NewSink()
		Expect(sink.Store(context.Background(), metadata.CallMetadata{CallID: "c-1"})).To(Succeed())

		records := sink.Records()
		records[0].CallID = "mutated"
		Expect(sink.Records()[0].CallID).To(Equal("c-1"))
	})
})
