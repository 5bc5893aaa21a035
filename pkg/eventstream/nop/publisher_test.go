package nop_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/recallhq/recall/pkg/eventstream"
	"github.com/recallhq/recall/pkg/eventstream/nop"
)

func TestNopPublisher(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Nop Publisher Suite")
}

var _ = Describe("Publisher", func() {
	It("accepts events without error", func() {
		p := nop.NewPublisher()
		defer p.Close()

		ev := eventstream.NewCallProcessedEvent("u1", "c-1", "supportive", nil, false)
		Expect(p.PublishCallProcessed(context.Background(), ev)).To(Succeed())
	})

	It("rejects a nil event", func() {
		p := nop.NewPublisher()
		Expect(p.PublishCallProcessed(context.Background(), nil)).
			To(MatchError(eventstream.ErrNilEvent))
	})
})
