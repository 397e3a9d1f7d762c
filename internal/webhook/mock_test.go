package webhook_test

import (
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dantweb/vbwd-sdk/internal/domain"
	"github.com/dantweb/vbwd-sdk/internal/events"
	"github.com/dantweb/vbwd-sdk/internal/webhook"
)

type recordingEmitter struct {
	events []events.Event
	result events.Result
}

func (r *recordingEmitter) Dispatch(_ context.Context, e events.Event) events.Result {
	r.events = append(r.events, e)
	return r.result
}

var _ = Describe("MockHandler", func() {
	var handler *webhook.MockHandler

	BeforeEach(func() {
		handler = webhook.NewMockHandler()
	})

	Describe("VerifySignature", func() {
		payload := []byte(`{"id":"evt_1"}`)

		It("accepts the fixed test signature", func() {
			Expect(handler.VerifySignature(payload, webhook.MockValidSignature, "")).To(BeTrue())
		})

		It("accepts a valid HMAC of the raw body", func() {
			sig := webhook.SignHMACSHA256(payload, "whsec")
			Expect(handler.VerifySignature(payload, sig, "whsec")).To(BeTrue())
			Expect(handler.VerifySignature(payload, "sha256="+sig, "whsec")).To(BeTrue())
		})

		It("rejects a signature over different bytes", func() {
			sig := webhook.SignHMACSHA256([]byte(`{"id": "evt_1"}`), "whsec")
			Expect(handler.VerifySignature(payload, sig, "whsec")).To(BeFalse())
			Expect(handler.VerifySignature(payload, "not-hex", "whsec")).To(BeFalse())
			Expect(handler.VerifySignature(payload, "", "whsec")).To(BeFalse())
		})
	})

	Describe("ParseEvent", func() {
		parse := func(raw string) (*webhook.NormalizedEvent, error) {
			var payload map[string]any
			Expect(json.Unmarshal([]byte(raw), &payload)).To(Succeed())
			return handler.ParseEvent(payload)
		}

		It("maps unknown types to unknown", func() {
			event, err := parse(`{"id":"evt_1","type":"charge.weird"}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(event.EventType).To(Equal(webhook.EventUnknown))
			Expect(event.Amount).To(BeNil())
		})

		It("defaults a missing id", func() {
			event, err := parse(`{"type":"refund.created"}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(event.EventID).To(Equal("evt_unknown"))
			Expect(event.EventType).To(Equal(webhook.EventRefundCreated))
		})

		It("reads subscription and user ids", func() {
			event, err := parse(`{"type":"payment.failed","data":{"subscription_id":"42","user_id":7,"error_code":"card_declined"}}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(*event.SubscriptionID).To(Equal(int64(42)))
			Expect(*event.UserID).To(Equal(int64(7)))
			Expect(event.Metadata["error_code"]).To(Equal("card_declined"))
		})

		It("rejects a non-object data field", func() {
			_, err := parse(`{"type":"payment.failed","data":"oops"}`)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Handle", func() {
		It("can be told to fail", func() {
			handler.SetShouldFail(true)
			result := handler.Handle(context.Background(), &webhook.NormalizedEvent{EventType: webhook.EventPaymentSucceeded})
			Expect(result.Success).To(BeFalse())
			Expect(result.Error).To(Equal("Mock handler configured to fail"))
			Expect(result.Status).To(Equal(webhook.StatusFailed))
			Expect(handler.Handled()).To(HaveLen(1))
		})

		It("re-raises a successful payment as payment.captured", func() {
			emitter := &recordingEmitter{result: events.Success(map[string]any{"activated": true})}
			handler = webhook.NewMockHandler(webhook.WithEmitter(emitter))

			sub := int64(42)
			result := handler.Handle(context.Background(), &webhook.NormalizedEvent{
				Provider:        "mock",
				EventID:         "evt_1",
				EventType:       webhook.EventPaymentSucceeded,
				PaymentIntentID: "pi_1",
				SubscriptionID:  &sub,
			})

			Expect(result.Success).To(BeTrue())
			Expect(result.Data["dispatched"]).To(Equal(domain.EventPaymentCaptured))
			Expect(emitter.events).To(HaveLen(1))

			captured, ok := emitter.events[0].(*domain.PaymentCaptured)
			Expect(ok).To(BeTrue())
			Expect(captured.SubscriptionID).To(Equal(int64(42)))
			Expect(captured.TransactionID).To(Equal("pi_1"))
		})

		It("surfaces a failed dispatch", func() {
			emitter := &recordingEmitter{result: events.Failure("subscription not found", "")}
			handler = webhook.NewMockHandler(webhook.WithEmitter(emitter))

			result := handler.Handle(context.Background(), &webhook.NormalizedEvent{EventType: webhook.EventPaymentFailed})
			Expect(result.Success).To(BeFalse())
			Expect(result.Error).To(Equal("subscription not found"))
		})

		It("tolerates no listeners", func() {
			emitter := &recordingEmitter{result: events.NoHandler()}
			handler = webhook.NewMockHandler(webhook.WithEmitter(emitter))

			result := handler.Handle(context.Background(), &webhook.NormalizedEvent{EventType: webhook.EventSubscriptionCancelled})
			Expect(result.Success).To(BeTrue())
		})

		It("does not dispatch types without a domain mapping", func() {
			emitter := &recordingEmitter{result: events.Success(nil)}
			handler = webhook.NewMockHandler(webhook.WithEmitter(emitter))

			result := handler.Handle(context.Background(), &webhook.NormalizedEvent{EventType: webhook.EventDisputeCreated})
			Expect(emitter.events).To(BeEmpty())
			Expect(result.Success).To(BeTrue())
			Expect(result.Status).To(Equal(webhook.StatusSkipped))
		})
	})
})
