package eventhandler_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/dantweb/vbwd-sdk/internal/cache"
	"github.com/dantweb/vbwd-sdk/internal/domain"
	"github.com/dantweb/vbwd-sdk/internal/eventhandler"
	"github.com/dantweb/vbwd-sdk/internal/events"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/notify"
	"github.com/dantweb/vbwd-sdk/internal/sdk"
	"github.com/dantweb/vbwd-sdk/internal/service"
)

func resultMap(res events.Result) map[string]any {
	list, ok := res.Data.([]any)
	Expect(ok).To(BeTrue(), "combined result data should be a list")
	Expect(list).NotTo(BeEmpty())
	m, ok := list[0].(map[string]any)
	Expect(ok).To(BeTrue())
	return m
}

var _ = Describe("payment handlers", func() {
	var (
		ctx        context.Context
		dispatcher *events.Dispatcher
		registry   *sdk.Registry
		adapter    *sdk.MockAdapter
		subs       *mockSubscriptionService
		invoices   *mockInvoiceService
		recorder   *notify.Recorder
		handlers   *eventhandler.Handlers
	)

	BeforeEach(func() {
		ctx = context.Background()
		dispatcher = events.NewDispatcher()
		registry = sdk.NewRegistry()
		idem := sdk.NewIdempotencyService(cache.NewMemory(), time.Hour)
		adapter = sdk.NewMockAdapter(sdk.DefaultConfig("test"),
			sdk.WithIdempotencyService(idem),
			sdk.WithBackoffBase(time.Millisecond))
		registry.Register(sdk.MockProvider, adapter)
		subs = &mockSubscriptionService{}
		invoices = &mockInvoiceService{}
		recorder = notify.NewRecorder()

		handlers = eventhandler.Register(dispatcher, eventhandler.Deps{
			Adapters:      registry,
			Subscriptions: subs,
			Invoices:      invoices,
			Notifier:      recorder,
		})
	})

	It("registers one handler per event", func() {
		for _, name := range []string{
			domain.EventCheckoutInitiated, domain.EventRefundRequested,
			domain.EventPaymentCaptured, domain.EventPaymentFailed,
			domain.EventSubscriptionActivated, domain.EventSubscriptionCancelled,
			domain.EventSubscriptionExpired, domain.EventUserCreated,
			domain.EventUserStatusUpdated, domain.EventUserDeleted,
		} {
			Expect(dispatcher.Handlers(name)).To(HaveLen(1), name)
		}
	})

	Describe("checkout.initiated", func() {
		checkout := func(provider string, invoiceID int64) *domain.CheckoutInitiated {
			return domain.NewCheckoutInitiated(domain.CheckoutParams{
				UserID:         7,
				TariffPlanID:   10,
				SubscriptionID: 42,
				InvoiceID:      invoiceID,
				Provider:       provider,
				Amount:         decimal.RequireFromString("29.99"),
			})
		}

		It("creates a payment intent and returns its details", func() {
			res := dispatcher.Dispatch(ctx, checkout(sdk.MockProvider, 1))

			Expect(res.Success).To(BeTrue())
			data := resultMap(res)
			Expect(data["payment_intent_id"]).To(HavePrefix("pi_mock_"))
			Expect(data["client_secret"]).To(Equal(data["payment_intent_id"].(string) + "_secret"))
			Expect(data["checkout_url"]).To(HavePrefix("https://mock.payments.local/checkout/"))

			calls := adapter.Calls()
			Expect(calls).To(HaveLen(1))
			Expect(calls[0].Currency).To(Equal("USD"))
			Expect(calls[0].Metadata).To(HaveKeyWithValue("user_id", "7"))
			Expect(calls[0].IdempotencyKey).To(Equal(sdk.GenerateKey(sdk.MockProvider, "create_payment_intent", int64(1))))
		})

		It("returns the same intent when the checkout is re-emitted", func() {
			first := resultMap(dispatcher.Dispatch(ctx, checkout(sdk.MockProvider, 1)))
			second := resultMap(dispatcher.Dispatch(ctx, checkout(sdk.MockProvider, 1)))

			Expect(second["payment_intent_id"]).To(Equal(first["payment_intent_id"]))
			Expect(adapter.CallCount("create_payment_intent")).To(Equal(1))
		})

		It("converts an unknown provider into an error result", func() {
			res := dispatcher.Dispatch(ctx, checkout("stripe", 1))

			Expect(res.Success).To(BeFalse())
			Expect(res.Error).To(Equal("Unknown provider: stripe"))
			Expect(res.ErrorType).To(Equal(events.ErrorTypeHandler))
		})

		It("passes the adapter's failure message through", func() {
			adapter.SetShouldFail(true)
			res := dispatcher.Dispatch(ctx, checkout(sdk.MockProvider, 1))

			Expect(res.Success).To(BeFalse())
			Expect(res.Error).To(Equal("Mock payment failed"))
		})
	})

	Describe("refund.requested", func() {
		var intentID string

		BeforeEach(func() {
			resp, err := adapter.CreatePaymentIntent(ctx, decimal.RequireFromString("29.99"), "USD", nil, "")
			Expect(err).NotTo(HaveOccurred())
			intentID = resp.String("payment_intent_id")
			_, err = adapter.CapturePayment(ctx, intentID, "")
			Expect(err).NotTo(HaveOccurred())
		})

		It("refunds in full", func() {
			res := dispatcher.Dispatch(ctx, domain.NewRefundRequested(intentID, 42, "requested_by_customer", sdk.MockProvider, nil))

			Expect(res.Success).To(BeTrue())
			data := resultMap(res)
			Expect(data["refund_id"]).To(HavePrefix("re_mock_"))
			Expect(data["amount"]).To(Equal("full"))
			Expect(data["reason"]).To(Equal("requested_by_customer"))
		})

		It("reports a partial amount", func() {
			part := decimal.RequireFromString("10.50")
			res := dispatcher.Dispatch(ctx, domain.NewRefundRequested(intentID, 42, "", sdk.MockProvider, &part))

			Expect(res.Success).To(BeTrue())
			Expect(resultMap(res)["amount"]).To(Equal("10.5"))
		})

		It("keys equal partial refunds apart by what was refunded before", func() {
			part := decimal.RequireFromString("10")
			first := dispatcher.Dispatch(ctx, domain.NewRefundRequested(intentID, 42, "", sdk.MockProvider, &part))
			second := dispatcher.Dispatch(ctx, domain.NewRefundRequested(intentID, 42, "", sdk.MockProvider, &part).
				AfterRefunds(part))

			Expect(first.Success).To(BeTrue())
			Expect(second.Success).To(BeTrue())
			Expect(resultMap(second)["refund_id"]).NotTo(Equal(resultMap(first)["refund_id"]))

			var keys []string
			for _, c := range adapter.Calls() {
				if c.Method == "refund_payment" {
					keys = append(keys, c.IdempotencyKey)
				}
			}
			Expect(keys).To(HaveLen(2))
			Expect(keys[0]).NotTo(Equal(keys[1]))
		})

		It("prefixes provider lookup failures", func() {
			res := dispatcher.Dispatch(ctx, domain.NewRefundRequested(intentID, 42, "", "paypal", nil))

			Expect(res.Success).To(BeFalse())
			Expect(res.Error).To(Equal("Provider error: Unknown provider: paypal"))
		})

		It("fails for an unknown intent", func() {
			res := dispatcher.Dispatch(ctx, domain.NewRefundRequested("pi_missing", 42, "", sdk.MockProvider, nil))

			Expect(res.Success).To(BeFalse())
			Expect(res.Error).To(Equal("Payment intent not found"))
		})
	})

	Describe("payment.captured", func() {
		captured := func(subID, userID int64) *domain.PaymentCaptured {
			return domain.NewPaymentCaptured(subID, userID, "pi_mock_1", decimal.RequireFromString("29.99"), "USD", sdk.MockProvider)
		}

		It("activates, settles the invoice and notifies", func() {
			res := dispatcher.Dispatch(ctx, captured(42, 7))

			Expect(res.Success).To(BeTrue())
			data := resultMap(res)
			Expect(data).To(HaveKeyWithValue("subscription_id", "42"))
			Expect(data).To(HaveKeyWithValue("transaction_id", "pi_mock_1"))
			Expect(data).To(HaveKeyWithValue("activated", true))

			Expect(subs.activateIDs).To(Equal([]int64{42}))
			Expect(invoices.paidCalls).To(Equal([]int64{42}))
			Expect(recorder.Messages()).To(HaveLen(1))
			Expect(recorder.Messages()[0].Event).To(Equal(notify.EventPaymentSucceeded))
			Expect(handlers.PaymentCaptured.Handled()).To(HaveLen(1))
		})

		It("finds the subscription from the invoice when the event lacks it", func() {
			subID := int64(99)
			invoices.getByPaymentRefFn = func(_ context.Context, ref string) (*model.Invoice, error) {
				Expect(ref).To(Equal("pi_mock_1"))
				return &model.Invoice{SubscriptionID: &subID, UserID: 8}, nil
			}

			res := dispatcher.Dispatch(ctx, captured(0, 0))

			Expect(res.Success).To(BeTrue())
			Expect(resultMap(res)).To(HaveKeyWithValue("subscription_id", "99"))
			Expect(subs.activateIDs).To(Equal([]int64{99}))
			Expect(recorder.Messages()[0].UserID).To(Equal(int64(8)))
		})

		It("renews an already active subscription when its invoice settles", func() {
			subs.activateFn = func(context.Context, int64) (*model.Subscription, error) {
				return nil, model.ErrInvalidTransition
			}

			res := dispatcher.Dispatch(ctx, captured(42, 7))

			Expect(res.Success).To(BeTrue())
			Expect(resultMap(res)).To(HaveKeyWithValue("activated", false))
			Expect(resultMap(res)).To(HaveKeyWithValue("renewed", true))
			Expect(invoices.paidCalls).To(HaveLen(1))
			Expect(subs.renewIDs).To(Equal([]int64{42}))
		})

		It("does not renew again for a repeated capture", func() {
			subs.activateFn = func(context.Context, int64) (*model.Subscription, error) {
				return nil, model.ErrInvalidTransition
			}
			invoices.markPaidFn = func(context.Context, int64, string, string) (*model.Invoice, bool, error) {
				return &model.Invoice{Status: model.InvoiceStatusPaid}, false, nil
			}

			res := dispatcher.Dispatch(ctx, captured(42, 7))

			Expect(res.Success).To(BeTrue())
			Expect(resultMap(res)).To(HaveKeyWithValue("renewed", false))
			Expect(subs.renewIDs).To(BeEmpty())
		})

		It("leaves a subscription cancelled before the renewal was paid", func() {
			subs.activateFn = func(context.Context, int64) (*model.Subscription, error) {
				return nil, model.ErrInvalidTransition
			}
			subs.renewFn = func(context.Context, int64) (*model.Subscription, error) {
				return nil, model.ErrInvalidTransition
			}

			res := dispatcher.Dispatch(ctx, captured(42, 7))
			Expect(res.Success).To(BeTrue())
			Expect(resultMap(res)).To(HaveKeyWithValue("renewed", false))
		})

		It("never renews a freshly activated subscription", func() {
			res := dispatcher.Dispatch(ctx, captured(42, 7))

			Expect(resultMap(res)).To(HaveKeyWithValue("activated", true))
			Expect(subs.renewIDs).To(BeEmpty())
		})

		It("fails when activation fails for another reason", func() {
			subs.activateFn = func(context.Context, int64) (*model.Subscription, error) {
				return nil, errors.New("db down")
			}

			res := dispatcher.Dispatch(ctx, captured(42, 7))

			Expect(res.Success).To(BeFalse())
			Expect(res.Error).To(ContainSubstring("db down"))
			Expect(invoices.paidCalls).To(BeEmpty())
		})

		It("tolerates a missing invoice", func() {
			invoices.markPaidFn = func(context.Context, int64, string, string) (*model.Invoice, bool, error) {
				return nil, false, service.ErrInvoiceNotFound
			}
			Expect(dispatcher.Dispatch(ctx, captured(42, 7)).Success).To(BeTrue())
		})

		It("reports activated=false without a subscription service", func() {
			d := events.NewDispatcher()
			eventhandler.Register(d, eventhandler.Deps{Adapters: registry})

			res := d.Dispatch(ctx, captured(42, 7))
			Expect(res.Success).To(BeTrue())
			Expect(resultMap(res)).To(HaveKeyWithValue("activated", false))
		})
	})

	Describe("payment.failed", func() {
		It("fails the invoice and notifies the user", func() {
			res := dispatcher.Dispatch(ctx, domain.NewPaymentFailed(42, 7, "card_declined", "Card declined", sdk.MockProvider))

			Expect(res.Success).To(BeTrue())
			data := resultMap(res)
			Expect(data).To(HaveKeyWithValue("subscription_id", "42"))
			Expect(data).To(HaveKeyWithValue("error_code", "card_declined"))
			Expect(data).To(HaveKeyWithValue("notified", true))
			Expect(invoices.failedCalls).To(Equal([]int64{42}))
			Expect(recorder.Messages()[0].Payload).To(HaveKeyWithValue("error_message", "Card declined"))
		})

		It("does not notify without a user", func() {
			res := dispatcher.Dispatch(ctx, domain.NewPaymentFailed(42, 0, "x", "", sdk.MockProvider))

			Expect(resultMap(res)).To(HaveKeyWithValue("notified", false))
			Expect(recorder.Messages()).To(BeEmpty())
		})
	})
})
