// Package eventhandler holds the handlers that react to billing domain
// events: provider calls for checkout and refunds, and the state and
// notification side effects of payments and lifecycle changes.
package eventhandler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dantweb/vbwd-sdk/internal/events"
	"github.com/dantweb/vbwd-sdk/internal/notify"
	"github.com/dantweb/vbwd-sdk/internal/sdk"
	"github.com/dantweb/vbwd-sdk/internal/service"
)

// AdapterResolver resolves a provider name to its adapter.
type AdapterResolver interface {
	Get(provider string) (sdk.Adapter, error)
}

// Deps are the collaborators shared by the handlers. Subscriptions, Invoices
// and Notifier are optional; handlers skip the corresponding side effect
// when they are nil.
type Deps struct {
	Adapters      AdapterResolver
	Subscriptions service.SubscriptionService
	Invoices      service.InvoiceService
	Notifier      notify.Publisher
	Logger        *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Adapters == nil {
		d.Adapters = sdk.NewRegistry()
	}
	if d.Notifier == nil {
		d.Notifier = notify.Nop()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}

// Handlers is the full set built from one Deps.
type Handlers struct {
	CheckoutInitiated     *CheckoutInitiatedHandler
	RefundRequested       *RefundRequestedHandler
	PaymentCaptured       *PaymentCapturedHandler
	PaymentFailed         *PaymentFailedHandler
	SubscriptionActivated *SubscriptionActivatedHandler
	SubscriptionCancelled *SubscriptionCancelledHandler
	SubscriptionExpired   *SubscriptionExpiredHandler
	UserCreated           *UserCreatedHandler
	UserStatusUpdated     *UserStatusUpdatedHandler
	UserDeleted           *UserDeletedHandler
}

// Register builds every handler and registers it on the dispatcher.
func Register(d *events.Dispatcher, deps Deps) *Handlers {
	deps = deps.withDefaults()
	h := &Handlers{
		CheckoutInitiated:     NewCheckoutInitiatedHandler(deps.Adapters, deps.Logger),
		RefundRequested:       NewRefundRequestedHandler(deps.Adapters, deps.Logger),
		PaymentCaptured:       NewPaymentCapturedHandler(deps),
		PaymentFailed:         NewPaymentFailedHandler(deps),
		SubscriptionActivated: NewSubscriptionActivatedHandler(deps.Notifier),
		SubscriptionCancelled: NewSubscriptionCancelledHandler(deps.Notifier),
		SubscriptionExpired:   NewSubscriptionExpiredHandler(deps.Notifier),
		UserCreated:           &UserCreatedHandler{},
		UserStatusUpdated:     &UserStatusUpdatedHandler{},
		UserDeleted:           &UserDeletedHandler{},
	}

	for _, handler := range []events.Handler{
		h.CheckoutInitiated,
		h.RefundRequested,
		h.PaymentCaptured,
		h.PaymentFailed,
		h.SubscriptionActivated,
		h.SubscriptionCancelled,
		h.SubscriptionExpired,
		h.UserCreated,
		h.UserStatusUpdated,
		h.UserDeleted,
	} {
		d.Register(handler)
	}
	return h
}

// tracker keeps the events a handler accepted, newest last.
type tracker struct {
	mu      sync.Mutex
	handled []events.Event
}

func (t *tracker) track(e events.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handled = append(t.handled, e)
}

func (t *tracker) Handled() []events.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]events.Event, len(t.handled))
	copy(out, t.handled)
	return out
}

func is[E events.Event](e events.Event) bool {
	_, ok := e.(E)
	return ok
}

func invalidEvent() events.Result {
	return events.Failure("Invalid event type", "")
}

// background detaches side effects from the request deadline.
func background(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
