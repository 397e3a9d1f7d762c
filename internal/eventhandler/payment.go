package eventhandler

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/dantweb/vbwd-sdk/common/logger"
	"github.com/dantweb/vbwd-sdk/internal/domain"
	"github.com/dantweb/vbwd-sdk/internal/events"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/notify"
	"github.com/dantweb/vbwd-sdk/internal/sdk"
	"github.com/dantweb/vbwd-sdk/internal/service"
)

const defaultCurrency = "USD"

// CheckoutInitiatedHandler creates the payment intent with the event's provider.
type CheckoutInitiatedHandler struct {
	events.BaseHandler
	adapters AdapterResolver
	logger   *slog.Logger
}

func NewCheckoutInitiatedHandler(adapters AdapterResolver, logger *slog.Logger) *CheckoutInitiatedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckoutInitiatedHandler{adapters: adapters, logger: logger}
}

func (h *CheckoutInitiatedHandler) EventName() string { return domain.EventCheckoutInitiated }

func (h *CheckoutInitiatedHandler) CanHandle(e events.Event) bool {
	return is[*domain.CheckoutInitiated](e)
}

func (h *CheckoutInitiatedHandler) Handle(ctx context.Context, e events.Event) events.Result {
	ev, ok := e.(*domain.CheckoutInitiated)
	if !ok {
		return invalidEvent()
	}

	adapter, err := h.adapters.Get(ev.Provider)
	if err != nil {
		return events.Failure(err.Error(), "")
	}

	currency := ev.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	// One intent per invoice, however often the checkout is re-emitted.
	var key string
	if ev.InvoiceID != 0 {
		key = sdk.GenerateKey(ev.Provider, "create_payment_intent", ev.InvoiceID)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Provider:       logger.Ptr(ev.Provider),
		UserID:         logger.Ptr(ev.UserID),
		IdempotencyKey: logger.Ptr(key),
	})

	resp, err := adapter.CreatePaymentIntent(ctx, ev.Amount, currency, map[string]string{
		"user_id":         strconv.FormatInt(ev.UserID, 10),
		"tariff_plan_id":  strconv.FormatInt(ev.TariffPlanID, 10),
		"subscription_id": strconv.FormatInt(ev.SubscriptionID, 10),
		"invoice_id":      strconv.FormatInt(ev.InvoiceID, 10),
	}, key)
	if err != nil {
		h.logger.ErrorContext(ctx, "create payment intent failed", "error", err)
		return events.Failure(err.Error(), "")
	}
	if !resp.Success {
		return events.Failure(resp.Error, "")
	}

	return events.Success(map[string]any{
		"payment_intent_id": resp.String("payment_intent_id"),
		"client_secret":     resp.String("client_secret"),
		"checkout_url":      resp.String("checkout_url"),
	})
}

// RefundRequestedHandler refunds a captured payment with its provider.
type RefundRequestedHandler struct {
	events.BaseHandler
	adapters AdapterResolver
	logger   *slog.Logger
}

func NewRefundRequestedHandler(adapters AdapterResolver, logger *slog.Logger) *RefundRequestedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefundRequestedHandler{adapters: adapters, logger: logger}
}

func (h *RefundRequestedHandler) EventName() string { return domain.EventRefundRequested }

func (h *RefundRequestedHandler) CanHandle(e events.Event) bool {
	return is[*domain.RefundRequested](e)
}

func (h *RefundRequestedHandler) Handle(ctx context.Context, e events.Event) events.Result {
	ev, ok := e.(*domain.RefundRequested)
	if !ok {
		return invalidEvent()
	}

	adapter, err := h.adapters.Get(ev.Provider)
	if err != nil {
		return events.Failure("Provider error: "+err.Error(), "")
	}

	amount := "full"
	if ev.Amount != nil {
		amount = ev.Amount.String()
	}
	// Equal partial refunds in sequence differ by what was refunded before.
	key := sdk.GenerateKey(ev.Provider, "refund_payment", ev.TransactionID, amount, ev.RefundedBefore.String())
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Provider:       logger.Ptr(ev.Provider),
		SubscriptionID: logger.Ptr(ev.SubscriptionID),
		IdempotencyKey: logger.Ptr(key),
	})

	resp, err := adapter.RefundPayment(ctx, ev.TransactionID, ev.Amount, key)
	if err != nil {
		h.logger.ErrorContext(ctx, "refund failed", "error", err)
		return events.Failure(err.Error(), "")
	}
	if !resp.Success {
		return events.Failure(resp.Error, "")
	}

	return events.Success(map[string]any{
		"refund_id": resp.String("refund_id"),
		"amount":    amount,
		"reason":    ev.Reason,
	})
}

// PaymentCapturedHandler activates the paid subscription, settles its
// invoice and tells the user.
type PaymentCapturedHandler struct {
	events.BaseHandler
	tracker
	deps Deps
}

func NewPaymentCapturedHandler(deps Deps) *PaymentCapturedHandler {
	return &PaymentCapturedHandler{deps: deps.withDefaults()}
}

func (h *PaymentCapturedHandler) EventName() string { return domain.EventPaymentCaptured }

func (h *PaymentCapturedHandler) CanHandle(e events.Event) bool {
	return is[*domain.PaymentCaptured](e)
}

func (h *PaymentCapturedHandler) Handle(ctx context.Context, e events.Event) events.Result {
	ev, ok := e.(*domain.PaymentCaptured)
	if !ok {
		return invalidEvent()
	}
	h.track(ev)

	subID, userID := ev.SubscriptionID, ev.UserID
	if subID == 0 && h.deps.Invoices != nil && ev.TransactionID != "" {
		if inv, err := h.deps.Invoices.GetByPaymentRef(ctx, ev.TransactionID); err == nil && inv.SubscriptionID != nil {
			subID = *inv.SubscriptionID
			if userID == 0 {
				userID = inv.UserID
			}
		}
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Provider:       logger.Ptr(ev.Provider),
		SubscriptionID: logger.Ptr(subID),
		UserID:         logger.Ptr(userID),
	})

	activated, renewing, renewed := false, false, false
	if h.deps.Subscriptions != nil && subID != 0 {
		sub, err := h.deps.Subscriptions.Activate(ctx, subID)
		switch {
		case err == nil:
			activated = true
			if userID == 0 {
				userID = sub.UserID
			}
		case errors.Is(err, model.ErrInvalidTransition):
			// Already active: this capture pays a renewal invoice.
			h.deps.Logger.InfoContext(ctx, "subscription already past pending, not re-activating")
			renewing = true
		default:
			return events.Failure(err.Error(), "")
		}
	}

	if h.deps.Invoices != nil && subID != 0 {
		_, settled, err := h.deps.Invoices.MarkPaidBySubscription(ctx, subID, ev.TransactionID, ev.Provider)
		switch {
		case err == nil:
			if renewing && settled {
				if renewed, err = h.renew(ctx, subID); err != nil {
					return events.Failure(err.Error(), "")
				}
			}
		case errors.Is(err, service.ErrInvoiceNotFound), errors.Is(err, model.ErrInvalidTransition):
			h.deps.Logger.WarnContext(ctx, "no open invoice for captured payment", "error", err)
		default:
			return events.Failure(err.Error(), "")
		}
	}

	if userID != 0 {
		h.deps.Notifier.Publish(background(ctx), userID, notify.EventPaymentSucceeded, map[string]any{
			"subscription_id": strconv.FormatInt(subID, 10),
			"transaction_id":  ev.TransactionID,
			"amount":          ev.Amount.String(),
			"currency":        ev.Currency,
		})
	}

	return events.Success(map[string]any{
		"subscription_id": strconv.FormatInt(subID, 10),
		"transaction_id":  ev.TransactionID,
		"activated":       activated,
		"renewed":         renewed,
		"handled":         true,
	})
}

// renew extends an active subscription by one period. Subscriptions that
// stopped being active meanwhile are left alone.
func (h *PaymentCapturedHandler) renew(ctx context.Context, subID int64) (bool, error) {
	sub, err := h.deps.Subscriptions.Renew(ctx, subID)
	switch {
	case err == nil:
		h.deps.Logger.InfoContext(ctx, "subscription renewed by payment", "expires_at", sub.ExpiresAt)
		return true, nil
	case errors.Is(err, model.ErrInvalidTransition):
		h.deps.Logger.WarnContext(ctx, "renewal paid for inactive subscription", "error", err)
		return false, nil
	default:
		return false, err
	}
}

// PaymentFailedHandler fails the open invoice and tells the user.
type PaymentFailedHandler struct {
	events.BaseHandler
	tracker
	deps Deps
}

func NewPaymentFailedHandler(deps Deps) *PaymentFailedHandler {
	return &PaymentFailedHandler{deps: deps.withDefaults()}
}

func (h *PaymentFailedHandler) EventName() string { return domain.EventPaymentFailed }

func (h *PaymentFailedHandler) CanHandle(e events.Event) bool {
	return is[*domain.PaymentFailed](e)
}

func (h *PaymentFailedHandler) Handle(ctx context.Context, e events.Event) events.Result {
	ev, ok := e.(*domain.PaymentFailed)
	if !ok {
		return invalidEvent()
	}
	h.track(ev)

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Provider:       logger.Ptr(ev.Provider),
		SubscriptionID: logger.Ptr(ev.SubscriptionID),
		UserID:         logger.Ptr(ev.UserID),
	})

	if h.deps.Invoices != nil && ev.SubscriptionID != 0 {
		_, err := h.deps.Invoices.MarkFailedBySubscription(ctx, ev.SubscriptionID)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrInvoiceNotFound), errors.Is(err, model.ErrInvalidTransition):
			h.deps.Logger.WarnContext(ctx, "no open invoice for failed payment", "error", err)
		default:
			return events.Failure(err.Error(), "")
		}
	}

	notified := false
	if ev.UserID != 0 {
		h.deps.Notifier.Publish(background(ctx), ev.UserID, notify.EventPaymentFailed, map[string]any{
			"subscription_id": strconv.FormatInt(ev.SubscriptionID, 10),
			"error_code":      ev.ErrorCode,
			"error_message":   ev.ErrorMessage,
		})
		notified = true
	}

	return events.Success(map[string]any{
		"subscription_id": strconv.FormatInt(ev.SubscriptionID, 10),
		"error_code":      ev.ErrorCode,
		"notified":        notified,
	})
}
