package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dantweb/vbwd-sdk/common/id"
	"github.com/dantweb/vbwd-sdk/common/logger"
	"github.com/dantweb/vbwd-sdk/internal/domain"
	"github.com/dantweb/vbwd-sdk/internal/events"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/store"
)

type CheckoutRequest struct {
	UserID       int64
	TariffPlanID int64
	Provider     string
	// Currency defaults to the plan's currency.
	Currency  string
	ReturnURL string
	CancelURL string
}

type CheckoutResult struct {
	Subscription    *model.Subscription
	Invoice         *model.Invoice
	PaymentIntentID string
	ClientSecret    string
	CheckoutURL     string
}

// RenewalRequest bills the next period of an active subscription.
type RenewalRequest struct {
	SubscriptionID int64
	Provider       string
	// Currency defaults to the plan's currency.
	Currency  string
	ReturnURL string
	CancelURL string
}

type CheckoutService interface {
	// Checkout opens a pending subscription and invoice for the plan and asks
	// the provider for a payment intent through checkout.initiated. Provider
	// failures come back as *ProviderError and leave the invoice failed.
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
	// Renew invoices the next period of an active subscription, reusing a
	// renewal invoice that is still pending. The period is added once the
	// payment is captured.
	Renew(ctx context.Context, req RenewalRequest) (*CheckoutResult, error)
}

type checkoutService struct {
	plans      store.TariffPlanStore
	subs       store.SubscriptionStore
	txRunner   TxRunner
	invoices   InvoiceService
	currencies CurrencyService
	emitter    events.Emitter
	logger     *slog.Logger
}

func NewCheckoutService(
	plans store.TariffPlanStore,
	subs store.SubscriptionStore,
	txRunner TxRunner,
	invoices InvoiceService,
	currencies CurrencyService,
	emitter events.Emitter,
	logger *slog.Logger,
) CheckoutService {
	if logger == nil {
		logger = slog.Default()
	}
	return &checkoutService{
		plans:      plans,
		subs:       subs,
		txRunner:   txRunner,
		invoices:   invoices,
		currencies: currencies,
		emitter:    emitter,
		logger:     logger,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:   logger.Ptr(req.UserID),
		Provider: logger.Ptr(req.Provider),
	})

	plan, err := activePlan(ctx, s.plans, req.TariffPlanID)
	if err != nil {
		return nil, err
	}

	amount, currency, err := s.price(ctx, plan, req.Currency)
	if err != nil {
		return nil, err
	}

	sub := &model.Subscription{
		ID:           id.New(),
		UserID:       req.UserID,
		TariffPlanID: plan.ID,
		Status:       model.SubscriptionStatusPending,
	}
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		return stores.Subscriptions().Save(ctx, sub, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("creating checkout: saving subscription: %w", err)
	}

	inv, err := s.invoices.CreateForSubscription(ctx, sub, amount, currency)
	if err != nil {
		// Drop the subscription so no pending one is left without an invoice.
		derr := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
			return stores.Subscriptions().Delete(ctx, sub.ID)
		})
		if derr != nil {
			s.logger.ErrorContext(subscriptionContext(ctx, sub), "failed to drop subscription without invoice", "error", derr)
		}
		return nil, fmt.Errorf("creating checkout: %w", err)
	}

	ctx = invoiceContext(ctx, inv)
	s.logger.InfoContext(ctx, "checkout created",
		"invoice_number", inv.InvoiceNumber,
		"amount", inv.Amount.String(),
		"currency", inv.Currency)

	if res := s.emitter.Dispatch(ctx, domain.NewSubscriptionCreated(sub)); !res.Success && res.ErrorType != events.ErrorTypeNoHandler {
		s.logger.WarnContext(ctx, "subscription.created handlers failed", "error", res.Error)
	}

	return s.initiate(ctx, sub, inv, req.Provider, req.ReturnURL, req.CancelURL)
}

func (s *checkoutService) Renew(ctx context.Context, req RenewalRequest) (*CheckoutResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SubscriptionID: logger.Ptr(req.SubscriptionID),
		Provider:       logger.Ptr(req.Provider),
	})

	sub, err := s.subs.GetByID(ctx, req.SubscriptionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("getting subscription: %w", err)
	}
	if sub.Status != model.SubscriptionStatusActive {
		return nil, fmt.Errorf("%w: only active subscriptions renew, %d is %s",
			model.ErrInvalidTransition, sub.ID, sub.Status)
	}
	ctx = subscriptionContext(ctx, sub)

	plan, err := activePlan(ctx, s.plans, sub.TariffPlanID)
	if err != nil {
		return nil, err
	}
	amount, currency, err := s.price(ctx, plan, req.Currency)
	if err != nil {
		return nil, err
	}

	inv, err := s.invoices.CreateForSubscription(ctx, sub, amount, currency)
	if err != nil {
		return nil, fmt.Errorf("creating renewal: %w", err)
	}

	ctx = invoiceContext(ctx, inv)
	s.logger.InfoContext(ctx, "renewal invoiced",
		"invoice_number", inv.InvoiceNumber,
		"amount", inv.Amount.String(),
		"currency", inv.Currency,
		"expires_at", sub.ExpiresAt)

	return s.initiate(ctx, sub, inv, req.Provider, req.ReturnURL, req.CancelURL)
}

// initiate asks the provider for a payment intent on inv and records it.
func (s *checkoutService) initiate(ctx context.Context, sub *model.Subscription, inv *model.Invoice, provider, returnURL, cancelURL string) (*CheckoutResult, error) {
	res := s.emitter.Dispatch(ctx, domain.NewCheckoutInitiated(domain.CheckoutParams{
		UserID:         sub.UserID,
		TariffPlanID:   sub.TariffPlanID,
		SubscriptionID: sub.ID,
		InvoiceID:      inv.ID,
		Provider:       provider,
		Amount:         inv.Amount,
		Currency:       inv.Currency,
		ReturnURL:      returnURL,
		CancelURL:      cancelURL,
	}))
	if !res.Success {
		s.logger.WarnContext(ctx, "checkout rejected by provider", "error", res.Error, "error_type", res.ErrorType)
		if _, err := s.invoices.MarkFailedBySubscription(ctx, sub.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to mark invoice failed", "error", err)
		}
		return nil, &ProviderError{Op: "checkout", Message: res.Error}
	}

	data := firstData(res)
	result := &CheckoutResult{
		Subscription:    sub,
		Invoice:         inv,
		PaymentIntentID: stringField(data, "payment_intent_id"),
		ClientSecret:    stringField(data, "client_secret"),
		CheckoutURL:     stringField(data, "checkout_url"),
	}

	if result.PaymentIntentID != "" {
		updated, err := s.invoices.AttachPaymentRef(ctx, inv.ID, result.PaymentIntentID, provider)
		if err != nil {
			return nil, fmt.Errorf("attaching payment intent: %w", err)
		}
		result.Invoice = updated
	}

	return result, nil
}

// price resolves the amount to charge in the requested currency.
func (s *checkoutService) price(ctx context.Context, plan *model.TariffPlan, currency string) (decimal.Decimal, string, error) {
	currency = strings.ToUpper(currency)
	if currency == "" || currency == plan.Currency {
		return plan.Price, plan.Currency, nil
	}
	if s.currencies == nil {
		return decimal.Zero, "", fmt.Errorf("%w: %s", ErrCurrencyNotFound, currency)
	}
	amount, err := s.currencies.Convert(ctx, plan.Price, plan.Currency, currency)
	if err != nil {
		if errors.Is(err, ErrCurrencyNotFound) {
			return decimal.Zero, "", err
		}
		return decimal.Zero, "", fmt.Errorf("converting price: %w", err)
	}
	return amount, currency, nil
}

// firstData returns the first object-shaped handler payload of a combined
// dispatch result.
func firstData(res events.Result) map[string]any {
	switch data := res.Data.(type) {
	case map[string]any:
		return data
	case []any:
		for _, d := range data {
			if m, ok := d.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
