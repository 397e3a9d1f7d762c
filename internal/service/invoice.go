package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dantweb/vbwd-sdk/common/id"
	"github.com/dantweb/vbwd-sdk/common/logger"
	"github.com/dantweb/vbwd-sdk/internal/cache"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/store"
)

const (
	invoiceLockTTL  = 10 * time.Second
	invoiceLockWait = 2 * time.Second
	invoiceDueAfter = 72 * time.Hour
)

type InvoiceService interface {
	// CreateForSubscription issues a pending invoice for sub, or returns the
	// one already pending. Serialized per subscription across processes.
	CreateForSubscription(ctx context.Context, sub *model.Subscription, amount decimal.Decimal, currency string) (*model.Invoice, error)
	Get(ctx context.Context, id int64) (*model.Invoice, error)
	GetByPaymentRef(ctx context.Context, ref string) (*model.Invoice, error)
	ListBySubscription(ctx context.Context, subscriptionID int64) ([]model.Invoice, error)
	// AttachPaymentRef records the provider's payment intent on a pending invoice.
	AttachPaymentRef(ctx context.Context, invoiceID int64, ref, method string) (*model.Invoice, error)
	// MarkPaidBySubscription settles the newest open invoice of the
	// subscription and reports whether this call settled it. Repeating it
	// with the same ref is a no-op that reports false.
	MarkPaidBySubscription(ctx context.Context, subscriptionID int64, ref, method string) (*model.Invoice, bool, error)
	MarkFailedBySubscription(ctx context.Context, subscriptionID int64) (*model.Invoice, error)
	// RecordRefund adds amount to the invoice's refunded total. The invoice
	// turns refunded once the total reaches its amount.
	RecordRefund(ctx context.Context, invoiceID int64, amount decimal.Decimal) (*model.Invoice, error)
}

type invoiceService struct {
	invoices store.InvoiceStore
	locker   cache.Locker
	logger   *slog.Logger
	now      func() time.Time
}

func NewInvoiceService(invoices store.InvoiceStore, locker cache.Locker, logger *slog.Logger) InvoiceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &invoiceService{
		invoices: invoices,
		locker:   locker,
		logger:   logger,
		now:      time.Now,
	}
}

// newInvoice builds an unsaved pending invoice for sub.
func newInvoice(sub *model.Subscription, amount decimal.Decimal, currency string, now time.Time) *model.Invoice {
	subID := sub.ID
	expires := now.Add(invoiceDueAfter)
	return &model.Invoice{
		ID:             id.New(),
		UserID:         sub.UserID,
		TariffPlanID:   sub.TariffPlanID,
		SubscriptionID: &subID,
		InvoiceNumber:  model.GenerateInvoiceNumber(now),
		Amount:         amount,
		Currency:       currency,
		Status:         model.InvoiceStatusPending,
		InvoicedAt:     now,
		ExpiresAt:      &expires,
	}
}

func (s *invoiceService) CreateForSubscription(ctx context.Context, sub *model.Subscription, amount decimal.Decimal, currency string) (*model.Invoice, error) {
	ctx = subscriptionContext(ctx, sub)

	var inv *model.Invoice
	create := func(ctx context.Context) error {
		existing, err := s.invoices.ListBySubscription(ctx, sub.ID)
		if err != nil {
			return fmt.Errorf("listing invoices: %w", err)
		}
		now := s.now()
		for i := range existing {
			if existing[i].IsPayable(now) {
				inv = &existing[i]
				return nil
			}
		}

		inv = newInvoice(sub, amount, currency, now)
		if err := s.invoices.Save(ctx, inv, nil); err != nil {
			return fmt.Errorf("saving invoice: %w", err)
		}
		s.logger.InfoContext(ctx, "invoice created",
			"invoice_id", inv.ID,
			"invoice_number", inv.InvoiceNumber,
			"amount", inv.Amount.String(),
			"currency", inv.Currency)
		return nil
	}

	if s.locker == nil {
		if err := create(ctx); err != nil {
			return nil, err
		}
		return inv, nil
	}

	key := "invoice:" + strconv.FormatInt(sub.ID, 10)
	if err := cache.WithLock(ctx, s.locker, key, invoiceLockTTL, invoiceLockWait, create); err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}
	return inv, nil
}

func (s *invoiceService) Get(ctx context.Context, id int64) (*model.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	return inv, nil
}

func (s *invoiceService) GetByPaymentRef(ctx context.Context, ref string) (*model.Invoice, error) {
	inv, err := s.invoices.GetByPaymentRef(ctx, ref)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("getting invoice by payment ref: %w", err)
	}
	return inv, nil
}

func (s *invoiceService) ListBySubscription(ctx context.Context, subscriptionID int64) ([]model.Invoice, error) {
	invs, err := s.invoices.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return invs, nil
}

func (s *invoiceService) AttachPaymentRef(ctx context.Context, invoiceID int64, ref, method string) (*model.Invoice, error) {
	return s.mutate(ctx, func() (*model.Invoice, error) {
		return s.Get(ctx, invoiceID)
	}, func(inv *model.Invoice) (bool, error) {
		if inv.Status != model.InvoiceStatusPending {
			return false, fmt.Errorf("%w: invoice %s is %s", model.ErrInvalidTransition, inv.InvoiceNumber, inv.Status)
		}
		inv.PaymentRef = &ref
		inv.PaymentMethod = &method
		return true, nil
	})
}

func (s *invoiceService) MarkPaidBySubscription(ctx context.Context, subscriptionID int64, ref, method string) (*model.Invoice, bool, error) {
	settled := false
	inv, err := s.mutate(ctx, func() (*model.Invoice, error) {
		return s.openInvoice(ctx, subscriptionID, ref)
	}, func(inv *model.Invoice) (bool, error) {
		settled = false
		if inv.Status == model.InvoiceStatusPaid && inv.PaymentRef != nil && *inv.PaymentRef == ref {
			return false, nil
		}
		settled = true
		return true, inv.MarkPaid(ref, method, s.now())
	})
	if err != nil {
		return nil, false, err
	}
	if settled {
		s.logger.InfoContext(invoiceContext(ctx, inv), "invoice paid", "payment_ref", ref)
	}
	return inv, settled, nil
}

func (s *invoiceService) MarkFailedBySubscription(ctx context.Context, subscriptionID int64) (*model.Invoice, error) {
	inv, err := s.mutate(ctx, func() (*model.Invoice, error) {
		return s.openInvoice(ctx, subscriptionID, "")
	}, func(inv *model.Invoice) (bool, error) {
		if inv.Status == model.InvoiceStatusFailed {
			return false, nil
		}
		return true, inv.MarkFailed()
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(invoiceContext(ctx, inv), "invoice marked failed")
	return inv, nil
}

func (s *invoiceService) RecordRefund(ctx context.Context, invoiceID int64, amount decimal.Decimal) (*model.Invoice, error) {
	inv, err := s.mutate(ctx, func() (*model.Invoice, error) {
		return s.Get(ctx, invoiceID)
	}, func(inv *model.Invoice) (bool, error) {
		return true, inv.RecordRefund(amount)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(invoiceContext(ctx, inv), "invoice refund recorded",
		"amount", amount.String(),
		"refunded_amount", inv.RefundedAmount.String(),
		"status", inv.Status)
	return inv, nil
}

// openInvoice picks the invoice a payment outcome applies to: the one already
// carrying ref, else the newest pending or failed one.
func (s *invoiceService) openInvoice(ctx context.Context, subscriptionID int64, ref string) (*model.Invoice, error) {
	invs, err := s.invoices.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	if ref != "" {
		for i := range invs {
			if invs[i].PaymentRef != nil && *invs[i].PaymentRef == ref {
				return &invs[i], nil
			}
		}
	}
	for i := range invs {
		switch invs[i].Status {
		case model.InvoiceStatusPending, model.InvoiceStatusFailed:
			return &invs[i], nil
		}
	}
	return nil, ErrInvoiceNotFound
}

// mutate reloads via load, applies fn and saves when fn reports a change,
// retrying version conflicts.
func (s *invoiceService) mutate(ctx context.Context, load func() (*model.Invoice, error), fn func(*model.Invoice) (bool, error)) (*model.Invoice, error) {
	var inv *model.Invoice
	err := retryOnConflict(ctx, func() error {
		loaded, err := load()
		if err != nil {
			return err
		}
		changed, err := fn(loaded)
		if err != nil {
			return err
		}
		if changed {
			version := loaded.Version
			if err := s.invoices.Save(ctx, loaded, &version); err != nil {
				return err
			}
		}
		inv = loaded
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvoiceNotFound) || errors.Is(err, model.ErrInvalidTransition) ||
			errors.Is(err, model.ErrRefundExceedsBalance) {
			return nil, err
		}
		return nil, fmt.Errorf("updating invoice: %w", err)
	}
	return inv, nil
}

func invoiceContext(ctx context.Context, inv *model.Invoice) context.Context {
	fields := logger.LogFields{
		InvoiceID: logger.Ptr(inv.ID),
		UserID:    logger.Ptr(inv.UserID),
	}
	if inv.SubscriptionID != nil {
		fields.SubscriptionID = inv.SubscriptionID
	}
	return logger.WithLogFields(ctx, fields)
}
