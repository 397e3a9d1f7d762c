package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dantweb/vbwd-sdk/internal/cache"
	"github.com/dantweb/vbwd-sdk/internal/domain"
	"github.com/dantweb/vbwd-sdk/internal/events"
	"github.com/dantweb/vbwd-sdk/internal/model"
)

const (
	refundLockTTL  = 30 * time.Second
	refundLockWait = 5 * time.Second
)

type RefundRequest struct {
	InvoiceID int64
	// Amount nil refunds whatever is left on the invoice.
	Amount *decimal.Decimal
	Reason string
}

type RefundResult struct {
	Invoice  *model.Invoice
	RefundID string
	Amount   string
}

type RefundService interface {
	// Refund returns money on a paid invoice. Refunds of one invoice are
	// serialized and their total never exceeds the invoice amount.
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
}

type refundService struct {
	invoices InvoiceService
	locker   cache.Locker
	emitter  events.Emitter
	logger   *slog.Logger
}

func NewRefundService(invoices InvoiceService, locker cache.Locker, emitter events.Emitter, logger *slog.Logger) RefundService {
	if logger == nil {
		logger = slog.Default()
	}
	return &refundService{invoices: invoices, locker: locker, emitter: emitter, logger: logger}
}

func (s *refundService) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	if s.locker == nil {
		return s.refund(ctx, req)
	}

	var result *RefundResult
	key := "refund:" + strconv.FormatInt(req.InvoiceID, 10)
	err := cache.WithLock(ctx, s.locker, key, refundLockTTL, refundLockWait, func(ctx context.Context) error {
		var err error
		result, err = s.refund(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *refundService) refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	inv, err := s.invoices.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	ctx = invoiceContext(ctx, inv)

	if inv.Status != model.InvoiceStatusPaid || inv.PaymentRef == nil || inv.PaymentMethod == nil {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrInvoiceNotRefundable, inv.InvoiceNumber, inv.Status)
	}

	remaining := inv.RefundableAmount()
	amount := remaining
	if req.Amount != nil {
		amount = *req.Amount
	}
	if !amount.IsPositive() || amount.GreaterThan(remaining) {
		return nil, fmt.Errorf("%w: amount %s outside (0, %s]", ErrInvalidRefundAmount, amount, remaining)
	}

	// Untouched invoices refunded whole go to the provider as a full refund.
	var providerAmount *decimal.Decimal
	if !inv.RefundedAmount.IsZero() || !amount.Equal(inv.Amount) {
		providerAmount = &amount
	}

	var subID int64
	if inv.SubscriptionID != nil {
		subID = *inv.SubscriptionID
	}

	ev := domain.NewRefundRequested(*inv.PaymentRef, subID, req.Reason, *inv.PaymentMethod, providerAmount).
		AfterRefunds(inv.RefundedAmount)
	res := s.emitter.Dispatch(ctx, ev)
	if !res.Success {
		s.logger.WarnContext(ctx, "refund rejected by provider", "error", res.Error)
		return nil, &ProviderError{Op: "refund", Message: res.Error}
	}

	data := firstData(res)
	result := &RefundResult{
		RefundID: stringField(data, "refund_id"),
		Amount:   amount.String(),
	}

	updated, err := s.invoices.RecordRefund(ctx, inv.ID, amount)
	if err != nil {
		s.logger.ErrorContext(ctx, "refund issued but not recorded",
			"refund_id", result.RefundID,
			"amount", result.Amount,
			"error", err)
		return nil, fmt.Errorf("recording refund %s: %w", result.RefundID, err)
	}
	result.Invoice = updated

	s.logger.InfoContext(ctx, "refund issued",
		"refund_id", result.RefundID,
		"amount", result.Amount,
		"refunded_amount", updated.RefundedAmount.String(),
		"full", updated.Status == model.InvoiceStatusRefunded)
	return result, nil
}
