package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusFailed    InvoiceStatus = "failed"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
	InvoiceStatusRefunded  InvoiceStatus = "refunded"
)

type Invoice struct {
	ID             int64           `json:"id,string"`
	UserID         int64           `json:"user_id,string"`
	TariffPlanID   int64           `json:"tariff_plan_id,string"`
	SubscriptionID *int64          `json:"subscription_id,string,omitempty"`
	InvoiceNumber  string          `json:"invoice_number"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Status         InvoiceStatus   `json:"status"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	PaymentMethod  *string         `json:"payment_method,omitempty"`
	PaymentRef     *string         `json:"payment_ref,omitempty"`
	InvoicedAt     time.Time       `json:"invoiced_at"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// GenerateInvoiceNumber returns INV-<UTC yyyymmddHHMMSS>-<6 upper hex>.
func GenerateInvoiceNumber(now time.Time) string {
	unique := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("INV-%s-%s", now.UTC().Format("20060102150405"), strings.ToUpper(unique))
}

func (i *Invoice) IsPayable(now time.Time) bool {
	if i.Status != InvoiceStatusPending {
		return false
	}
	return i.ExpiresAt == nil || !i.ExpiresAt.Before(now)
}

func (i *Invoice) MarkPaid(paymentRef, paymentMethod string, now time.Time) error {
	if i.Status != InvoiceStatusPending && i.Status != InvoiceStatusFailed {
		return i.transitionError(InvoiceStatusPaid)
	}
	i.Status = InvoiceStatusPaid
	i.PaymentRef = &paymentRef
	i.PaymentMethod = &paymentMethod
	i.PaidAt = &now
	return nil
}

func (i *Invoice) MarkFailed() error {
	if i.Status != InvoiceStatusPending {
		return i.transitionError(InvoiceStatusFailed)
	}
	i.Status = InvoiceStatusFailed
	return nil
}

func (i *Invoice) MarkCancelled() error {
	if i.Status != InvoiceStatusPending && i.Status != InvoiceStatusFailed {
		return i.transitionError(InvoiceStatusCancelled)
	}
	i.Status = InvoiceStatusCancelled
	return nil
}

// RefundableAmount is what is left to refund on a paid invoice.
func (i *Invoice) RefundableAmount() decimal.Decimal {
	if i.Status != InvoiceStatusPaid {
		return decimal.Zero
	}
	return i.Amount.Sub(i.RefundedAmount)
}

// RecordRefund adds amount to the refunded total. The invoice becomes
// refunded once nothing is left.
func (i *Invoice) RecordRefund(amount decimal.Decimal) error {
	if i.Status != InvoiceStatusPaid {
		return i.transitionError(InvoiceStatusRefunded)
	}
	if !amount.IsPositive() || amount.GreaterThan(i.RefundableAmount()) {
		return fmt.Errorf("%w: %s against %s left on invoice %s",
			ErrRefundExceedsBalance, amount, i.RefundableAmount(), i.InvoiceNumber)
	}
	i.RefundedAmount = i.RefundedAmount.Add(amount)
	if i.RefundedAmount.GreaterThanOrEqual(i.Amount) {
		i.Status = InvoiceStatusRefunded
	}
	return nil
}

func (i *Invoice) transitionError(to InvoiceStatus) error {
	return fmt.Errorf("%w: invoice %s %s -> %s", ErrInvalidTransition, i.InvoiceNumber, i.Status, to)
}
