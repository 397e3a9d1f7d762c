package domain

import (
	"github.com/shopspring/decimal"

	"github.com/dantweb/vbwd-sdk/internal/events"
)

// CheckoutInitiated asks the provider adapter for a payment intent.
type CheckoutInitiated struct {
	events.DomainEvent
	UserID         int64
	TariffPlanID   int64
	SubscriptionID int64
	InvoiceID      int64
	Provider       string
	Amount         decimal.Decimal
	Currency       string
	ReturnURL      string
	CancelURL      string
}

type CheckoutParams struct {
	UserID         int64
	TariffPlanID   int64
	SubscriptionID int64
	InvoiceID      int64
	Provider       string
	Amount         decimal.Decimal
	Currency       string
	ReturnURL      string
	CancelURL      string
}

func NewCheckoutInitiated(p CheckoutParams) *CheckoutInitiated {
	return &CheckoutInitiated{
		DomainEvent: events.NewDomainEvent(EventCheckoutInitiated, map[string]any{
			"user_id":         p.UserID,
			"tariff_plan_id":  p.TariffPlanID,
			"subscription_id": p.SubscriptionID,
			"invoice_id":      p.InvoiceID,
			"provider":        p.Provider,
			"amount":          p.Amount.String(),
			"currency":        p.Currency,
			"return_url":      p.ReturnURL,
			"cancel_url":      p.CancelURL,
		}),
		UserID:         p.UserID,
		TariffPlanID:   p.TariffPlanID,
		SubscriptionID: p.SubscriptionID,
		InvoiceID:      p.InvoiceID,
		Provider:       p.Provider,
		Amount:         p.Amount,
		Currency:       p.Currency,
		ReturnURL:      p.ReturnURL,
		CancelURL:      p.CancelURL,
	}
}

// PaymentCaptured means the provider confirmed the money moved.
type PaymentCaptured struct {
	events.DomainEvent
	SubscriptionID int64
	UserID         int64
	TransactionID  string
	Amount         decimal.Decimal
	Currency       string
	Provider       string
}

func NewPaymentCaptured(subscriptionID, userID int64, transactionID string, amount decimal.Decimal, currency, provider string) *PaymentCaptured {
	return &PaymentCaptured{
		DomainEvent: events.NewDomainEvent(EventPaymentCaptured, map[string]any{
			"subscription_id": subscriptionID,
			"user_id":         userID,
			"transaction_id":  transactionID,
			"amount":          amount.String(),
			"currency":        currency,
			"provider":        provider,
		}),
		SubscriptionID: subscriptionID,
		UserID:         userID,
		TransactionID:  transactionID,
		Amount:         amount,
		Currency:       currency,
		Provider:       provider,
	}
}

type PaymentFailed struct {
	events.DomainEvent
	SubscriptionID int64
	UserID         int64
	ErrorCode      string
	ErrorMessage   string
	Provider       string
}

func NewPaymentFailed(subscriptionID, userID int64, errorCode, errorMessage, provider string) *PaymentFailed {
	return &PaymentFailed{
		DomainEvent: events.NewDomainEvent(EventPaymentFailed, map[string]any{
			"subscription_id": subscriptionID,
			"user_id":         userID,
			"error_code":      errorCode,
			"error_message":   errorMessage,
			"provider":        provider,
		}),
		SubscriptionID: subscriptionID,
		UserID:         userID,
		ErrorCode:      errorCode,
		ErrorMessage:   errorMessage,
		Provider:       provider,
	}
}

// RefundRequested refunds a captured payment. A nil Amount means a full refund.
type RefundRequested struct {
	events.DomainEvent
	TransactionID  string
	SubscriptionID int64
	Reason         string
	Provider       string
	Amount         *decimal.Decimal
	// RefundedBefore is what earlier refunds of the same payment returned.
	RefundedBefore decimal.Decimal
}

func NewRefundRequested(transactionID string, subscriptionID int64, reason, provider string, amount *decimal.Decimal) *RefundRequested {
	data := map[string]any{
		"transaction_id":  transactionID,
		"subscription_id": subscriptionID,
		"reason":          reason,
		"provider":        provider,
		"amount":          nil,
	}
	if amount != nil {
		data["amount"] = amount.String()
	}
	return &RefundRequested{
		DomainEvent:    events.NewDomainEvent(EventRefundRequested, data),
		TransactionID:  transactionID,
		SubscriptionID: subscriptionID,
		Reason:         reason,
		Provider:       provider,
		Amount:         amount,
	}
}

// AfterRefunds marks the request as following earlier partial refunds
// totalling refunded.
func (e *RefundRequested) AfterRefunds(refunded decimal.Decimal) *RefundRequested {
	e.RefundedBefore = refunded
	e.Data()["refunded_before"] = refunded.String()
	return e
}
