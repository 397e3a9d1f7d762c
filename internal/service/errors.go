package service

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPlanNotFound         = errors.New("tariff plan not found")
	ErrPlanInactive         = errors.New("tariff plan is not active")
	ErrPlanSlugTaken        = errors.New("tariff plan slug already in use")
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrInvoiceNotRefundable = errors.New("invoice is not refundable")
	ErrUserNotFound         = errors.New("user not found")
	ErrCurrencyNotFound     = errors.New("currency not found")
	ErrTaxNotFound          = errors.New("tax not found")
	ErrInvalidRefundAmount  = errors.New("invalid refund amount")
	ErrPaymentFailed        = errors.New("payment failed")
)

// ProviderError carries the provider's message for a failed payment step.
type ProviderError struct {
	Op      string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrPaymentFailed
}
