package model

import "errors"

// ErrInvalidTransition is returned when a lifecycle method is called from a
// status that does not allow it.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrRefundExceedsBalance is returned when a refund is not positive or goes
// past what is left on the invoice.
var ErrRefundExceedsBalance = errors.New("refund exceeds refundable balance")
