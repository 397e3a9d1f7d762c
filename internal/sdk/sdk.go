// Package sdk is the provider-agnostic payment adapter layer: a uniform
// payment-intent interface, idempotency and retry wrapping, and a registry
// resolving provider names to adapters.
package sdk

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Config is owned by one adapter and never changes after construction.
type Config struct {
	APIKey     string
	APISecret  string
	Sandbox    bool
	Timeout    time.Duration
	MaxRetries int
}

func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:     apiKey,
		Sandbox:    true,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
	}
}

// Response is what every adapter operation returns.
type Response struct {
	Success   bool           `json:"success"`
	Data      map[string]any `json:"data"`
	Error     string         `json:"error,omitempty"`
	ErrorCode string         `json:"error_code,omitempty"`
}

func OK(data map[string]any) Response {
	if data == nil {
		data = map[string]any{}
	}
	return Response{Success: true, Data: data}
}

func Fail(msg, code string) Response {
	return Response{Data: map[string]any{}, Error: msg, ErrorCode: code}
}

// String reads a string field from Data, or "" when absent.
func (r Response) String(key string) string {
	if v, ok := r.Data[key].(string); ok {
		return v
	}
	return ""
}

// Adapter is one payment provider. Failures come back as unsuccessful
// Responses; a non-nil error means retries were exhausted on a transient
// failure or the call could not be made at all, and the caller decides what
// to do next.
type Adapter interface {
	Provider() string
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string, idempotencyKey string) (Response, error)
	CapturePayment(ctx context.Context, paymentIntentID, idempotencyKey string) (Response, error)
	RefundPayment(ctx context.Context, paymentIntentID string, amount *decimal.Decimal, idempotencyKey string) (Response, error)
	GetPaymentStatus(ctx context.Context, paymentIntentID string) (Response, error)
}
