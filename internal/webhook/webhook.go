// Package webhook turns provider-specific inbound callbacks into one
// normalized business action per call.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventPaymentSucceeded      EventType = "payment.succeeded"
	EventPaymentFailed         EventType = "payment.failed"
	EventSubscriptionCreated   EventType = "subscription.created"
	EventSubscriptionUpdated   EventType = "subscription.updated"
	EventSubscriptionCancelled EventType = "subscription.cancelled"
	EventRefundCreated         EventType = "refund.created"
	EventDisputeCreated        EventType = "dispute.created"
	EventUnknown               EventType = "unknown"
)

// Status is the terminal state of one processed webhook. Skipped marks a
// genuine callback that no business action maps to.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// NormalizedEvent is the provider-agnostic view of one callback.
type NormalizedEvent struct {
	Provider        string
	EventID         string
	EventType       EventType
	PaymentIntentID string
	SubscriptionID  *int64
	UserID          *int64
	Amount          *decimal.Decimal
	Currency        string
	Metadata        map[string]any
	RawPayload      map[string]any
}

// Result is the single outcome of one inbound webhook.
type Result struct {
	Success bool           `json:"success"`
	Status  Status         `json:"status,omitempty"`
	Message string         `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

func Failed(msg string) Result {
	return Result{Status: StatusFailed, Error: msg}
}

// Handler is one provider's webhook dialect.
type Handler interface {
	Provider() string
	// VerifySignature checks the raw body, never the parsed JSON.
	VerifySignature(payload []byte, signature, secret string) bool
	ParseEvent(payload map[string]any) (*NormalizedEvent, error)
	Handle(ctx context.Context, event *NormalizedEvent) Result
}

// VerifyHMACSHA256 compares signatureHex against HMAC-SHA256(secret, payload)
// in constant time. An optional "sha256=" prefix is accepted.
func VerifyHMACSHA256(payload []byte, signatureHex, secret string) bool {
	if secret == "" || signatureHex == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimPrefix(signatureHex, "sha256="))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(got, mac.Sum(nil))
}

// SignHMACSHA256 returns the hex signature VerifyHMACSHA256 accepts.
func SignHMACSHA256(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
