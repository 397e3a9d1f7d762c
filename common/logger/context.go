package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Handlers and services enrich the context once; every log line below inherits the fields.
type LogFields struct {
	UserID         *int64  // Billing user ID
	SubscriptionID *int64  // Subscription being mutated
	InvoiceID      *int64  // Invoice being mutated
	Provider       *string // Payment provider name (e.g., "mock")
	EventName      *string // Domain event name (e.g., "payment.captured")
	WebhookEventID *string // Provider-assigned webhook event ID
	IdempotencyKey *string // Outbound idempotency key
	Component      string  // Component name (e.g., "vbwd.events.dispatcher")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.UserID != nil {
		result.UserID = next.UserID
	}
	if next.SubscriptionID != nil {
		result.SubscriptionID = next.SubscriptionID
	}
	if next.InvoiceID != nil {
		result.InvoiceID = next.InvoiceID
	}
	if next.Provider != nil {
		result.Provider = next.Provider
	}
	if next.EventName != nil {
		result.EventName = next.EventName
	}
	if next.WebhookEventID != nil {
		result.WebhookEventID = next.WebhookEventID
	}
	if next.IdempotencyKey != nil {
		result.IdempotencyKey = next.IdempotencyKey
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
