package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dantweb/vbwd-sdk/internal/domain"
	"github.com/dantweb/vbwd-sdk/internal/events"
)

const (
	MockProvider = "mock"
	// MockValidSignature is always accepted by MockHandler.
	MockValidSignature = "valid_signature"
)

var mockEventTypes = map[string]EventType{
	"payment.succeeded":      EventPaymentSucceeded,
	"payment.failed":         EventPaymentFailed,
	"subscription.created":   EventSubscriptionCreated,
	"subscription.updated":   EventSubscriptionUpdated,
	"subscription.cancelled": EventSubscriptionCancelled,
	"refund.created":         EventRefundCreated,
	"dispute.created":        EventDisputeCreated,
}

// MockHandler speaks the mock provider's webhook format:
//
//	{"id": "evt_1", "type": "payment.succeeded",
//	 "data": {"payment_intent_id": "pi_1", "amount": 2999, "currency": "usd"}}
//
// Amounts arrive in minor units.
type MockHandler struct {
	emitter events.Emitter
	logger  *slog.Logger

	mu         sync.Mutex
	shouldFail bool
	handled    []*NormalizedEvent
}

type MockOption func(*MockHandler)

// WithEmitter forwards handled events into the domain dispatcher.
func WithEmitter(e events.Emitter) MockOption {
	return func(h *MockHandler) { h.emitter = e }
}

func WithMockLogger(l *slog.Logger) MockOption {
	return func(h *MockHandler) {
		if l != nil {
			h.logger = l
		}
	}
}

func NewMockHandler(opts ...MockOption) *MockHandler {
	h := &MockHandler{logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *MockHandler) Provider() string { return MockProvider }

func (h *MockHandler) SetShouldFail(fail bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shouldFail = fail
}

// Handled returns the events passed to Handle so far.
func (h *MockHandler) Handled() []*NormalizedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*NormalizedEvent, len(h.handled))
	copy(out, h.handled)
	return out
}

func (h *MockHandler) VerifySignature(payload []byte, signature, secret string) bool {
	if signature == MockValidSignature {
		return true
	}
	return VerifyHMACSHA256(payload, signature, secret)
}

func (h *MockHandler) ParseEvent(payload map[string]any) (*NormalizedEvent, error) {
	event := &NormalizedEvent{
		Provider:   MockProvider,
		EventID:    stringField(payload, "id", "evt_unknown"),
		EventType:  EventUnknown,
		Metadata:   map[string]any{},
		RawPayload: payload,
	}
	if t, ok := mockEventTypes[stringField(payload, "type", "")]; ok {
		event.EventType = t
	}

	data := map[string]any{}
	if raw, ok := payload["data"]; ok && raw != nil {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("data must be an object, got %T", raw)
		}
		data = m
	}

	event.PaymentIntentID = stringField(data, "payment_intent_id", "")

	if raw, ok := data["amount"]; ok && raw != nil {
		cents, err := toDecimal(raw)
		if err != nil {
			return nil, fmt.Errorf("amount: %w", err)
		}
		amount := cents.Div(decimal.NewFromInt(100))
		event.Amount = &amount
	}

	if cur := stringField(data, "currency", ""); cur != "" {
		event.Currency = strings.ToUpper(cur)
	}

	var err error
	if event.SubscriptionID, err = optionalID(data, "subscription_id"); err != nil {
		return nil, err
	}
	if event.UserID, err = optionalID(data, "user_id"); err != nil {
		return nil, err
	}

	for _, k := range []string{"error_code", "error_message", "reason"} {
		if v := stringField(data, k, ""); v != "" {
			event.Metadata[k] = v
		}
	}
	return event, nil
}

// Handle records the event. With an emitter attached, payment and
// cancellation callbacks are re-raised as domain events and the dispatch
// outcome decides the webhook result.
func (h *MockHandler) Handle(ctx context.Context, event *NormalizedEvent) Result {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	fail := h.shouldFail
	h.mu.Unlock()

	if fail {
		return Failed("Mock handler configured to fail")
	}

	result := Result{
		Success: true,
		Message: fmt.Sprintf("Successfully processed %s", event.EventType),
		Data:    map[string]any{"event_id": event.EventID},
	}
	if h.emitter == nil {
		return result
	}

	domainEvent := h.toDomainEvent(event)
	if domainEvent == nil {
		result.Status = StatusSkipped
		return result
	}

	dispatched := h.emitter.Dispatch(ctx, domainEvent)
	if !dispatched.Success && dispatched.ErrorType != events.ErrorTypeNoHandler {
		return Failed(dispatched.Error)
	}
	result.Data["dispatched"] = domainEvent.Name()
	if dispatched.Data != nil {
		result.Data["result"] = dispatched.Data
	}
	return result
}

func (h *MockHandler) toDomainEvent(event *NormalizedEvent) events.Event {
	var subscriptionID, userID int64
	if event.SubscriptionID != nil {
		subscriptionID = *event.SubscriptionID
	}
	if event.UserID != nil {
		userID = *event.UserID
	}

	switch event.EventType {
	case EventPaymentSucceeded:
		amount := decimal.Zero
		if event.Amount != nil {
			amount = *event.Amount
		}
		return domain.NewPaymentCaptured(subscriptionID, userID, event.PaymentIntentID, amount, event.Currency, event.Provider)
	case EventPaymentFailed:
		code, _ := event.Metadata["error_code"].(string)
		msg, _ := event.Metadata["error_message"].(string)
		return domain.NewPaymentFailed(subscriptionID, userID, code, msg, event.Provider)
	case EventSubscriptionCancelled:
		reason, _ := event.Metadata["reason"].(string)
		if reason == "" {
			reason = "cancelled by provider"
		}
		return domain.NewSubscriptionCancelled(subscriptionID, userID, nil, reason)
	default:
		h.logger.Debug("no domain mapping for webhook event", "event_type", string(event.EventType))
		return nil
	}
}

func stringField(m map[string]any, key, fallback string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fallback
	}
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		return decimal.NewFromString(n)
	case float64:
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported type %T", v)
	}
}

func optionalID(m map[string]any, key string) (*int64, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	var s string
	switch v := raw.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = v
	case float64:
		id := int64(v)
		return &id, nil
	default:
		return nil, fmt.Errorf("%s: unsupported type %T", key, raw)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &id, nil
}
