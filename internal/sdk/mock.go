package sdk

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const MockProvider = "mock"

const (
	IntentStatusCreated  = "created"
	IntentStatusCaptured = "captured"
	IntentStatusRefunded = "refunded"
)

// Call is one recorded invocation of a MockAdapter method.
type Call struct {
	Method          string
	PaymentIntentID string
	Amount          *decimal.Decimal
	Currency        string
	Metadata        map[string]string
	IdempotencyKey  string
}

type mockIntent struct {
	amount   decimal.Decimal
	currency string
	metadata map[string]string
	status   string
}

// MockAdapter is an in-memory provider used in development and tests. It
// keeps a payment intent lifecycle (created, captured, refunded), records
// every call and can be switched into a failing mode.
type MockAdapter struct {
	*BaseAdapter

	mu             sync.Mutex
	shouldFail     bool
	transientLeft  int
	calls          []Call
	intents        map[string]*mockIntent
	idempotencyMap map[string]string
}

func NewMockAdapter(cfg Config, opts ...BaseOption) *MockAdapter {
	return &MockAdapter{
		BaseAdapter:    NewBaseAdapter(cfg, opts...),
		intents:        make(map[string]*mockIntent),
		idempotencyMap: make(map[string]string),
	}
}

func (m *MockAdapter) Provider() string { return MockProvider }

func (m *MockAdapter) SetShouldFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
}

// FailNextTransient makes the next n provider calls return a transient error.
func (m *MockAdapter) FailNextTransient(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transientLeft = n
}

// Calls returns a copy of the recorded calls.
func (m *MockAdapter) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount counts recorded calls of method, or all calls when method is "".
func (m *MockAdapter) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if method == "" {
		return len(m.calls)
	}
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (m *MockAdapter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.intents = make(map[string]*mockIntent)
	m.idempotencyMap = make(map[string]string)
	m.shouldFail = false
	m.transientLeft = 0
}

func (m *MockAdapter) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string, idempotencyKey string) (Response, error) {
	return m.WithIdempotency(ctx, idempotencyKey, func(ctx context.Context) (Response, error) {
		return m.WithRetry(ctx, -1, func(ctx context.Context) (Response, error) {
			m.mu.Lock()
			defer m.mu.Unlock()

			m.calls = append(m.calls, Call{
				Method:         "create_payment_intent",
				Amount:         &amount,
				Currency:       currency,
				Metadata:       metadata,
				IdempotencyKey: idempotencyKey,
			})
			if err := m.takeTransientLocked("create_payment_intent"); err != nil {
				return Response{}, err
			}
			if m.shouldFail {
				return Fail("Mock payment failed", "mock_error"), nil
			}

			if idempotencyKey != "" {
				if id, ok := m.idempotencyMap[idempotencyKey]; ok {
					return intentCreated(id, amount, currency), nil
				}
			}

			id := "pi_mock_" + shortHex()
			if idempotencyKey != "" {
				m.idempotencyMap[idempotencyKey] = id
			}
			m.intents[id] = &mockIntent{
				amount:   amount,
				currency: currency,
				metadata: metadata,
				status:   IntentStatusCreated,
			}
			return intentCreated(id, amount, currency), nil
		})
	})
}

func (m *MockAdapter) CapturePayment(ctx context.Context, paymentIntentID, idempotencyKey string) (Response, error) {
	return m.WithIdempotency(ctx, idempotencyKey, func(ctx context.Context) (Response, error) {
		return m.WithRetry(ctx, -1, func(ctx context.Context) (Response, error) {
			m.mu.Lock()
			defer m.mu.Unlock()

			m.calls = append(m.calls, Call{
				Method:          "capture_payment",
				PaymentIntentID: paymentIntentID,
				IdempotencyKey:  idempotencyKey,
			})
			if err := m.takeTransientLocked("capture_payment"); err != nil {
				return Response{}, err
			}
			if m.shouldFail {
				return Fail("Mock capture failed", "mock_error"), nil
			}

			intent, ok := m.intents[paymentIntentID]
			if !ok {
				return Fail("Payment intent not found", "not_found"), nil
			}
			intent.status = IntentStatusCaptured
			return OK(map[string]any{
				"payment_intent_id": paymentIntentID,
				"status":            IntentStatusCaptured,
			}), nil
		})
	})
}

// RefundPayment refunds amount, or the full intent amount when amount is nil.
func (m *MockAdapter) RefundPayment(ctx context.Context, paymentIntentID string, amount *decimal.Decimal, idempotencyKey string) (Response, error) {
	return m.WithIdempotency(ctx, idempotencyKey, func(ctx context.Context) (Response, error) {
		return m.WithRetry(ctx, -1, func(ctx context.Context) (Response, error) {
			m.mu.Lock()
			defer m.mu.Unlock()

			m.calls = append(m.calls, Call{
				Method:          "refund_payment",
				PaymentIntentID: paymentIntentID,
				Amount:          amount,
				IdempotencyKey:  idempotencyKey,
			})
			if err := m.takeTransientLocked("refund_payment"); err != nil {
				return Response{}, err
			}
			if m.shouldFail {
				return Fail("Mock refund failed", "mock_error"), nil
			}

			intent, ok := m.intents[paymentIntentID]
			if !ok {
				return Fail("Payment intent not found", "not_found"), nil
			}
			refunded := intent.amount
			if amount != nil {
				refunded = *amount
			}
			intent.status = IntentStatusRefunded
			return OK(map[string]any{
				"refund_id":         "re_mock_" + shortHex(),
				"payment_intent_id": paymentIntentID,
				"amount":            refunded.String(),
				"status":            IntentStatusRefunded,
			}), nil
		})
	})
}

func (m *MockAdapter) GetPaymentStatus(ctx context.Context, paymentIntentID string) (Response, error) {
	return m.WithRetry(ctx, -1, func(ctx context.Context) (Response, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.calls = append(m.calls, Call{
			Method:          "get_payment_status",
			PaymentIntentID: paymentIntentID,
		})
		if err := m.takeTransientLocked("get_payment_status"); err != nil {
			return Response{}, err
		}
		if m.shouldFail {
			return Fail("Mock status check failed", "mock_error"), nil
		}

		intent, ok := m.intents[paymentIntentID]
		if !ok {
			return Fail("Payment intent not found", "not_found"), nil
		}
		return OK(map[string]any{
			"payment_intent_id": paymentIntentID,
			"status":            intent.status,
			"amount":            intent.amount.String(),
			"currency":          intent.currency,
		}), nil
	})
}

func (m *MockAdapter) takeTransientLocked(op string) error {
	if m.transientLeft <= 0 {
		return nil
	}
	m.transientLeft--
	return Transient(op, errMockTimeout)
}

func intentCreated(id string, amount decimal.Decimal, currency string) Response {
	return OK(map[string]any{
		"payment_intent_id": id,
		"amount":            amount.String(),
		"currency":          currency,
		"status":            IntentStatusCreated,
		"client_secret":     id + "_secret",
		"checkout_url":      "https://mock.payments.local/checkout/" + id,
	})
}

func shortHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
