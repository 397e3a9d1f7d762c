package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dantweb/vbwd-sdk/common/logger"
)

const (
	errInvalidSignature = "Invalid signature"
)

// Service routes inbound webhooks to the registered provider handler.
type Service struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	secrets  map[string]string
	logger   *slog.Logger
}

func NewService(log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		handlers: make(map[string]Handler),
		secrets:  make(map[string]string),
		logger:   log,
	}
}

// RegisterHandler stores handler and its signing secret under handler.Provider().
func (s *Service) RegisterHandler(h Handler, secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[h.Provider()] = h
	s.secrets[h.Provider()] = secret
}

func (s *Service) HasHandler(provider string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.handlers[provider]
	return ok
}

// GetHandler returns nil for an unregistered provider.
func (s *Service) GetHandler(provider string) Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handlers[provider]
}

func (s *Service) Providers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Process authenticates, parses and handles one webhook. It always returns
// exactly one Result and never panics.
func (s *Service) Process(ctx context.Context, provider string, payload []byte, signature string, headers map[string]string) Result {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "vbwd.webhook",
		Provider:  logger.Ptr(provider),
	})

	sc := logger.StartSpan(ctx, "webhook.process")
	defer sc.End()
	ctx = sc.Context()
	sc.SetAttributes(attribute.String("webhook.provider", provider))

	result := s.process(ctx, provider, payload, signature)
	if result.Status == "" {
		result.Status = StatusFailed
		if result.Success {
			result.Status = StatusProcessed
		}
	}
	if result.Success {
		s.logger.InfoContext(ctx, "webhook processed", "status", string(result.Status), "message", result.Message)
	} else {
		sc.Fail(result.Error)
		s.logger.WarnContext(ctx, "webhook rejected",
			"error", result.Error,
			"payload_bytes", len(payload),
			"header_count", len(headers))
	}
	return result
}

func (s *Service) process(ctx context.Context, provider string, payload []byte, signature string) Result {
	s.mu.RLock()
	h, ok := s.handlers[provider]
	secret := s.secrets[provider]
	s.mu.RUnlock()

	if !ok {
		return Failed(fmt.Sprintf("Unknown provider: %s", provider))
	}

	if !s.verify(h, payload, signature, secret) {
		return Failed(errInvalidSignature)
	}

	var data map[string]any
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return Failed(fmt.Sprintf("Failed to parse JSON: %v", err))
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Failed("Failed to parse JSON: trailing data after object")
	}
	if data == nil {
		return Failed("Failed to parse JSON: payload is not an object")
	}

	event, err := s.parse(h, data)
	if err != nil {
		return Failed(fmt.Sprintf("Failed to parse event: %v", err))
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{WebhookEventID: logger.Ptr(event.EventID)})
	s.logger.DebugContext(ctx, "webhook event parsed", "event_type", string(event.EventType))

	return s.handle(ctx, h, event)
}

func (s *Service) verify(h Handler, payload []byte, signature, secret string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return h.VerifySignature(payload, signature, secret)
}

func (s *Service) parse(h Handler, data map[string]any) (event *NormalizedEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			event, err = nil, fmt.Errorf("%v", r)
		}
	}()
	event, err = h.ParseEvent(data)
	if err == nil && event == nil {
		err = fmt.Errorf("handler returned no event")
	}
	return event, err
}

func (s *Service) handle(ctx context.Context, h Handler, event *NormalizedEvent) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "webhook handler panicked", "panic", r)
			result = Failed(fmt.Sprintf("Handler error: %v", r))
		}
	}()
	return h.Handle(ctx, event)
}
