package events

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dantweb/vbwd-sdk/common/logger"
)

// Dispatcher routes events to registered handlers in descending priority
// order. Equal priorities keep registration order. Registration is guarded so
// one dispatcher can serve concurrent requests.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	eventCtx *Context
	logger   *slog.Logger
}

type DispatcherOption func(*Dispatcher)

// WithSharedContext injects c into every ContextAware handler at registration.
func WithSharedContext(c *Context) DispatcherOption {
	return func(d *Dispatcher) { d.eventCtx = c }
}

func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		handlers: map[string][]Handler{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register adds h under its own EventName.
func (d *Dispatcher) Register(h Handler) {
	d.RegisterFor(h.EventName(), h)
}

// RegisterFor adds h under an explicit event name.
func (d *Dispatcher) RegisterFor(name string, h Handler) {
	if d.eventCtx != nil {
		if ca, ok := h.(ContextAware); ok {
			ca.SetEventContext(d.eventCtx)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	list := append(d.handlers[name], h)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Priority() > list[j].Priority()
	})
	d.handlers[name] = list
}

// Unregister removes h from every event it was registered for. Handlers with
// non-comparable dynamic types (e.g. HandlerFunc values) must be registered by
// pointer to be removable.
func (d *Dispatcher) Unregister(h Handler) bool {
	if h == nil || !reflect.TypeOf(h).Comparable() {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	removed := false
	for name, list := range d.handlers {
		kept := list[:0:0]
		for _, existing := range list {
			if reflect.TypeOf(existing).Comparable() && existing == h {
				removed = true
				continue
			}
			kept = append(kept, existing)
		}
		if len(kept) == 0 {
			delete(d.handlers, name)
		} else {
			d.handlers[name] = kept
		}
	}
	return removed
}

func (d *Dispatcher) HasHandlers(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[name]) > 0
}

// Handlers returns the handlers for name in execution order.
func (d *Dispatcher) Handlers(name string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.handlers[name])
}

// Emit is an alias for Dispatch.
func (d *Dispatcher) Emit(ctx context.Context, e Event) Result {
	return d.Dispatch(ctx, e)
}

// Dispatch runs every eligible handler and combines their results. It never
// panics: handler panics become handler_exception results and the remaining
// handlers still run. Propagation is checked before each handler.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) Result {
	name := e.Name()
	handlers := d.Handlers(name)

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		EventName: logger.Ptr(name),
		Component: "vbwd.events.dispatcher",
	})

	if len(handlers) == 0 {
		d.logger.DebugContext(ctx, "no handlers registered for event")
		return NoHandler()
	}

	sc := logger.StartSpan(ctx, "events.dispatch",
		trace.WithAttributes(attribute.String("event.name", name)))
	defer sc.End()
	ctx = sc.Context()

	results := make([]Result, 0, len(handlers))
	for i, h := range handlers {
		if e.IsPropagationStopped() {
			d.logger.DebugContext(ctx, "event propagation stopped", "skipped_handlers", len(handlers)-i)
			break
		}

		res, attempted := d.invoke(ctx, h, e)
		if attempted {
			results = append(results, res)
		}
	}

	if len(results) == 0 {
		d.logger.DebugContext(ctx, "no handler accepted event", "registered", len(handlers))
		return NoHandler()
	}

	combined := Combine(results...)
	sc.SetAttributes(attribute.Int("event.handlers_run", len(results)))
	if !combined.Success {
		sc.Fail(combined.Error)
		d.logger.WarnContext(ctx, "event handling failed",
			"error", combined.Error,
			"error_type", combined.ErrorType,
			"handlers_run", len(results))
	}
	return combined
}

func (d *Dispatcher) invoke(ctx context.Context, h Handler, e Event) (res Result, attempted bool) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.ErrorContext(ctx, "event handler panicked",
				"handler", fmt.Sprintf("%T", h),
				"panic", rec)
			res = Failure(fmt.Sprint(rec), ErrorTypeHandlerException)
			attempted = true
		}
	}()

	if !h.CanHandle(e) {
		return Result{}, false
	}
	return h.Handle(ctx, e), true
}
