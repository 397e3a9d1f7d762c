package events

import "context"

type Priority int

// Higher priorities run first.
const (
	PriorityHighest Priority = 100
	PriorityHigh    Priority = 75
	PriorityNormal  Priority = 50
	PriorityLow     Priority = 25
	PriorityLowest  Priority = 0
)

// Handler reacts to exactly one event name.
type Handler interface {
	EventName() string
	Priority() Priority
	CanHandle(e Event) bool
	Handle(ctx context.Context, e Event) Result
}

// ContextAware handlers receive the dispatcher's shared Context at registration.
type ContextAware interface {
	SetEventContext(c *Context)
}

// Emitter is what handlers and services need to raise further events.
type Emitter interface {
	Dispatch(ctx context.Context, e Event) Result
}

// BaseHandler supplies the default priority and a context slot. Embed it and
// implement EventName, CanHandle and Handle.
type BaseHandler struct {
	eventCtx *Context
}

func (h *BaseHandler) Priority() Priority { return PriorityNormal }

func (h *BaseHandler) SetEventContext(c *Context) { h.eventCtx = c }

// EventContext returns the injected context, or a fresh one when the handler
// was registered on a dispatcher without a shared context.
func (h *BaseHandler) EventContext() *Context {
	if h.eventCtx == nil {
		h.eventCtx = NewContext()
	}
	return h.eventCtx
}

// HandlerFunc adapts a function to Handler. A nil Accepts matches on name.
type HandlerFunc struct {
	Name    string
	Prio    Priority
	Fn      func(ctx context.Context, e Event) Result
	Accepts func(e Event) bool
}

func (f HandlerFunc) EventName() string  { return f.Name }
func (f HandlerFunc) Priority() Priority { return f.Prio }

func (f HandlerFunc) CanHandle(e Event) bool {
	if f.Accepts != nil {
		return f.Accepts(e)
	}
	return e.Name() == f.Name
}

func (f HandlerFunc) Handle(ctx context.Context, e Event) Result {
	return f.Fn(ctx, e)
}
