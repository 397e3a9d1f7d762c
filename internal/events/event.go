// Package events is the in-process domain event system: events, handler
// results, and the priority-ordered dispatcher that routes one to the other.
package events

import "time"

// Event is a named business occurrence. Name is the dispatch key and is fixed
// at construction.
type Event interface {
	Name() string
	Data() map[string]any
	StopPropagation()
	IsPropagationStopped() bool
}

// BaseEvent carries a name, an untyped payload and the propagation flag.
// The flag only ever moves from false to true.
type BaseEvent struct {
	name    string
	data    map[string]any
	stopped bool
}

func NewBaseEvent(name string, data map[string]any) BaseEvent {
	if data == nil {
		data = map[string]any{}
	}
	return BaseEvent{name: name, data: data}
}

func (e *BaseEvent) Name() string { return e.name }

func (e *BaseEvent) Data() map[string]any { return e.data }

func (e *BaseEvent) StopPropagation() { e.stopped = true }

func (e *BaseEvent) IsPropagationStopped() bool { return e.stopped }

// DomainEvent adds a construction timestamp (UTC) and free-form metadata.
type DomainEvent struct {
	BaseEvent
	Timestamp time.Time
	Metadata  map[string]any
}

func NewDomainEvent(name string, data map[string]any) DomainEvent {
	return DomainEvent{
		BaseEvent: NewBaseEvent(name, data),
		Timestamp: time.Now().UTC(),
		Metadata:  map[string]any{},
	}
}

// New builds a bare DomainEvent, mostly for tests and ad-hoc events.
func New(name string, data map[string]any) *DomainEvent {
	e := NewDomainEvent(name, data)
	return &e
}
