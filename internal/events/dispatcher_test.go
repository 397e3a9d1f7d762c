package events_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dantweb/vbwd-sdk/internal/events"
)

// recordingHandler appends its label to a shared log when it runs.
type recordingHandler struct {
	events.BaseHandler
	label     string
	name      string
	priority  events.Priority
	log       *[]string
	accept    bool
	stop      bool
	panicWith any
	result    events.Result
}

func newRecorder(label string, priority events.Priority, log *[]string) *recordingHandler {
	return &recordingHandler{
		label:    label,
		name:     "order.placed",
		priority: priority,
		log:      log,
		accept:   true,
		result:   events.Success(map[string]any{"by": label}),
	}
}

func (h *recordingHandler) EventName() string         { return h.name }
func (h *recordingHandler) Priority() events.Priority { return h.priority }
func (h *recordingHandler) CanHandle(e events.Event) bool {
	return h.accept
}

func (h *recordingHandler) Handle(_ context.Context, e events.Event) events.Result {
	*h.log = append(*h.log, h.label)
	if h.stop {
		e.StopPropagation()
	}
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.result
}

var _ = Describe("Dispatcher", func() {
	var (
		dispatcher *events.Dispatcher
		ctx        context.Context
		calls      []string
	)

	BeforeEach(func() {
		dispatcher = events.NewDispatcher()
		ctx = context.Background()
		calls = nil
	})

	Describe("Dispatch", func() {
		It("runs handlers in descending priority order", func() {
			dispatcher.Register(newRecorder("low", events.PriorityLow, &calls))
			dispatcher.Register(newRecorder("high", events.PriorityHigh, &calls))
			dispatcher.Register(newRecorder("normal", events.PriorityNormal, &calls))

			res := dispatcher.Dispatch(ctx, events.New("order.placed", nil))

			Expect(res.Success).To(BeTrue())
			Expect(calls).To(Equal([]string{"high", "normal", "low"}))
			Expect(res.Data).To(Equal([]any{
				map[string]any{"by": "high"},
				map[string]any{"by": "normal"},
				map[string]any{"by": "low"},
			}))
		})

		It("keeps registration order for equal priorities", func() {
			dispatcher.Register(newRecorder("first", events.PriorityNormal, &calls))
			dispatcher.Register(newRecorder("second", events.PriorityNormal, &calls))
			dispatcher.Register(newRecorder("top", events.PriorityHighest, &calls))
			dispatcher.Register(newRecorder("third", events.PriorityNormal, &calls))

			dispatcher.Dispatch(ctx, events.New("order.placed", nil))

			Expect(calls).To(Equal([]string{"top", "first", "second", "third"}))
		})

		It("stops calling handlers once propagation is stopped", func() {
			stopper := newRecorder("highest", events.PriorityHighest, &calls)
			stopper.stop = true
			dispatcher.Register(stopper)
			dispatcher.Register(newRecorder("normal", events.PriorityNormal, &calls))

			evt := events.New("order.placed", nil)
			res := dispatcher.Dispatch(ctx, evt)

			Expect(res.Success).To(BeTrue())
			Expect(calls).To(Equal([]string{"highest"}))
			Expect(evt.IsPropagationStopped()).To(BeTrue())
		})

		It("returns no_handler when nothing is registered", func() {
			res := dispatcher.Dispatch(ctx, events.New("nobody.listens", nil))

			Expect(res.Success).To(BeFalse())
			Expect(res.ErrorType).To(Equal(events.ErrorTypeNoHandler))
			Expect(res.Error).To(Equal("No handler registered for event"))
		})

		It("returns no_handler when every handler declines", func() {
			h := newRecorder("picky", events.PriorityNormal, &calls)
			h.accept = false
			dispatcher.Register(h)

			res := dispatcher.Dispatch(ctx, events.New("order.placed", nil))

			Expect(res.ErrorType).To(Equal(events.ErrorTypeNoHandler))
			Expect(calls).To(BeEmpty())
		})

		It("does not count declining handlers as attempts", func() {
			declines := newRecorder("declines", events.PriorityHigh, &calls)
			declines.accept = false
			declines.result = events.Failure("never", "")
			dispatcher.Register(declines)
			dispatcher.Register(newRecorder("accepts", events.PriorityLow, &calls))

			res := dispatcher.Dispatch(ctx, events.New("order.placed", nil))

			Expect(res.Success).To(BeTrue())
			Expect(calls).To(Equal([]string{"accepts"}))
		})

		It("contains a panicking handler and keeps going", func() {
			boom := newRecorder("boom", events.PriorityHigh, &calls)
			boom.panicWith = errors.New("boom")
			dispatcher.Register(boom)
			dispatcher.Register(newRecorder("after", events.PriorityLow, &calls))

			var res events.Result
			Expect(func() {
				res = dispatcher.Dispatch(ctx, events.New("order.placed", nil))
			}).NotTo(Panic())

			Expect(res.Success).To(BeFalse())
			Expect(res.Error).To(ContainSubstring("boom"))
			Expect(res.ErrorType).To(Equal(events.ErrorTypeHandlerException))
			Expect(res.Data).To(BeNil())
			Expect(calls).To(Equal([]string{"boom", "after"}))
		})

		It("aggregates failures from several handlers", func() {
			first := newRecorder("first", events.PriorityHigh, &calls)
			first.result = events.Failure("card declined", "payment_error")
			second := newRecorder("second", events.PriorityNormal, &calls)
			second.panicWith = "exploded"
			dispatcher.Register(first)
			dispatcher.Register(second)

			res := dispatcher.Dispatch(ctx, events.New("order.placed", nil))

			Expect(res.Error).To(Equal("card declined; exploded"))
			Expect(res.ErrorType).To(Equal("payment_error"))
		})

		It("only routes to handlers registered for the event name", func() {
			dispatcher.Register(newRecorder("orders", events.PriorityNormal, &calls))

			res := dispatcher.Dispatch(ctx, events.New("order.shipped", nil))

			Expect(res.ErrorType).To(Equal(events.ErrorTypeNoHandler))
			Expect(calls).To(BeEmpty())
		})
	})

	Describe("registration", func() {
		It("injects the shared context into context-aware handlers", func() {
			shared := events.NewContext()
			shared.Set("tenant", "acme")
			dispatcher = events.NewDispatcher(events.WithSharedContext(shared))

			h := newRecorder("ctx", events.PriorityNormal, &calls)
			dispatcher.Register(h)

			v, ok := h.EventContext().Get("tenant")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("acme"))
		})

		It("registers under an explicit name", func() {
			dispatcher.RegisterFor("order.cancelled", newRecorder("alias", events.PriorityNormal, &calls))

			Expect(dispatcher.HasHandlers("order.cancelled")).To(BeTrue())
			Expect(dispatcher.HasHandlers("order.placed")).To(BeFalse())
		})

		It("unregisters a handler", func() {
			h := newRecorder("gone", events.PriorityNormal, &calls)
			dispatcher.Register(h)
			Expect(dispatcher.HasHandlers("order.placed")).To(BeTrue())

			Expect(dispatcher.Unregister(h)).To(BeTrue())
			Expect(dispatcher.HasHandlers("order.placed")).To(BeFalse())
			Expect(dispatcher.Unregister(h)).To(BeFalse())
		})

		It("lists handlers in execution order", func() {
			low := newRecorder("low", events.PriorityLow, &calls)
			high := newRecorder("high", events.PriorityHigh, &calls)
			dispatcher.Register(low)
			dispatcher.Register(high)

			Expect(dispatcher.Handlers("order.placed")).To(Equal([]events.Handler{high, low}))
		})

		It("accepts function handlers", func() {
			dispatcher.Register(events.HandlerFunc{
				Name: "ping",
				Prio: events.PriorityNormal,
				Fn: func(_ context.Context, _ events.Event) events.Result {
					return events.Success("pong")
				},
			})

			res := dispatcher.Emit(ctx, events.New("ping", nil))
			Expect(res.Success).To(BeTrue())
			Expect(res.Data).To(Equal([]any{"pong"}))
		})
	})
})
