package eventhandler

import (
	"context"
	"strconv"

	"github.com/dantweb/vbwd-sdk/internal/domain"
	"github.com/dantweb/vbwd-sdk/internal/events"
	"github.com/dantweb/vbwd-sdk/internal/notify"
)

func idString(v int64) string { return strconv.FormatInt(v, 10) }

type SubscriptionActivatedHandler struct {
	events.BaseHandler
	tracker
	notifier notify.Publisher
}

func NewSubscriptionActivatedHandler(n notify.Publisher) *SubscriptionActivatedHandler {
	if n == nil {
		n = notify.Nop()
	}
	return &SubscriptionActivatedHandler{notifier: n}
}

func (h *SubscriptionActivatedHandler) EventName() string { return domain.EventSubscriptionActivated }

func (h *SubscriptionActivatedHandler) CanHandle(e events.Event) bool {
	return is[*domain.SubscriptionActivated](e)
}

func (h *SubscriptionActivatedHandler) Handle(ctx context.Context, e events.Event) events.Result {
	ev, ok := e.(*domain.SubscriptionActivated)
	if !ok {
		return invalidEvent()
	}
	h.track(ev)

	h.notifier.Publish(background(ctx), ev.UserID, notify.EventSubscriptionActivated, map[string]any{
		"subscription_id": idString(ev.SubscriptionID),
		"expires_at":      ev.ExpiresAt,
	})
	return events.Success(map[string]any{
		"subscription_id": idString(ev.SubscriptionID),
		"user_id":         idString(ev.UserID),
		"handled":         true,
	})
}

type SubscriptionCancelledHandler struct {
	events.BaseHandler
	tracker
	notifier notify.Publisher
}

func NewSubscriptionCancelledHandler(n notify.Publisher) *SubscriptionCancelledHandler {
	if n == nil {
		n = notify.Nop()
	}
	return &SubscriptionCancelledHandler{notifier: n}
}

func (h *SubscriptionCancelledHandler) EventName() string { return domain.EventSubscriptionCancelled }

func (h *SubscriptionCancelledHandler) CanHandle(e events.Event) bool {
	return is[*domain.SubscriptionCancelled](e)
}

func (h *SubscriptionCancelledHandler) Handle(ctx context.Context, e events.Event) events.Result {
	ev, ok := e.(*domain.SubscriptionCancelled)
	if !ok {
		return invalidEvent()
	}
	h.track(ev)

	if ev.UserID != 0 {
		h.notifier.Publish(background(ctx), ev.UserID, notify.EventSubscriptionCancelled, map[string]any{
			"subscription_id": idString(ev.SubscriptionID),
			"reason":          ev.Reason,
		})
	}
	return events.Success(map[string]any{
		"subscription_id": idString(ev.SubscriptionID),
		"user_id":         idString(ev.UserID),
		"reason":          ev.Reason,
		"handled":         true,
	})
}

type SubscriptionExpiredHandler struct {
	events.BaseHandler
	tracker
	notifier notify.Publisher
}

func NewSubscriptionExpiredHandler(n notify.Publisher) *SubscriptionExpiredHandler {
	if n == nil {
		n = notify.Nop()
	}
	return &SubscriptionExpiredHandler{notifier: n}
}

func (h *SubscriptionExpiredHandler) EventName() string { return domain.EventSubscriptionExpired }

func (h *SubscriptionExpiredHandler) CanHandle(e events.Event) bool {
	return is[*domain.SubscriptionExpired](e)
}

func (h *SubscriptionExpiredHandler) Handle(ctx context.Context, e events.Event) events.Result {
	ev, ok := e.(*domain.SubscriptionExpired)
	if !ok {
		return invalidEvent()
	}
	h.track(ev)

	h.notifier.Publish(background(ctx), ev.UserID, notify.EventSubscriptionExpired, map[string]any{
		"subscription_id": idString(ev.SubscriptionID),
		"expired_at":      ev.ExpiredAt,
	})
	return events.Success(map[string]any{
		"subscription_id": idString(ev.SubscriptionID),
		"user_id":         idString(ev.UserID),
		"handled":         true,
	})
}

type UserCreatedHandler struct {
	events.BaseHandler
	tracker
}

func (h *UserCreatedHandler) EventName() string { return domain.EventUserCreated }

func (h *UserCreatedHandler) CanHandle(e events.Event) bool {
	return is[*domain.UserCreated](e)
}

func (h *UserCreatedHandler) Handle(_ context.Context, e events.Event) events.Result {
	ev, ok := e.(*domain.UserCreated)
	if !ok {
		return invalidEvent()
	}
	h.track(ev)
	return events.Success(map[string]any{
		"user_id": idString(ev.UserID),
		"email":   ev.Email,
		"handled": true,
	})
}

type UserStatusUpdatedHandler struct {
	events.BaseHandler
	tracker
}

func (h *UserStatusUpdatedHandler) EventName() string { return domain.EventUserStatusUpdated }

func (h *UserStatusUpdatedHandler) CanHandle(e events.Event) bool {
	return is[*domain.UserStatusUpdated](e)
}

func (h *UserStatusUpdatedHandler) Handle(_ context.Context, e events.Event) events.Result {
	ev, ok := e.(*domain.UserStatusUpdated)
	if !ok {
		return invalidEvent()
	}
	h.track(ev)
	return events.Success(map[string]any{
		"user_id":    idString(ev.UserID),
		"old_status": ev.OldStatus,
		"new_status": ev.NewStatus,
		"handled":    true,
	})
}

type UserDeletedHandler struct {
	events.BaseHandler
	tracker
}

func (h *UserDeletedHandler) EventName() string { return domain.EventUserDeleted }

func (h *UserDeletedHandler) CanHandle(e events.Event) bool {
	return is[*domain.UserDeleted](e)
}

func (h *UserDeletedHandler) Handle(_ context.Context, e events.Event) events.Result {
	ev, ok := e.(*domain.UserDeleted)
	if !ok {
		return invalidEvent()
	}
	h.track(ev)
	return events.Success(map[string]any{
		"user_id": idString(ev.UserID),
		"handled": true,
	})
}
