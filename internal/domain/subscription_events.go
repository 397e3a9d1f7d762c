package domain

import (
	"time"

	"github.com/dantweb/vbwd-sdk/internal/events"
	"github.com/dantweb/vbwd-sdk/internal/model"
)

type SubscriptionCreated struct {
	events.DomainEvent
	SubscriptionID int64
	UserID         int64
	TariffPlanID   int64
	Status         model.SubscriptionStatus
}

func NewSubscriptionCreated(sub *model.Subscription) *SubscriptionCreated {
	return &SubscriptionCreated{
		DomainEvent: events.NewDomainEvent(EventSubscriptionCreated, map[string]any{
			"subscription_id": sub.ID,
			"user_id":         sub.UserID,
			"tariff_plan_id":  sub.TariffPlanID,
			"status":          string(sub.Status),
		}),
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		TariffPlanID:   sub.TariffPlanID,
		Status:         sub.Status,
	}
}

type SubscriptionActivated struct {
	events.DomainEvent
	SubscriptionID int64
	UserID         int64
	TariffPlanID   int64
	StartedAt      time.Time
	ExpiresAt      time.Time
}

func NewSubscriptionActivated(sub *model.Subscription) *SubscriptionActivated {
	e := &SubscriptionActivated{
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		TariffPlanID:   sub.TariffPlanID,
	}
	if sub.StartedAt != nil {
		e.StartedAt = *sub.StartedAt
	}
	if sub.ExpiresAt != nil {
		e.ExpiresAt = *sub.ExpiresAt
	}
	e.DomainEvent = events.NewDomainEvent(EventSubscriptionActivated, map[string]any{
		"subscription_id": e.SubscriptionID,
		"user_id":         e.UserID,
		"tariff_plan_id":  e.TariffPlanID,
		"started_at":      e.StartedAt,
		"expires_at":      e.ExpiresAt,
	})
	return e
}

type SubscriptionCancelled struct {
	events.DomainEvent
	SubscriptionID int64
	UserID         int64
	CancelledBy    *int64
	Reason         string
}

func NewSubscriptionCancelled(subscriptionID, userID int64, cancelledBy *int64, reason string) *SubscriptionCancelled {
	return &SubscriptionCancelled{
		DomainEvent: events.NewDomainEvent(EventSubscriptionCancelled, map[string]any{
			"subscription_id": subscriptionID,
			"user_id":         userID,
			"cancelled_by":    cancelledBy,
			"reason":          reason,
		}),
		SubscriptionID: subscriptionID,
		UserID:         userID,
		CancelledBy:    cancelledBy,
		Reason:         reason,
	}
}

type SubscriptionExpired struct {
	events.DomainEvent
	SubscriptionID int64
	UserID         int64
	ExpiredAt      time.Time
}

func NewSubscriptionExpired(subscriptionID, userID int64, expiredAt time.Time) *SubscriptionExpired {
	return &SubscriptionExpired{
		DomainEvent: events.NewDomainEvent(EventSubscriptionExpired, map[string]any{
			"subscription_id": subscriptionID,
			"user_id":         userID,
			"expired_at":      expiredAt,
		}),
		SubscriptionID: subscriptionID,
		UserID:         userID,
		ExpiredAt:      expiredAt,
	}
}

// SubscriptionStateChanged covers the reversible pause/resume edge.
type SubscriptionStateChanged struct {
	events.DomainEvent
	SubscriptionID int64
	UserID         int64
}

func NewSubscriptionPaused(subscriptionID, userID int64) *SubscriptionStateChanged {
	return newStateChanged(EventSubscriptionPaused, subscriptionID, userID)
}

func NewSubscriptionResumed(subscriptionID, userID int64) *SubscriptionStateChanged {
	return newStateChanged(EventSubscriptionResumed, subscriptionID, userID)
}

func newStateChanged(name string, subscriptionID, userID int64) *SubscriptionStateChanged {
	return &SubscriptionStateChanged{
		DomainEvent: events.NewDomainEvent(name, map[string]any{
			"subscription_id": subscriptionID,
			"user_id":         userID,
		}),
		SubscriptionID: subscriptionID,
		UserID:         userID,
	}
}
