package model

import (
	"fmt"
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// Subscription follows pending -> active -> {cancelled | expired},
// with active <-> paused the only reversible edge.
type Subscription struct {
	ID           int64              `json:"id,string"`
	UserID       int64              `json:"user_id,string"`
	TariffPlanID int64              `json:"tariff_plan_id,string"`
	Status       SubscriptionStatus `json:"status"`
	StartedAt    *time.Time         `json:"started_at,omitempty"`
	ExpiresAt    *time.Time         `json:"expires_at,omitempty"`
	CancelledAt  *time.Time         `json:"cancelled_at,omitempty"`
	PausedAt     *time.Time         `json:"paused_at,omitempty"`
	Version      int                `json:"version"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func (s *Subscription) Activate(durationDays int, now time.Time) error {
	if s.Status != SubscriptionStatusPending {
		return s.transitionError(SubscriptionStatusActive)
	}
	expires := now.AddDate(0, 0, durationDays)
	s.Status = SubscriptionStatusActive
	s.StartedAt = &now
	s.ExpiresAt = &expires
	return nil
}

// Renew extends an active subscription from its current expiry, or from now
// if it already lapsed.
func (s *Subscription) Renew(durationDays int, now time.Time) error {
	if s.Status != SubscriptionStatusActive {
		return s.transitionError(SubscriptionStatusActive)
	}
	base := now
	if s.ExpiresAt != nil && s.ExpiresAt.After(now) {
		base = *s.ExpiresAt
	}
	expires := base.AddDate(0, 0, durationDays)
	s.ExpiresAt = &expires
	return nil
}

func (s *Subscription) Cancel(now time.Time) error {
	switch s.Status {
	case SubscriptionStatusPending, SubscriptionStatusActive, SubscriptionStatusPaused:
	default:
		return s.transitionError(SubscriptionStatusCancelled)
	}
	s.Status = SubscriptionStatusCancelled
	s.CancelledAt = &now
	return nil
}

func (s *Subscription) Expire() error {
	if s.Status != SubscriptionStatusActive {
		return s.transitionError(SubscriptionStatusExpired)
	}
	s.Status = SubscriptionStatusExpired
	return nil
}

func (s *Subscription) Pause(now time.Time) error {
	if s.Status != SubscriptionStatusActive {
		return s.transitionError(SubscriptionStatusPaused)
	}
	s.Status = SubscriptionStatusPaused
	s.PausedAt = &now
	return nil
}

// Resume reactivates a paused subscription and pushes expiry out by the time spent paused.
func (s *Subscription) Resume(now time.Time) error {
	if s.Status != SubscriptionStatusPaused {
		return s.transitionError(SubscriptionStatusActive)
	}
	if s.PausedAt != nil && s.ExpiresAt != nil {
		expires := s.ExpiresAt.Add(now.Sub(*s.PausedAt))
		s.ExpiresAt = &expires
	}
	s.Status = SubscriptionStatusActive
	s.PausedAt = nil
	return nil
}

func (s *Subscription) IsValid(now time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	return s.ExpiresAt == nil || !s.ExpiresAt.Before(now)
}

func (s *Subscription) DaysRemaining(now time.Time) int {
	if s.ExpiresAt == nil || !s.ExpiresAt.After(now) {
		return 0
	}
	return int(s.ExpiresAt.Sub(now).Hours() / 24)
}

func (s *Subscription) transitionError(to SubscriptionStatus) error {
	return fmt.Errorf("%w: subscription %d %s -> %s", ErrInvalidTransition, s.ID, s.Status, to)
}
