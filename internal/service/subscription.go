package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dantweb/vbwd-sdk/common/id"
	"github.com/dantweb/vbwd-sdk/common/logger"
	"github.com/dantweb/vbwd-sdk/internal/domain"
	"github.com/dantweb/vbwd-sdk/internal/events"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/store"
)

const expireBatchSize = 100

type SubscriptionService interface {
	// Create opens a pending subscription. The plan must exist and be active.
	Create(ctx context.Context, userID, planID int64) (*model.Subscription, error)
	Get(ctx context.Context, id int64) (*model.Subscription, error)
	// Activate starts a pending subscription for its plan's billing period.
	Activate(ctx context.Context, id int64) (*model.Subscription, error)
	Renew(ctx context.Context, id int64) (*model.Subscription, error)
	Cancel(ctx context.Context, id int64, cancelledBy *int64, reason string) (*model.Subscription, error)
	Pause(ctx context.Context, id int64) (*model.Subscription, error)
	Resume(ctx context.Context, id int64) (*model.Subscription, error)
	GetActive(ctx context.Context, userID int64) (*model.Subscription, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Subscription, error)
	ExpiringSoon(ctx context.Context, days int) ([]model.Subscription, error)
	// ExpireDue moves every lapsed active subscription to expired and
	// reports how many it moved.
	ExpireDue(ctx context.Context) (int, error)
}

type subscriptionService struct {
	subs    store.SubscriptionStore
	plans   store.TariffPlanStore
	emitter events.Emitter
	logger  *slog.Logger
	now     func() time.Time
}

func NewSubscriptionService(subs store.SubscriptionStore, plans store.TariffPlanStore, emitter events.Emitter, logger *slog.Logger) SubscriptionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &subscriptionService{
		subs:    subs,
		plans:   plans,
		emitter: emitter,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *subscriptionService) Create(ctx context.Context, userID, planID int64) (*model.Subscription, error) {
	if _, err := activePlan(ctx, s.plans, planID); err != nil {
		return nil, err
	}

	sub := &model.Subscription{
		ID:           id.New(),
		UserID:       userID,
		TariffPlanID: planID,
		Status:       model.SubscriptionStatusPending,
	}
	if err := s.subs.Save(ctx, sub, nil); err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}

	ctx = subscriptionContext(ctx, sub)
	s.logger.InfoContext(ctx, "subscription created", "tariff_plan_id", planID)
	s.emit(ctx, domain.NewSubscriptionCreated(sub))
	return sub, nil
}

func (s *subscriptionService) Get(ctx context.Context, id int64) (*model.Subscription, error) {
	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("getting subscription: %w", err)
	}
	return sub, nil
}

func (s *subscriptionService) Activate(ctx context.Context, id int64) (*model.Subscription, error) {
	sub, err := s.mutate(ctx, id, "activating", func(sub *model.Subscription) error {
		plan, err := s.plans.GetByID(ctx, sub.TariffPlanID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPlanNotFound
			}
			return fmt.Errorf("getting plan: %w", err)
		}
		return sub.Activate(plan.DurationDays(), s.now())
	})
	if err != nil {
		return nil, err
	}

	ctx = subscriptionContext(ctx, sub)
	s.logger.InfoContext(ctx, "subscription activated", "expires_at", sub.ExpiresAt)
	s.emit(ctx, domain.NewSubscriptionActivated(sub))
	return sub, nil
}

func (s *subscriptionService) Renew(ctx context.Context, id int64) (*model.Subscription, error) {
	sub, err := s.mutate(ctx, id, "renewing", func(sub *model.Subscription) error {
		plan, err := s.plans.GetByID(ctx, sub.TariffPlanID)
		if err != nil {
			return fmt.Errorf("getting plan: %w", err)
		}
		return sub.Renew(plan.DurationDays(), s.now())
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(subscriptionContext(ctx, sub), "subscription renewed", "expires_at", sub.ExpiresAt)
	return sub, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, id int64, cancelledBy *int64, reason string) (*model.Subscription, error) {
	sub, err := s.mutate(ctx, id, "cancelling", func(sub *model.Subscription) error {
		return sub.Cancel(s.now())
	})
	if err != nil {
		return nil, err
	}

	ctx = subscriptionContext(ctx, sub)
	s.logger.InfoContext(ctx, "subscription cancelled", "reason", reason)
	s.emit(ctx, domain.NewSubscriptionCancelled(sub.ID, sub.UserID, cancelledBy, reason))
	return sub, nil
}

func (s *subscriptionService) Pause(ctx context.Context, id int64) (*model.Subscription, error) {
	sub, err := s.mutate(ctx, id, "pausing", func(sub *model.Subscription) error {
		return sub.Pause(s.now())
	})
	if err != nil {
		return nil, err
	}
	s.emit(subscriptionContext(ctx, sub), domain.NewSubscriptionPaused(sub.ID, sub.UserID))
	return sub, nil
}

func (s *subscriptionService) Resume(ctx context.Context, id int64) (*model.Subscription, error) {
	sub, err := s.mutate(ctx, id, "resuming", func(sub *model.Subscription) error {
		return sub.Resume(s.now())
	})
	if err != nil {
		return nil, err
	}
	s.emit(subscriptionContext(ctx, sub), domain.NewSubscriptionResumed(sub.ID, sub.UserID))
	return sub, nil
}

func (s *subscriptionService) GetActive(ctx context.Context, userID int64) (*model.Subscription, error) {
	sub, err := s.subs.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("getting active subscription: %w", err)
	}
	return sub, nil
}

func (s *subscriptionService) ListByUser(ctx context.Context, userID int64) ([]model.Subscription, error) {
	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}
	return subs, nil
}

func (s *subscriptionService) ExpiringSoon(ctx context.Context, days int) ([]model.Subscription, error) {
	now := s.now()
	subs, err := s.subs.ListExpiringBetween(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("listing expiring subscriptions: %w", err)
	}
	return subs, nil
}

func (s *subscriptionService) ExpireDue(ctx context.Context) (int, error) {
	expired := 0
	for {
		now := s.now()
		batch, err := s.subs.ListExpired(ctx, now, expireBatchSize)
		if err != nil {
			return expired, fmt.Errorf("listing expired subscriptions: %w", err)
		}

		moved := 0
		for i := range batch {
			sub := &batch[i]
			if err := sub.Expire(); err != nil {
				continue
			}
			version := sub.Version
			if err := s.subs.Save(ctx, sub, &version); err != nil {
				// Someone else touched it; the next sweep re-evaluates.
				s.logger.WarnContext(subscriptionContext(ctx, sub), "failed to expire subscription", "error", err)
				continue
			}
			moved++
			s.emit(subscriptionContext(ctx, sub), domain.NewSubscriptionExpired(sub.ID, sub.UserID, now))
		}
		expired += moved

		if len(batch) < expireBatchSize || moved == 0 {
			return expired, nil
		}
	}
}

// mutate loads the subscription, applies fn and saves with the loaded
// version, retrying on version conflicts.
func (s *subscriptionService) mutate(ctx context.Context, id int64, verb string, fn func(*model.Subscription) error) (*model.Subscription, error) {
	var sub *model.Subscription
	err := retryOnConflict(ctx, func() error {
		loaded, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(loaded); err != nil {
			return err
		}
		version := loaded.Version
		if err := s.subs.Save(ctx, loaded, &version); err != nil {
			return err
		}
		sub = loaded
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) || errors.Is(err, model.ErrInvalidTransition) || errors.Is(err, ErrPlanNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s subscription: %w", verb, err)
	}
	return sub, nil
}

func (s *subscriptionService) emit(ctx context.Context, e events.Event) {
	if s.emitter == nil {
		return
	}
	res := s.emitter.Dispatch(ctx, e)
	if !res.Success && res.ErrorType != events.ErrorTypeNoHandler {
		s.logger.WarnContext(ctx, "event handlers reported failure", "event", e.Name(), "error", res.Error)
	}
}

func activePlan(ctx context.Context, plans store.TariffPlanStore, planID int64) (*model.TariffPlan, error) {
	plan, err := plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("getting plan: %w", err)
	}
	if !plan.IsActive {
		return nil, ErrPlanInactive
	}
	return plan, nil
}

func subscriptionContext(ctx context.Context, sub *model.Subscription) context.Context {
	return logger.WithLogFields(ctx, logger.LogFields{
		SubscriptionID: logger.Ptr(sub.ID),
		UserID:         logger.Ptr(sub.UserID),
	})
}
