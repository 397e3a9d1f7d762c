package store

import (
	"context"
	"time"

	"github.com/dantweb/vbwd-sdk/core/db/sqlc"
	"github.com/dantweb/vbwd-sdk/internal/model"
)

type subscriptionStore struct {
	queries *sqlc.Queries
}

func newSubscriptionStore(queries *sqlc.Queries) SubscriptionStore {
	return &subscriptionStore{queries: queries}
}

func (s *subscriptionStore) GetByID(ctx context.Context, id int64) (*model.Subscription, error) {
	row, err := s.queries.GetSubscription(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toSubscriptionModel(row), nil
}

func (s *subscriptionStore) List(ctx context.Context, limit, offset int32) ([]model.Subscription, error) {
	rows, err := s.queries.ListSubscriptions(ctx, sqlc.ListSubscriptionsParams{Limit: limit, Offset: offset})
	return toModels(rows, err, toSubscriptionModel)
}

func (s *subscriptionStore) ListByUser(ctx context.Context, userID int64) ([]model.Subscription, error) {
	rows, err := s.queries.ListSubscriptionsByUser(ctx, userID)
	return toModels(rows, err, toSubscriptionModel)
}

func (s *subscriptionStore) GetActiveByUser(ctx context.Context, userID int64) (*model.Subscription, error) {
	row, err := s.queries.GetActiveSubscriptionByUser(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toSubscriptionModel(row), nil
}

func (s *subscriptionStore) ListExpired(ctx context.Context, now time.Time, limit int32) ([]model.Subscription, error) {
	rows, err := s.queries.ListExpiredSubscriptions(ctx, sqlc.ListExpiredSubscriptionsParams{
		Now:      now,
		RowLimit: limit,
	})
	return toModels(rows, err, toSubscriptionModel)
}

func (s *subscriptionStore) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]model.Subscription, error) {
	rows, err := s.queries.ListSubscriptionsExpiringBetween(ctx, sqlc.ListSubscriptionsExpiringBetweenParams{
		FromTime: from,
		ToTime:   to,
	})
	return toModels(rows, err, toSubscriptionModel)
}

func (s *subscriptionStore) Save(ctx context.Context, sub *model.Subscription, expectedVersion *int) error {
	if isInsert(sub.Version, expectedVersion) {
		row, err := s.queries.CreateSubscription(ctx, sqlc.CreateSubscriptionParams{
			ID:           sub.ID,
			UserID:       sub.UserID,
			TariffPlanID: sub.TariffPlanID,
			Status:       string(sub.Status),
			StartedAt:    sub.StartedAt,
			ExpiresAt:    sub.ExpiresAt,
			CancelledAt:  sub.CancelledAt,
			PausedAt:     sub.PausedAt,
		})
		if err != nil {
			return err
		}
		*sub = *toSubscriptionModel(row)
		return nil
	}

	row, err := s.queries.UpdateSubscription(ctx, sqlc.UpdateSubscriptionParams{
		Status:          string(sub.Status),
		StartedAt:       sub.StartedAt,
		ExpiresAt:       sub.ExpiresAt,
		CancelledAt:     sub.CancelledAt,
		PausedAt:        sub.PausedAt,
		ID:              sub.ID,
		ExpectedVersion: expected(sub.Version, expectedVersion),
	})
	if err != nil {
		return updateMiss(ctx, err, sub.ID, s.queries.SubscriptionExists)
	}
	*sub = *toSubscriptionModel(row)
	return nil
}

func (s *subscriptionStore) Delete(ctx context.Context, id int64) error {
	return deleted(s.queries.DeleteSubscription(ctx, id))
}

func toSubscriptionModel(row sqlc.Subscription) *model.Subscription {
	return &model.Subscription{
		ID:           row.ID,
		UserID:       row.UserID,
		TariffPlanID: row.TariffPlanID,
		Status:       model.SubscriptionStatus(row.Status),
		StartedAt:    row.StartedAt,
		ExpiresAt:    row.ExpiresAt,
		CancelledAt:  row.CancelledAt,
		PausedAt:     row.PausedAt,
		Version:      int(row.Version),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
