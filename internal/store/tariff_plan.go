package store

import (
	"context"

	"github.com/dantweb/vbwd-sdk/core/db/sqlc"
	"github.com/dantweb/vbwd-sdk/internal/model"
)

type tariffPlanStore struct {
	queries *sqlc.Queries
}

func newTariffPlanStore(queries *sqlc.Queries) TariffPlanStore {
	return &tariffPlanStore{queries: queries}
}

func (s *tariffPlanStore) GetByID(ctx context.Context, id int64) (*model.TariffPlan, error) {
	row, err := s.queries.GetTariffPlan(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toTariffPlanModel(row), nil
}

func (s *tariffPlanStore) GetBySlug(ctx context.Context, slug string) (*model.TariffPlan, error) {
	row, err := s.queries.GetTariffPlanBySlug(ctx, slug)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toTariffPlanModel(row), nil
}

func (s *tariffPlanStore) List(ctx context.Context, limit, offset int32) ([]model.TariffPlan, error) {
	rows, err := s.queries.ListTariffPlans(ctx, sqlc.ListTariffPlansParams{Limit: limit, Offset: offset})
	return toModels(rows, err, toTariffPlanModel)
}

func (s *tariffPlanStore) ListActive(ctx context.Context) ([]model.TariffPlan, error) {
	rows, err := s.queries.ListActiveTariffPlans(ctx)
	return toModels(rows, err, toTariffPlanModel)
}

func (s *tariffPlanStore) Save(ctx context.Context, p *model.TariffPlan, expectedVersion *int) error {
	// features is NOT NULL
	features := p.Features
	if features == nil {
		features = []string{}
	}

	if isInsert(p.Version, expectedVersion) {
		row, err := s.queries.CreateTariffPlan(ctx, sqlc.CreateTariffPlanParams{
			ID:            p.ID,
			Name:          p.Name,
			Slug:          p.Slug,
			Description:   p.Description,
			Price:         p.Price,
			Currency:      p.Currency,
			BillingPeriod: string(p.BillingPeriod),
			Features:      features,
			IsActive:      p.IsActive,
			SortOrder:     int32(p.SortOrder),
		})
		if err != nil {
			return err
		}
		*p = *toTariffPlanModel(row)
		return nil
	}

	row, err := s.queries.UpdateTariffPlan(ctx, sqlc.UpdateTariffPlanParams{
		Name:            p.Name,
		Slug:            p.Slug,
		Description:     p.Description,
		Price:           p.Price,
		Currency:        p.Currency,
		BillingPeriod:   string(p.BillingPeriod),
		Features:        features,
		IsActive:        p.IsActive,
		SortOrder:       int32(p.SortOrder),
		ID:              p.ID,
		ExpectedVersion: expected(p.Version, expectedVersion),
	})
	if err != nil {
		return updateMiss(ctx, err, p.ID, s.queries.TariffPlanExists)
	}
	*p = *toTariffPlanModel(row)
	return nil
}

func (s *tariffPlanStore) Delete(ctx context.Context, id int64) error {
	return deleted(s.queries.DeleteTariffPlan(ctx, id))
}

func toTariffPlanModel(row sqlc.TariffPlan) *model.TariffPlan {
	return &model.TariffPlan{
		ID:            row.ID,
		Name:          row.Name,
		Slug:          row.Slug,
		Description:   row.Description,
		Price:         row.Price,
		Currency:      row.Currency,
		BillingPeriod: model.BillingPeriod(row.BillingPeriod),
		Features:      row.Features,
		IsActive:      row.IsActive,
		SortOrder:     int(row.SortOrder),
		Version:       int(row.Version),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
