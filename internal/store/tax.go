package store

import (
	"context"

	"github.com/dantweb/vbwd-sdk/core/db/sqlc"
	"github.com/dantweb/vbwd-sdk/internal/model"
)

type taxStore struct {
	queries *sqlc.Queries
}

func newTaxStore(queries *sqlc.Queries) TaxStore {
	return &taxStore{queries: queries}
}

func (s *taxStore) GetByID(ctx context.Context, id int64) (*model.Tax, error) {
	row, err := s.queries.GetTax(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toTaxModel(row), nil
}

func (s *taxStore) GetByCode(ctx context.Context, code string) (*model.Tax, error) {
	row, err := s.queries.GetTaxByCode(ctx, code)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toTaxModel(row), nil
}

func (s *taxStore) List(ctx context.Context, limit, offset int32) ([]model.Tax, error) {
	rows, err := s.queries.ListTaxes(ctx, sqlc.ListTaxesParams{Limit: limit, Offset: offset})
	return toModels(rows, err, toTaxModel)
}

func (s *taxStore) ListActiveByCountry(ctx context.Context, countryCode string) ([]model.Tax, error) {
	rows, err := s.queries.ListActiveTaxesByCountry(ctx, countryCode)
	return toModels(rows, err, toTaxModel)
}

func (s *taxStore) Save(ctx context.Context, t *model.Tax, expectedVersion *int) error {
	if isInsert(t.Version, expectedVersion) {
		row, err := s.queries.CreateTax(ctx, sqlc.CreateTaxParams{
			ID:          t.ID,
			Name:        t.Name,
			Code:        t.Code,
			Rate:        t.Rate,
			CountryCode: t.CountryCode,
			RegionCode:  t.RegionCode,
			IsActive:    t.IsActive,
			IsInclusive: t.IsInclusive,
		})
		if err != nil {
			return err
		}
		*t = *toTaxModel(row)
		return nil
	}

	row, err := s.queries.UpdateTax(ctx, sqlc.UpdateTaxParams{
		Name:            t.Name,
		Code:            t.Code,
		Rate:            t.Rate,
		CountryCode:     t.CountryCode,
		RegionCode:      t.RegionCode,
		IsActive:        t.IsActive,
		IsInclusive:     t.IsInclusive,
		ID:              t.ID,
		ExpectedVersion: expected(t.Version, expectedVersion),
	})
	if err != nil {
		return updateMiss(ctx, err, t.ID, s.queries.TaxExists)
	}
	*t = *toTaxModel(row)
	return nil
}

func (s *taxStore) Delete(ctx context.Context, id int64) error {
	return deleted(s.queries.DeleteTax(ctx, id))
}

func toTaxModel(row sqlc.Tax) *model.Tax {
	return &model.Tax{
		ID:          row.ID,
		Name:        row.Name,
		Code:        row.Code,
		Rate:        row.Rate,
		CountryCode: row.CountryCode,
		RegionCode:  row.RegionCode,
		IsActive:    row.IsActive,
		IsInclusive: row.IsInclusive,
		Version:     int(row.Version),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
