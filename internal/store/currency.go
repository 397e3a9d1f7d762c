package store

import (
	"context"

	"github.com/dantweb/vbwd-sdk/core/db/sqlc"
	"github.com/dantweb/vbwd-sdk/internal/model"
)

type currencyStore struct {
	queries *sqlc.Queries
}

func newCurrencyStore(queries *sqlc.Queries) CurrencyStore {
	return &currencyStore{queries: queries}
}

func (s *currencyStore) GetByID(ctx context.Context, id int64) (*model.Currency, error) {
	row, err := s.queries.GetCurrency(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toCurrencyModel(row), nil
}

func (s *currencyStore) GetByCode(ctx context.Context, code string) (*model.Currency, error) {
	row, err := s.queries.GetCurrencyByCode(ctx, code)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toCurrencyModel(row), nil
}

func (s *currencyStore) GetDefault(ctx context.Context) (*model.Currency, error) {
	row, err := s.queries.GetDefaultCurrency(ctx)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toCurrencyModel(row), nil
}

func (s *currencyStore) List(ctx context.Context, limit, offset int32) ([]model.Currency, error) {
	rows, err := s.queries.ListCurrencies(ctx, sqlc.ListCurrenciesParams{Limit: limit, Offset: offset})
	return toModels(rows, err, toCurrencyModel)
}

func (s *currencyStore) Save(ctx context.Context, c *model.Currency, expectedVersion *int) error {
	if isInsert(c.Version, expectedVersion) {
		row, err := s.queries.CreateCurrency(ctx, sqlc.CreateCurrencyParams{
			ID:            c.ID,
			Code:          c.Code,
			Name:          c.Name,
			Symbol:        c.Symbol,
			ExchangeRate:  c.ExchangeRate,
			IsDefault:     c.IsDefault,
			IsActive:      c.IsActive,
			DecimalPlaces: c.DecimalPlaces,
		})
		if err != nil {
			return err
		}
		*c = *toCurrencyModel(row)
		return nil
	}

	row, err := s.queries.UpdateCurrency(ctx, sqlc.UpdateCurrencyParams{
		Code:            c.Code,
		Name:            c.Name,
		Symbol:          c.Symbol,
		ExchangeRate:    c.ExchangeRate,
		IsDefault:       c.IsDefault,
		IsActive:        c.IsActive,
		DecimalPlaces:   c.DecimalPlaces,
		ID:              c.ID,
		ExpectedVersion: expected(c.Version, expectedVersion),
	})
	if err != nil {
		return updateMiss(ctx, err, c.ID, s.queries.CurrencyExists)
	}
	*c = *toCurrencyModel(row)
	return nil
}

func (s *currencyStore) Delete(ctx context.Context, id int64) error {
	return deleted(s.queries.DeleteCurrency(ctx, id))
}

func toCurrencyModel(row sqlc.Currency) *model.Currency {
	return &model.Currency{
		ID:            row.ID,
		Code:          row.Code,
		Name:          row.Name,
		Symbol:        row.Symbol,
		ExchangeRate:  row.ExchangeRate,
		IsDefault:     row.IsDefault,
		IsActive:      row.IsActive,
		DecimalPlaces: row.DecimalPlaces,
		Version:       int(row.Version),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
