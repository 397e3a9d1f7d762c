package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/store"
)

type CurrencyService interface {
	Default(ctx context.Context) (*model.Currency, error)
	GetByCode(ctx context.Context, code string) (*model.Currency, error)
	// Convert goes through the default currency and rounds to 2 places.
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

type currencyService struct {
	currencies store.CurrencyStore
}

func NewCurrencyService(currencies store.CurrencyStore) CurrencyService {
	return &currencyService{currencies: currencies}
}

func (s *currencyService) Default(ctx context.Context) (*model.Currency, error) {
	c, err := s.currencies.GetDefault(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: no default currency", ErrCurrencyNotFound)
		}
		return nil, fmt.Errorf("getting default currency: %w", err)
	}
	return c, nil
}

func (s *currencyService) GetByCode(ctx context.Context, code string) (*model.Currency, error) {
	c, err := s.currencies.GetByCode(ctx, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCurrencyNotFound, code)
		}
		return nil, fmt.Errorf("getting currency %s: %w", code, err)
	}
	return c, nil
}

func (s *currencyService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if strings.EqualFold(from, to) {
		return amount.Round(2), nil
	}

	source, err := s.GetByCode(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	target, err := s.GetByCode(ctx, to)
	if err != nil {
		return decimal.Zero, err
	}

	converted, err := source.ConvertTo(amount, target)
	if err != nil {
		return decimal.Zero, fmt.Errorf("converting %s to %s: %w", from, to, err)
	}
	return converted.Round(2), nil
}
