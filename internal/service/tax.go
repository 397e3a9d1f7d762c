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

type TaxBreakdown struct {
	Net     decimal.Decimal `json:"net_amount"`
	Tax     decimal.Decimal `json:"tax_amount"`
	Gross   decimal.Decimal `json:"gross_amount"`
	TaxCode string          `json:"tax_code,omitempty"`
	Rate    decimal.Decimal `json:"tax_rate"`
}

type TaxService interface {
	// Calculate returns the tax due on a net amount. Unknown codes owe nothing.
	Calculate(ctx context.Context, net decimal.Decimal, code string) (decimal.Decimal, error)
	// Breakdown splits amount into net, tax and gross. Inclusive taxes treat
	// amount as gross.
	Breakdown(ctx context.Context, amount decimal.Decimal, code string) (TaxBreakdown, error)
	// BreakdownForCountry applies the country-wide tax of countryCode.
	// Regional taxes are ignored; a country without one owes nothing.
	BreakdownForCountry(ctx context.Context, amount decimal.Decimal, countryCode string) (TaxBreakdown, error)
}

type taxService struct {
	taxes store.TaxStore
}

func NewTaxService(taxes store.TaxStore) TaxService {
	return &taxService{taxes: taxes}
}

func (s *taxService) Calculate(ctx context.Context, net decimal.Decimal, code string) (decimal.Decimal, error) {
	tax, err := s.lookup(ctx, code)
	if err != nil {
		if errors.Is(err, ErrTaxNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return tax.Calculate(net), nil
}

func (s *taxService) Breakdown(ctx context.Context, amount decimal.Decimal, code string) (TaxBreakdown, error) {
	tax, err := s.lookup(ctx, code)
	if err != nil {
		if errors.Is(err, ErrTaxNotFound) {
			return untaxed(amount), nil
		}
		return TaxBreakdown{}, err
	}
	return split(tax, amount), nil
}

func (s *taxService) BreakdownForCountry(ctx context.Context, amount decimal.Decimal, countryCode string) (TaxBreakdown, error) {
	country := strings.ToUpper(countryCode)
	taxes, err := s.taxes.ListActiveByCountry(ctx, country)
	if err != nil {
		return TaxBreakdown{}, fmt.Errorf("listing taxes for %s: %w", country, err)
	}
	for i := range taxes {
		if taxes[i].AppliesTo(country, nil) {
			return split(&taxes[i], amount), nil
		}
	}
	return untaxed(amount), nil
}

func untaxed(amount decimal.Decimal) TaxBreakdown {
	return TaxBreakdown{Net: amount, Tax: decimal.Zero, Gross: amount, Rate: decimal.Zero}
}

func split(tax *model.Tax, amount decimal.Decimal) TaxBreakdown {
	b := TaxBreakdown{TaxCode: tax.Code, Rate: tax.Rate}
	if tax.IsInclusive {
		b.Gross = amount
		b.Net = tax.ExtractNet(amount)
		b.Tax = amount.Sub(b.Net)
	} else {
		b.Net = amount
		b.Tax = tax.Calculate(amount)
		b.Gross = amount.Add(b.Tax)
	}
	return b
}

// lookup treats inactive taxes as missing.
func (s *taxService) lookup(ctx context.Context, code string) (*model.Tax, error) {
	tax, err := s.taxes.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTaxNotFound
		}
		return nil, fmt.Errorf("getting tax %s: %w", code, err)
	}
	if !tax.IsActive {
		return nil, ErrTaxNotFound
	}
	return tax, nil
}
