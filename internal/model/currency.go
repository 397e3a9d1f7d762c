package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrZeroExchangeRate = errors.New("exchange rate cannot be zero")

// Currency stores an exchange rate relative to the default currency.
// All plan prices are kept in the default currency.
type Currency struct {
	ID            int64           `json:"id,string"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Symbol        string          `json:"symbol"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
	IsDefault     bool            `json:"is_default"`
	IsActive      bool            `json:"is_active"`
	DecimalPlaces int32           `json:"decimal_places"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (c *Currency) FromDefault(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(c.ExchangeRate).Round(c.DecimalPlaces)
}

func (c *Currency) ToDefault(amount decimal.Decimal) (decimal.Decimal, error) {
	if c.ExchangeRate.IsZero() {
		return decimal.Zero, ErrZeroExchangeRate
	}
	return amount.Div(c.ExchangeRate).Round(2), nil
}

// ConvertTo converts through the default currency.
func (c *Currency) ConvertTo(amount decimal.Decimal, target *Currency) (decimal.Decimal, error) {
	inDefault, err := c.ToDefault(amount)
	if err != nil {
		return decimal.Zero, err
	}
	return target.FromDefault(inDefault), nil
}
