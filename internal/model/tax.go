package model

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Tax rates are percentages: 19 means 19%.
type Tax struct {
	ID          int64           `json:"id,string"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	Rate        decimal.Decimal `json:"rate"`
	CountryCode *string         `json:"country_code,omitempty"`
	RegionCode  *string         `json:"region_code,omitempty"`
	IsActive    bool            `json:"is_active"`
	IsInclusive bool            `json:"is_inclusive"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (t *Tax) Calculate(net decimal.Decimal) decimal.Decimal {
	return net.Mul(t.Rate).Div(hundred).Round(2)
}

func (t *Tax) Gross(net decimal.Decimal) decimal.Decimal {
	return net.Add(t.Calculate(net))
}

func (t *Tax) ExtractNet(gross decimal.Decimal) decimal.Decimal {
	divisor := decimal.NewFromInt(1).Add(t.Rate.Div(hundred))
	return gross.Div(divisor).Round(2)
}

func (t *Tax) ExtractTax(gross decimal.Decimal) decimal.Decimal {
	return gross.Sub(t.ExtractNet(gross))
}

func (t *Tax) AppliesTo(countryCode string, regionCode *string) bool {
	if t.CountryCode != nil && *t.CountryCode != countryCode {
		return false
	}
	if t.RegionCode != nil && (regionCode == nil || *t.RegionCode != *regionCode) {
		return false
	}
	return true
}
