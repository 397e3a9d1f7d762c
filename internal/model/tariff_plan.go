package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillingPeriod string

const (
	BillingPeriodWeekly    BillingPeriod = "weekly"
	BillingPeriodMonthly   BillingPeriod = "monthly"
	BillingPeriodQuarterly BillingPeriod = "quarterly"
	BillingPeriodYearly    BillingPeriod = "yearly"
	BillingPeriodOneTime   BillingPeriod = "one_time"
)

var periodDays = map[BillingPeriod]int{
	BillingPeriodWeekly:    7,
	BillingPeriodMonthly:   30,
	BillingPeriodQuarterly: 90,
	BillingPeriodYearly:    365,
	BillingPeriodOneTime:   36500,
}

// PeriodDays returns the subscription duration for a billing period.
// Unknown periods fall back to a month.
func PeriodDays(p BillingPeriod) int {
	if d, ok := periodDays[p]; ok {
		return d
	}
	return 30
}

type TariffPlan struct {
	ID            int64           `json:"id,string"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	BillingPeriod BillingPeriod   `json:"billing_period"`
	Features      []string        `json:"features"`
	IsActive      bool            `json:"is_active"`
	SortOrder     int             `json:"sort_order"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p *TariffPlan) IsRecurring() bool {
	return p.BillingPeriod != BillingPeriodOneTime
}

func (p *TariffPlan) DurationDays() int {
	return PeriodDays(p.BillingPeriod)
}
