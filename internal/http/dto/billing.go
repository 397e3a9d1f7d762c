package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/service"
)

type CheckoutRequest struct {
	UserID       int64  `json:"user_id,string" binding:"required"`
	TariffPlanID int64  `json:"tariff_plan_id,string" binding:"required"`
	Provider     string `json:"provider" binding:"required,max=64"`
	Currency     string `json:"currency,omitempty" binding:"omitempty,len=3"`
	ReturnURL    string `json:"return_url,omitempty" binding:"omitempty,url"`
	CancelURL    string `json:"cancel_url,omitempty" binding:"omitempty,url"`
}

type RenewalRequest struct {
	Provider  string `json:"provider" binding:"required,max=64"`
	Currency  string `json:"currency,omitempty" binding:"omitempty,len=3"`
	ReturnURL string `json:"return_url,omitempty" binding:"omitempty,url"`
	CancelURL string `json:"cancel_url,omitempty" binding:"omitempty,url"`
}

type CheckoutResponse struct {
	SubscriptionID  int64  `json:"subscription_id,string"`
	InvoiceID       int64  `json:"invoice_id,string"`
	InvoiceNumber   string `json:"invoice_number"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	CheckoutURL     string `json:"checkout_url"`
}

func ToCheckoutResponse(r *service.CheckoutResult) *CheckoutResponse {
	return &CheckoutResponse{
		SubscriptionID:  r.Subscription.ID,
		InvoiceID:       r.Invoice.ID,
		InvoiceNumber:   r.Invoice.InvoiceNumber,
		Amount:          r.Invoice.Amount.StringFixed(2),
		Currency:        r.Invoice.Currency,
		PaymentIntentID: r.PaymentIntentID,
		ClientSecret:    r.ClientSecret,
		CheckoutURL:     r.CheckoutURL,
	}
}

type SubscriptionResponse struct {
	ID           int64      `json:"id,string"`
	UserID       int64      `json:"user_id,string"`
	TariffPlanID int64      `json:"tariff_plan_id,string"`
	Status       string     `json:"status"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	DaysLeft     int        `json:"days_remaining"`
}

func ToSubscriptionResponse(s *model.Subscription, now time.Time) *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		TariffPlanID: s.TariffPlanID,
		Status:       string(s.Status),
		StartedAt:    s.StartedAt,
		ExpiresAt:    s.ExpiresAt,
		CancelledAt:  s.CancelledAt,
		DaysLeft:     s.DaysRemaining(now),
	}
}

func ToSubscriptionList(subs []model.Subscription, now time.Time) []*SubscriptionResponse {
	out := make([]*SubscriptionResponse, 0, len(subs))
	for i := range subs {
		out = append(out, ToSubscriptionResponse(&subs[i], now))
	}
	return out
}

type CancelSubscriptionRequest struct {
	CancelledBy *int64 `json:"cancelled_by,string,omitempty"`
	Reason      string `json:"reason,omitempty" binding:"max=500"`
}

type RefundRequest struct {
	InvoiceID int64 `json:"invoice_id,string" binding:"required"`
	// Amount omitted refunds the whole invoice.
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Reason string           `json:"reason,omitempty" binding:"max=500"`
}

type RefundResponse struct {
	RefundID      string `json:"refund_id"`
	InvoiceID     int64  `json:"invoice_id,string"`
	InvoiceStatus string `json:"invoice_status"`
	Amount        string `json:"amount"`
}

func ToRefundResponse(r *service.RefundResult) *RefundResponse {
	return &RefundResponse{
		RefundID:      r.RefundID,
		InvoiceID:     r.Invoice.ID,
		InvoiceStatus: string(r.Invoice.Status),
		Amount:        r.Amount,
	}
}

type CreateTariffPlanRequest struct {
	Name          string          `json:"name" binding:"required,max=255"`
	Slug          string          `json:"slug,omitempty" binding:"max=255"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency" binding:"required,len=3"`
	BillingPeriod string          `json:"billing_period,omitempty" binding:"omitempty,oneof=weekly monthly quarterly yearly one_time"`
	Features      []string        `json:"features,omitempty"`
	SortOrder     int             `json:"sort_order,omitempty"`
}

type TariffPlanResponse struct {
	ID            int64    `json:"id,string"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Description   *string  `json:"description,omitempty"`
	Price         string   `json:"price"`
	Currency      string   `json:"currency"`
	BillingPeriod string   `json:"billing_period"`
	Features      []string `json:"features"`
	IsActive      bool     `json:"is_active"`

	Pricing *PlanPricingResponse `json:"pricing,omitempty"`
}

// PlanPricingQuery selects the currency and tax country a plan is quoted in.
type PlanPricingQuery struct {
	Currency string `form:"currency" binding:"omitempty,len=3,alpha"`
	Country  string `form:"country" binding:"omitempty,len=2,alpha"`
}

func (q PlanPricingQuery) Requested() bool {
	return q.Currency != "" || q.Country != ""
}

type PlanPricingResponse struct {
	Currency  string `json:"currency"`
	Country   string `json:"country,omitempty"`
	NetAmount string `json:"net_amount"`
	TaxAmount string `json:"tax_amount"`
	Gross     string `json:"gross_amount"`
	TaxCode   string `json:"tax_code,omitempty"`
	TaxRate   string `json:"tax_rate"`
}

func ToPlanPricingResponse(p *service.PlanPrice) *PlanPricingResponse {
	return &PlanPricingResponse{
		Currency:  p.Currency,
		Country:   p.Country,
		NetAmount: p.Net.StringFixed(2),
		TaxAmount: p.Tax.StringFixed(2),
		Gross:     p.Gross.StringFixed(2),
		TaxCode:   p.TaxCode,
		TaxRate:   p.Rate.String(),
	}
}

func ToTariffPlanResponse(p *model.TariffPlan) *TariffPlanResponse {
	return &TariffPlanResponse{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price.StringFixed(2),
		Currency:      p.Currency,
		BillingPeriod: string(p.BillingPeriod),
		Features:      p.Features,
		IsActive:      p.IsActive,
	}
}
