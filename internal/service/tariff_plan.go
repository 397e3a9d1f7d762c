package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dantweb/vbwd-sdk/common"
	"github.com/dantweb/vbwd-sdk/common/id"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/store"
)

type TariffPlanInput struct {
	Name          string
	Slug          string
	Description   *string
	Price         decimal.Decimal
	Currency      string
	BillingPeriod model.BillingPeriod
	Features      []string
	SortOrder     int
}

// PlanPrice is a plan's price in a buyer's currency, taxed for their country.
type PlanPrice struct {
	Currency string
	Country  string
	TaxBreakdown
}

type TariffPlanService interface {
	// Create derives the slug from Slug, falling back to Name.
	Create(ctx context.Context, in TariffPlanInput) (*model.TariffPlan, error)
	GetBySlug(ctx context.Context, slug string) (*model.TariffPlan, error)
	ListActive(ctx context.Context) ([]model.TariffPlan, error)
	Deactivate(ctx context.Context, id int64) (*model.TariffPlan, error)
	// Price converts the plan price into currency (plan currency when empty)
	// and adds the country's tax when country is set.
	Price(ctx context.Context, plan *model.TariffPlan, currency, country string) (*PlanPrice, error)
}

type tariffPlanService struct {
	plans      store.TariffPlanStore
	currencies CurrencyService
	taxes      TaxService
	logger     *slog.Logger
}

func NewTariffPlanService(plans store.TariffPlanStore, currencies CurrencyService, taxes TaxService, logger *slog.Logger) TariffPlanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &tariffPlanService{plans: plans, currencies: currencies, taxes: taxes, logger: logger}
}

func (s *tariffPlanService) Create(ctx context.Context, in TariffPlanInput) (*model.TariffPlan, error) {
	slug, err := common.PlanSlug(in.Slug, in.Name)
	if err != nil {
		return nil, fmt.Errorf("deriving plan slug: %w", err)
	}

	if _, err := s.plans.GetBySlug(ctx, slug); err == nil {
		return nil, ErrPlanSlugTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking plan slug: %w", err)
	}

	period := in.BillingPeriod
	if period == "" {
		period = model.BillingPeriodMonthly
	}
	features := in.Features
	if features == nil {
		features = []string{}
	}

	plan := &model.TariffPlan{
		ID:            id.New(),
		Name:          strings.TrimSpace(in.Name),
		Slug:          slug,
		Description:   in.Description,
		Price:         in.Price.Round(2),
		Currency:      strings.ToUpper(in.Currency),
		BillingPeriod: period,
		Features:      features,
		IsActive:      true,
		SortOrder:     in.SortOrder,
	}
	if err := s.plans.Save(ctx, plan, nil); err != nil {
		return nil, fmt.Errorf("creating plan: %w", err)
	}

	s.logger.InfoContext(ctx, "tariff plan created", "tariff_plan_id", plan.ID, "slug", slug, "billing_period", period)
	return plan, nil
}

func (s *tariffPlanService) GetBySlug(ctx context.Context, slug string) (*model.TariffPlan, error) {
	plan, err := s.plans.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("getting plan: %w", err)
	}
	return plan, nil
}

func (s *tariffPlanService) ListActive(ctx context.Context) ([]model.TariffPlan, error) {
	plans, err := s.plans.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	return plans, nil
}

// Deactivate hides a plan from new checkouts. Existing subscriptions keep
// running until they expire.
func (s *tariffPlanService) Deactivate(ctx context.Context, id int64) (*model.TariffPlan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("getting plan: %w", err)
	}
	if !plan.IsActive {
		return plan, nil
	}

	version := plan.Version
	plan.IsActive = false
	if err := s.plans.Save(ctx, plan, &version); err != nil {
		return nil, fmt.Errorf("deactivating plan: %w", err)
	}
	s.logger.InfoContext(ctx, "tariff plan deactivated", "tariff_plan_id", id)
	return plan, nil
}

func (s *tariffPlanService) Price(ctx context.Context, plan *model.TariffPlan, currency, country string) (*PlanPrice, error) {
	currency = strings.ToUpper(currency)
	if currency == "" {
		currency = plan.Currency
	}
	amount, err := s.currencies.Convert(ctx, plan.Price, plan.Currency, currency)
	if err != nil {
		return nil, err
	}

	price := &PlanPrice{Currency: currency, Country: strings.ToUpper(country), TaxBreakdown: untaxed(amount)}
	if country == "" {
		return price, nil
	}
	price.TaxBreakdown, err = s.taxes.BreakdownForCountry(ctx, amount, country)
	if err != nil {
		return nil, err
	}
	return price, nil
}
