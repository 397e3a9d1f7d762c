package handler_test

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/service"
	"github.com/dantweb/vbwd-sdk/internal/webhook"
)

type mockUserService struct {
	createFn       func(ctx context.Context, email string, role model.UserRole) (*model.User, error)
	getFn          func(ctx context.Context, id int64) (*model.User, error)
	updateStatusFn func(ctx context.Context, id int64, status model.UserStatus, updatedBy *int64, reason string) (*model.User, error)
	deleteFn       func(ctx context.Context, id int64, deletedBy *int64, reason string) error
}

func (m *mockUserService) Create(ctx context.Context, email string, role model.UserRole) (*model.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, email, role)
	}
	return nil, nil
}

func (m *mockUserService) Get(ctx context.Context, id int64) (*model.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, service.ErrUserNotFound
}

func (m *mockUserService) UpdateStatus(ctx context.Context, id int64, status model.UserStatus, updatedBy *int64, reason string) (*model.User, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status, updatedBy, reason)
	}
	return nil, nil
}

func (m *mockUserService) Delete(ctx context.Context, id int64, deletedBy *int64, reason string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, deletedBy, reason)
	}
	return nil
}

type mockSubscriptionService struct {
	service.SubscriptionService

	getFn        func(ctx context.Context, id int64) (*model.Subscription, error)
	cancelFn     func(ctx context.Context, id int64, cancelledBy *int64, reason string) (*model.Subscription, error)
	pauseFn      func(ctx context.Context, id int64) (*model.Subscription, error)
	getActiveFn  func(ctx context.Context, userID int64) (*model.Subscription, error)
	listByUserFn func(ctx context.Context, userID int64) ([]model.Subscription, error)
}

func (m *mockSubscriptionService) Get(ctx context.Context, id int64) (*model.Subscription, error) {
	return m.getFn(ctx, id)
}

func (m *mockSubscriptionService) Cancel(ctx context.Context, id int64, cancelledBy *int64, reason string) (*model.Subscription, error) {
	return m.cancelFn(ctx, id, cancelledBy, reason)
}

func (m *mockSubscriptionService) Pause(ctx context.Context, id int64) (*model.Subscription, error) {
	return m.pauseFn(ctx, id)
}

func (m *mockSubscriptionService) GetActive(ctx context.Context, userID int64) (*model.Subscription, error) {
	return m.getActiveFn(ctx, userID)
}

func (m *mockSubscriptionService) ListByUser(ctx context.Context, userID int64) ([]model.Subscription, error) {
	return m.listByUserFn(ctx, userID)
}

type mockCheckoutService struct {
	checkoutFn func(ctx context.Context, req service.CheckoutRequest) (*service.CheckoutResult, error)
	lastReq    service.CheckoutRequest

	renewFn      func(ctx context.Context, req service.RenewalRequest) (*service.CheckoutResult, error)
	lastRenewReq service.RenewalRequest
}

func (m *mockCheckoutService) Checkout(ctx context.Context, req service.CheckoutRequest) (*service.CheckoutResult, error) {
	m.lastReq = req
	return m.checkoutFn(ctx, req)
}

func (m *mockCheckoutService) Renew(ctx context.Context, req service.RenewalRequest) (*service.CheckoutResult, error) {
	m.lastRenewReq = req
	return m.renewFn(ctx, req)
}

type mockRefundService struct {
	refundFn func(ctx context.Context, req service.RefundRequest) (*service.RefundResult, error)
	lastReq  service.RefundRequest
}

func (m *mockRefundService) Refund(ctx context.Context, req service.RefundRequest) (*service.RefundResult, error) {
	m.lastReq = req
	return m.refundFn(ctx, req)
}

type processCall struct {
	provider  string
	payload   []byte
	signature string
	headers   map[string]string
}

type mockWebhookProcessor struct {
	result webhook.Result
	calls  []processCall
}

func (m *mockWebhookProcessor) Process(_ context.Context, provider string, payload []byte, signature string, headers map[string]string) webhook.Result {
	m.calls = append(m.calls, processCall{provider: provider, payload: payload, signature: signature, headers: headers})
	return m.result
}

type mockTariffPlanService struct {
	plans     map[string]*model.TariffPlan
	createErr error
	priceFn   func(plan *model.TariffPlan, currency, country string) (*service.PlanPrice, error)
}

func (m *mockTariffPlanService) Create(_ context.Context, in service.TariffPlanInput) (*model.TariffPlan, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	slug := in.Slug
	if slug == "" {
		slug = in.Name
	}
	if _, ok := m.plans[slug]; ok {
		return nil, service.ErrPlanSlugTaken
	}
	p := &model.TariffPlan{ID: int64(len(m.plans) + 1), Name: in.Name, Slug: slug, Price: in.Price, Currency: in.Currency, BillingPeriod: in.BillingPeriod, IsActive: true}
	m.plans[slug] = p
	return p, nil
}

func (m *mockTariffPlanService) GetBySlug(_ context.Context, slug string) (*model.TariffPlan, error) {
	if p, ok := m.plans[slug]; ok {
		return p, nil
	}
	return nil, service.ErrPlanNotFound
}

func (m *mockTariffPlanService) ListActive(context.Context) ([]model.TariffPlan, error) {
	var out []model.TariffPlan
	for _, p := range m.plans {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockTariffPlanService) Price(_ context.Context, plan *model.TariffPlan, currency, country string) (*service.PlanPrice, error) {
	if m.priceFn != nil {
		return m.priceFn(plan, currency, country)
	}
	return &service.PlanPrice{
		Currency: currency,
		Country:  country,
		TaxBreakdown: service.TaxBreakdown{
			Net:   plan.Price,
			Tax:   decimal.Zero,
			Gross: plan.Price,
			Rate:  decimal.Zero,
		},
	}, nil
}

func (m *mockTariffPlanService) Deactivate(_ context.Context, id int64) (*model.TariffPlan, error) {
	for _, p := range m.plans {
		if p.ID == id {
			p.IsActive = false
			return p, nil
		}
	}
	return nil, service.ErrPlanNotFound
}
