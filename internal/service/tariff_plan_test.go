package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/dantweb/vbwd-sdk/common"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/service"
)

var _ = Describe("TariffPlanService", func() {
	var (
		ctx   context.Context
		plans *mockTariffPlanStore
		svc   service.TariffPlanService
	)

	BeforeEach(func() {
		ctx = context.Background()
		plans = newMockTariffPlanStore()
		svc = service.NewTariffPlanService(plans, nil, nil, nil)
	})

	It("derives the slug from the name and defaults to monthly", func() {
		plan, err := svc.Create(ctx, service.TariffPlanInput{
			Name:     "Pro Plan (2025)",
			Price:    decimal.RequireFromString("19.999"),
			Currency: "eur",
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Slug).To(Equal("pro-plan-2025"))
		Expect(plan.BillingPeriod).To(Equal(model.BillingPeriodMonthly))
		Expect(plan.Currency).To(Equal("EUR"))
		Expect(plan.Price.String()).To(Equal("20"))
		Expect(plan.IsActive).To(BeTrue())
		Expect(plans.plans).To(HaveKey(plan.ID))
	})

	It("rejects a slug already in use", func() {
		_, err := svc.Create(ctx, service.TariffPlanInput{Name: "Basic", Currency: "EUR"})
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.Create(ctx, service.TariffPlanInput{Name: "Other", Slug: "BASIC", Currency: "EUR"})
		Expect(err).To(MatchError(service.ErrPlanSlugTaken))
	})

	It("fails when neither slug nor name yields a slug", func() {
		_, err := svc.Create(ctx, service.TariffPlanInput{Name: "!!!", Currency: "EUR"})
		Expect(err).To(MatchError(common.ErrEmptySlug))
	})

	It("refuses slugs that collide with catalog routes", func() {
		_, err := svc.Create(ctx, service.TariffPlanInput{Name: "Active", Currency: "EUR"})
		Expect(err).To(MatchError(common.ErrReservedSlug))
		Expect(plans.plans).To(BeEmpty())
	})

	It("hides deactivated plans from the catalog", func() {
		plan, err := svc.Create(ctx, service.TariffPlanInput{Name: "Starter", Currency: "EUR"})
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.Deactivate(ctx, plan.ID)
		Expect(err).NotTo(HaveOccurred())

		active, err := svc.ListActive(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(active).To(BeEmpty())
	})

	It("maps missing slugs to ErrPlanNotFound", func() {
		_, err := svc.GetBySlug(ctx, "nope")
		Expect(err).To(MatchError(service.ErrPlanNotFound))
	})
})
