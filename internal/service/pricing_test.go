package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/service"
)

var _ = Describe("CurrencyService", func() {
	var svc service.CurrencyService

	BeforeEach(func() {
		svc = service.NewCurrencyService(newMockCurrencyStore(
			model.Currency{Code: "EUR", ExchangeRate: decimal.NewFromInt(1), IsDefault: true, DecimalPlaces: 2},
			model.Currency{Code: "USD", ExchangeRate: decimal.RequireFromString("1.1"), DecimalPlaces: 2},
			model.Currency{Code: "JPY", ExchangeRate: decimal.RequireFromString("160"), DecimalPlaces: 0},
		))
	})

	It("rounds same-currency amounts to two places", func() {
		out, err := svc.Convert(context.Background(), decimal.RequireFromString("10.005"), "EUR", "EUR")
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("10.01"))
	})

	It("converts through the default currency", func() {
		out, err := svc.Convert(context.Background(), decimal.RequireFromString("11"), "USD", "JPY")
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("1600"))
	})

	It("rejects unknown codes", func() {
		_, err := svc.Convert(context.Background(), decimal.NewFromInt(1), "EUR", "XYZ")
		Expect(err).To(MatchError(service.ErrCurrencyNotFound))
	})

	It("finds the default currency", func() {
		c, err := svc.Default(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Code).To(Equal("EUR"))
	})
})

var _ = Describe("TaxService", func() {
	var svc service.TaxService

	BeforeEach(func() {
		svc = service.NewTaxService(&mockTaxStore{taxes: map[string]model.Tax{
			"VAT_DE": {Code: "VAT_DE", Rate: decimal.NewFromInt(19), IsActive: true},
			"VAT_AT": {Code: "VAT_AT", Rate: decimal.NewFromInt(20), IsActive: true, IsInclusive: true},
			"OLD":    {Code: "OLD", Rate: decimal.NewFromInt(5)},
		}})
	})

	It("calculates tax on a net amount", func() {
		tax, err := svc.Calculate(context.Background(), decimal.NewFromInt(100), "VAT_DE")
		Expect(err).NotTo(HaveOccurred())
		Expect(tax.String()).To(Equal("19"))
	})

	It("owes nothing for unknown or inactive codes", func() {
		for _, code := range []string{"NOPE", "OLD"} {
			tax, err := svc.Calculate(context.Background(), decimal.NewFromInt(100), code)
			Expect(err).NotTo(HaveOccurred())
			Expect(tax.IsZero()).To(BeTrue())
		}
	})

	It("adds exclusive tax on top", func() {
		b, err := svc.Breakdown(context.Background(), decimal.NewFromInt(100), "VAT_DE")
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Gross.String()).To(Equal("119"))
		Expect(b.TaxCode).To(Equal("VAT_DE"))
	})

	It("extracts inclusive tax from the gross amount", func() {
		b, err := svc.Breakdown(context.Background(), decimal.NewFromInt(120), "VAT_AT")
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Net.String()).To(Equal("100"))
		Expect(b.Tax.String()).To(Equal("20"))
		Expect(b.Gross.String()).To(Equal("120"))
	})

	Describe("BreakdownForCountry", func() {
		BeforeEach(func() {
			de, by, fr := "DE", "BY", "FR"
			svc = service.NewTaxService(&mockTaxStore{taxes: map[string]model.Tax{
				"VAT_DE":    {Code: "VAT_DE", Rate: decimal.NewFromInt(19), CountryCode: &de, IsActive: true},
				"CHURCH_BY": {Code: "CHURCH_BY", Rate: decimal.NewFromInt(8), CountryCode: &de, RegionCode: &by, IsActive: true},
				"VAT_FR":    {Code: "VAT_FR", Rate: decimal.NewFromInt(20), CountryCode: &fr},
			}})
		})

		It("applies the country-wide tax", func() {
			b, err := svc.BreakdownForCountry(context.Background(), decimal.NewFromInt(100), "de")
			Expect(err).NotTo(HaveOccurred())
			Expect(b.TaxCode).To(Equal("VAT_DE"))
			Expect(b.Gross.String()).To(Equal("119"))
		})

		It("owes nothing where no active tax exists", func() {
			for _, country := range []string{"FR", "US"} {
				b, err := svc.BreakdownForCountry(context.Background(), decimal.NewFromInt(100), country)
				Expect(err).NotTo(HaveOccurred())
				Expect(b.TaxCode).To(BeEmpty())
				Expect(b.Gross.String()).To(Equal("100"))
			}
		})
	})
})

var _ = Describe("TariffPlanService pricing", func() {
	var (
		svc  service.TariffPlanService
		plan *model.TariffPlan
	)

	BeforeEach(func() {
		de := "DE"
		currencies := service.NewCurrencyService(newMockCurrencyStore(
			model.Currency{Code: "EUR", ExchangeRate: decimal.NewFromInt(1), IsDefault: true, DecimalPlaces: 2},
			model.Currency{Code: "USD", ExchangeRate: decimal.RequireFromString("1.1"), DecimalPlaces: 2},
		))
		taxes := service.NewTaxService(&mockTaxStore{taxes: map[string]model.Tax{
			"VAT_DE": {Code: "VAT_DE", Rate: decimal.NewFromInt(19), CountryCode: &de, IsActive: true},
		}})
		svc = service.NewTariffPlanService(newMockTariffPlanStore(), currencies, taxes, nil)
		plan = &model.TariffPlan{Slug: "pro", Price: decimal.RequireFromString("10"), Currency: "EUR"}
	})

	It("keeps the plan currency untaxed without parameters", func() {
		price, err := svc.Price(context.Background(), plan, "", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(price.Currency).To(Equal("EUR"))
		Expect(price.Gross.String()).To(Equal("10"))
		Expect(price.Tax.IsZero()).To(BeTrue())
	})

	It("converts and then taxes for the buyer's country", func() {
		price, err := svc.Price(context.Background(), plan, "usd", "de")
		Expect(err).NotTo(HaveOccurred())
		Expect(price.Currency).To(Equal("USD"))
		Expect(price.Country).To(Equal("DE"))
		Expect(price.Net.String()).To(Equal("11"))
		Expect(price.Tax.String()).To(Equal("2.09"))
		Expect(price.Gross.String()).To(Equal("13.09"))
		Expect(price.TaxCode).To(Equal("VAT_DE"))
	})

	It("rejects an unknown currency", func() {
		_, err := svc.Price(context.Background(), plan, "XYZ", "")
		Expect(err).To(MatchError(service.ErrCurrencyNotFound))
	})
})
