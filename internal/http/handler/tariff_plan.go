package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dantweb/vbwd-sdk/common"
	"github.com/dantweb/vbwd-sdk/internal/http/dto"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/service"
)

type TariffPlanHandler struct {
	plans service.TariffPlanService
}

func NewTariffPlanHandler(plans service.TariffPlanService) *TariffPlanHandler {
	return &TariffPlanHandler{plans: plans}
}

func (h *TariffPlanHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTariffPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}

	plan, err := h.plans.Create(ctx, service.TariffPlanInput{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Price:         req.Price,
		Currency:      req.Currency,
		BillingPeriod: model.BillingPeriod(req.BillingPeriod),
		Features:      req.Features,
		SortOrder:     req.SortOrder,
	})
	if err != nil {
		if errors.Is(err, service.ErrPlanSlugTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, common.ErrEmptySlug) || errors.Is(err, common.ErrReservedSlug) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.ErrorContext(ctx, "failed to create tariff plan", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create tariff plan"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToTariffPlanResponse(plan))
}

// List returns the active catalog. With ?currency= or ?country= every plan
// carries a converted, taxed quote.
func (h *TariffPlanHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var q dto.PlanPricingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plans, err := h.plans.ListActive(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list tariff plans", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tariff plans"})
		return
	}

	out := make([]*dto.TariffPlanResponse, 0, len(plans))
	for i := range plans {
		resp, ok := h.quote(c, &plans[i], q)
		if !ok {
			return
		}
		out = append(out, resp)
	}

	body := gin.H{"tariff_plans": out}
	if q.Requested() {
		body["currency"] = strings.ToUpper(q.Currency)
		body["country"] = strings.ToUpper(q.Country)
	}
	c.JSON(http.StatusOK, body)
}

func (h *TariffPlanHandler) GetBySlug(c *gin.Context) {
	var q dto.PlanPricingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.plans.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tariff plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get tariff plan"})
		return
	}

	resp, ok := h.quote(c, plan, q)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// quote writes the error response itself and reports false on failure.
func (h *TariffPlanHandler) quote(c *gin.Context, plan *model.TariffPlan, q dto.PlanPricingQuery) (*dto.TariffPlanResponse, bool) {
	resp := dto.ToTariffPlanResponse(plan)
	if !q.Requested() {
		return resp, true
	}

	price, err := h.plans.Price(c.Request.Context(), plan, q.Currency, q.Country)
	if err != nil {
		if errors.Is(err, service.ErrCurrencyNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported currency"})
			return nil, false
		}
		slog.ErrorContext(c.Request.Context(), "failed to price tariff plan", "error", err, "slug", plan.Slug)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to price tariff plan"})
		return nil, false
	}
	resp.Pricing = dto.ToPlanPricingResponse(price)
	return resp, true
}

func (h *TariffPlanHandler) Deactivate(c *gin.Context) {
	ctx := c.Request.Context()

	plan, err := h.plans.GetBySlug(ctx, c.Param("slug"))
	if err == nil {
		plan, err = h.plans.Deactivate(ctx, plan.ID)
	}
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tariff plan not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to deactivate tariff plan", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate tariff plan"})
		return
	}
	c.JSON(http.StatusOK, dto.ToTariffPlanResponse(plan))
}
