package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dantweb/vbwd-sdk/internal/cache"
	"github.com/dantweb/vbwd-sdk/internal/http/dto"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/service"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
}

func NewCheckoutHandler(checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

func (h *CheckoutHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid checkout request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.checkout.Checkout(ctx, service.CheckoutRequest{
		UserID:       req.UserID,
		TariffPlanID: req.TariffPlanID,
		Provider:     req.Provider,
		Currency:     req.Currency,
		ReturnURL:    req.ReturnURL,
		CancelURL:    req.CancelURL,
	})
	if err != nil {
		if !writeCheckoutError(c, err) {
			slog.ErrorContext(ctx, "checkout failed", "error", err, "user_id", req.UserID, "tariff_plan_id", req.TariffPlanID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToCheckoutResponse(res))
}

// Renew bills the next period of an active subscription.
func (h *CheckoutHandler) Renew(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := int64Param(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription id"})
		return
	}

	var req dto.RenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.checkout.Renew(ctx, service.RenewalRequest{
		SubscriptionID: id,
		Provider:       req.Provider,
		Currency:       req.Currency,
		ReturnURL:      req.ReturnURL,
		CancelURL:      req.CancelURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		case errors.Is(err, model.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "only active subscriptions can be renewed"})
		case errors.Is(err, cache.ErrLockNotAcquired):
			c.JSON(http.StatusConflict, gin.H{"error": "renewal already in progress"})
		case writeCheckoutError(c, err):
		default:
			slog.ErrorContext(ctx, "renewal failed", "error", err, "subscription_id", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "renewal failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToCheckoutResponse(res))
}

// writeCheckoutError answers the errors checkout and renewal share and
// reports whether it wrote a response.
func writeCheckoutError(c *gin.Context, err error) bool {
	var perr *service.ProviderError
	switch {
	case errors.As(err, &perr):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": perr.Message})
	case errors.Is(err, service.ErrPlanNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "tariff plan not found"})
	case errors.Is(err, service.ErrPlanInactive):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "tariff plan is not active"})
	case errors.Is(err, service.ErrCurrencyNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported currency"})
	default:
		return false
	}
	return true
}
