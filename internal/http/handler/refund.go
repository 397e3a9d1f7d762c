package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dantweb/vbwd-sdk/internal/cache"
	"github.com/dantweb/vbwd-sdk/internal/http/dto"
	"github.com/dantweb/vbwd-sdk/internal/service"
)

type RefundHandler struct {
	refunds service.RefundService
}

func NewRefundHandler(refunds service.RefundService) *RefundHandler {
	return &RefundHandler{refunds: refunds}
}

func (h *RefundHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.refunds.Refund(ctx, service.RefundRequest{
		InvoiceID: req.InvoiceID,
		Amount:    req.Amount,
		Reason:    req.Reason,
	})
	if err != nil {
		var perr *service.ProviderError
		switch {
		case errors.As(err, &perr):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": perr.Message})
		case errors.Is(err, service.ErrInvoiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		case errors.Is(err, service.ErrInvoiceNotRefundable):
			c.JSON(http.StatusConflict, gin.H{"error": "invoice is not refundable"})
		case errors.Is(err, service.ErrInvalidRefundAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid refund amount"})
		case errors.Is(err, cache.ErrLockNotAcquired):
			c.JSON(http.StatusConflict, gin.H{"error": "refund already in progress"})
		default:
			slog.ErrorContext(ctx, "refund failed", "error", err, "invoice_id", req.InvoiceID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "refund failed"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRefundResponse(res))
}
