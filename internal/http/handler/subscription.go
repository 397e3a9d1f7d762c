package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dantweb/vbwd-sdk/internal/http/dto"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/service"
)

type SubscriptionHandler struct {
	subscriptions service.SubscriptionService
	now           func() time.Time
}

func NewSubscriptionHandler(subscriptions service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions, now: time.Now}
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := int64Param(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription id"})
		return
	}

	sub, err := h.subscriptions.Get(ctx, id)
	if err != nil {
		h.fail(c, err, "failed to get subscription")
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub, h.now()))
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := int64Param(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription id"})
		return
	}

	// body is optional
	var req dto.CancelSubscriptionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	sub, err := h.subscriptions.Cancel(ctx, id, req.CancelledBy, req.Reason)
	if err != nil {
		h.fail(c, err, "failed to cancel subscription")
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub, h.now()))
}

func (h *SubscriptionHandler) Pause(c *gin.Context) {
	h.transition(c, h.subscriptions.Pause, "failed to pause subscription")
}

func (h *SubscriptionHandler) Resume(c *gin.Context) {
	h.transition(c, h.subscriptions.Resume, "failed to resume subscription")
}

func (h *SubscriptionHandler) ListByUser(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := int64Param(c, "user_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	subs, err := h.subscriptions.ListByUser(ctx, userID)
	if err != nil {
		h.fail(c, err, "failed to list subscriptions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": dto.ToSubscriptionList(subs, h.now())})
}

func (h *SubscriptionHandler) Active(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := int64Param(c, "user_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	sub, err := h.subscriptions.GetActive(ctx, userID)
	if err != nil {
		h.fail(c, err, "failed to get active subscription")
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub, h.now()))
}

func (h *SubscriptionHandler) transition(c *gin.Context, fn func(ctx context.Context, id int64) (*model.Subscription, error), msg string) {
	id, ok := int64Param(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription id"})
		return
	}

	sub, err := fn(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, msg)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub, h.now()))
}

func (h *SubscriptionHandler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrSubscriptionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
	case errors.Is(err, model.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), msg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
