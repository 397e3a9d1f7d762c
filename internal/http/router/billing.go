package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dantweb/vbwd-sdk/internal/http/handler"
)

func UserRouter(rg *gin.RouterGroup, users *handler.UserHandler, subs *handler.SubscriptionHandler) {
	rg.POST("", users.Create)
	rg.GET("/:user_id", users.Get)
	rg.PATCH("/:user_id/status", users.UpdateStatus)
	rg.DELETE("/:user_id", users.Delete)

	rg.GET("/:user_id/subscriptions", subs.ListByUser)
	rg.GET("/:user_id/subscriptions/active", subs.Active)
}

func SubscriptionRouter(rg *gin.RouterGroup, h *handler.SubscriptionHandler, checkout *handler.CheckoutHandler) {
	rg.GET("/:id", h.Get)
	rg.POST("/:id/cancel", h.Cancel)
	rg.POST("/:id/pause", h.Pause)
	rg.POST("/:id/resume", h.Resume)
	rg.POST("/:id/renew", checkout.Renew)
}

func BillingRouter(rg *gin.RouterGroup, checkout *handler.CheckoutHandler, refunds *handler.RefundHandler) {
	rg.POST("/checkout", checkout.Create)
	rg.POST("/refunds", refunds.Create)
}

func TariffPlanRouter(rg *gin.RouterGroup, h *handler.TariffPlanHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:slug", h.GetBySlug)
	rg.POST("/:slug/deactivate", h.Deactivate)
}
