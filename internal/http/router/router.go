package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dantweb/vbwd-sdk/internal/http/handler"
	"github.com/dantweb/vbwd-sdk/internal/service"
)

type RouterDeps struct {
	Services *service.Services
	Webhooks handler.WebhookProcessor
}

func SetupRoutes(router *gin.Engine, deps RouterDeps) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	checkout := handler.NewCheckoutHandler(deps.Services.Checkout())

	v1 := router.Group("/api/v1")
	{
		WebhookRouter(v1.Group("/webhooks"), handler.NewWebhookHandler(deps.Webhooks))

		UserRouter(v1.Group("/users"),
			handler.NewUserHandler(deps.Services.Users()),
			handler.NewSubscriptionHandler(deps.Services.Subscriptions()),
		)
		SubscriptionRouter(v1.Group("/subscriptions"), handler.NewSubscriptionHandler(deps.Services.Subscriptions()), checkout)
		TariffPlanRouter(v1.Group("/tariff-plans"), handler.NewTariffPlanHandler(deps.Services.TariffPlans()))
		BillingRouter(v1,
			checkout,
			handler.NewRefundHandler(deps.Services.Refunds()),
		)
	}
}
