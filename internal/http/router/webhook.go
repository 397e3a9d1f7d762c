package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dantweb/vbwd-sdk/internal/http/handler"
)

func WebhookRouter(rg *gin.RouterGroup, h *handler.WebhookHandler) {
	rg.POST("/:provider", h.Receive)
}
