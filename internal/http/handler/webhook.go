package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dantweb/vbwd-sdk/common/logger"
	"github.com/dantweb/vbwd-sdk/internal/webhook"
)

const (
	SignatureHeader       = "X-Webhook-Signature"
	legacySignatureHeader = "X-Signature"

	maxWebhookBody = 1 << 20
)

type WebhookProcessor interface {
	Process(ctx context.Context, provider string, payload []byte, signature string, headers map[string]string) webhook.Result
}

type WebhookHandler struct {
	processor WebhookProcessor
}

func NewWebhookHandler(processor WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{processor: processor}
}

// Receive hands the raw body to the processor untouched; signatures are
// computed over the exact bytes the provider sent.
func (h *WebhookHandler) Receive(c *gin.Context) {
	provider := c.Param("provider")
	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{Provider: &provider})

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			slog.WarnContext(ctx, "webhook body too large", "limit", tooLarge.Limit)
			c.JSON(http.StatusRequestEntityTooLarge, webhook.Failed("Payload too large"))
			return
		}
		slog.WarnContext(ctx, "failed to read webhook body", "error", err)
		c.JSON(http.StatusBadRequest, webhook.Failed("Failed to read body"))
		return
	}

	signature := c.GetHeader(SignatureHeader)
	if signature == "" {
		signature = c.GetHeader(legacySignatureHeader)
	}

	headers := make(map[string]string, len(c.Request.Header))
	for k, v := range c.Request.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	res := h.processor.Process(ctx, provider, payload, signature, headers)
	c.JSON(WebhookStatus(res), res)
}

// WebhookStatus maps a processing result onto the response code providers
// see. Anything 4xx other than 401/404 tells them not to retry.
func WebhookStatus(res webhook.Result) int {
	if res.Success {
		return http.StatusOK
	}
	switch {
	case strings.HasPrefix(res.Error, "Unknown provider"):
		return http.StatusNotFound
	case strings.HasPrefix(res.Error, "Invalid signature"):
		return http.StatusUnauthorized
	case strings.HasPrefix(res.Error, "Failed to parse"), strings.HasPrefix(res.Error, "Failed to read"):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}
