package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nxtlevel/rent_ledger_app/internal/apperrors"
	portssvc "github.com/nxtlevel/rent_ledger_app/internal/core/ports/services"
	"github.com/nxtlevel/rent_ledger_app/internal/middleware"
)

type WebhookHandler struct {
	webhookService portssvc.WebhookSvcFacade
}

func NewWebhookHandler(webhookService portssvc.WebhookSvcFacade) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// HandleProcessorEvent receives raw processor callback deliveries.
//
// The body must reach signature verification unparsed, so it is read raw
// here and never bound to a DTO. Response codes drive the processor's retry
// behavior: 2xx acknowledges, 4xx rejects permanently, 5xx requests
// redelivery.
func (h *WebhookHandler) HandleProcessorEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	payload, err := c.GetRawData()
	if err != nil {
		logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read request body"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		logger.Warn("Webhook delivery without signature header")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing signature header"})
		return
	}

	if err := h.webhookService.ProcessEvent(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, apperrors.ErrBadSignature) {
			logger.Warn("Webhook signature verification failed", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
		logger.Error("Failed to process webhook event", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
