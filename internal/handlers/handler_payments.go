package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nxtlevel/rent_ledger_app/internal/apperrors"
	portssvc "github.com/nxtlevel/rent_ledger_app/internal/core/ports/services"
	"github.com/nxtlevel/rent_ledger_app/internal/dto"
	"github.com/nxtlevel/rent_ledger_app/internal/middleware"
)

type PaymentHandler struct {
	checkoutService portssvc.CheckoutSvcFacade
}

func NewPaymentHandler(checkoutService portssvc.CheckoutSvcFacade) *PaymentHandler {
	return &PaymentHandler{checkoutService: checkoutService}
}

// registerPaymentRoutes wires the tenant-facing payment initiation routes.
func registerPaymentRoutes(rg *gin.RouterGroup, checkoutService portssvc.CheckoutSvcFacade) {
	h := NewPaymentHandler(checkoutService)

	payments := rg.Group("/payments")
	payments.POST("/checkout-session", h.CreateCheckoutSession)
	payments.GET("/methods", h.ListSavedMethods)
}

// CreateCheckoutSession opens a hosted checkout for the authenticated tenant.
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid checkout request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenantID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	session, err := h.checkoutService.CreateCheckoutSession(c.Request.Context(), tenantID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating checkout", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Checkout conflicts with payment state", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create checkout session", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.CreateCheckoutSessionResponse{
		SessionID: session.SessionID,
		URL:       session.URL,
		PaymentID: session.PaymentID,
	})
}

// ListSavedMethods returns the authenticated tenant's reusable payment methods.
func (h *PaymentHandler) ListSavedMethods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tenantID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	methods, err := h.checkoutService.ListSavedMethods(c.Request.Context(), tenantID)
	if err != nil {
		logger.Error("Failed to list payment methods", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payment methods"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"methods": dto.ToSavedPaymentMethodResponses(methods)})
}
