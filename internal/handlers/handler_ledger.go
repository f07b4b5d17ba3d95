package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nxtlevel/rent_ledger_app/internal/apperrors"
	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/nxtlevel/rent_ledger_app/internal/core/ports/services"
	"github.com/nxtlevel/rent_ledger_app/internal/dto"
	"github.com/nxtlevel/rent_ledger_app/internal/middleware"
)

type LedgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func NewLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// registerLedgerRoutes wires the admin-only manual-entry and audit routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, directory portsrepo.DirectoryReader) {
	h := NewLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger", middleware.RequireAdmin(directory))
	ledger.POST("/manual-payments", h.RecordManualPayment)
	ledger.POST("/adjustments", h.RecordAdjustment)
	ledger.GET("/tenants/:tenantID/entries", h.ListTenantEntries)
}

// RecordManualPayment appends an admin-entered cash/check payment.
func (h *LedgerHandler) RecordManualPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordManualPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid manual payment request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.ledgerService.RecordManualPayment(c.Request.Context(), req, adminID)
	if err != nil {
		h.writeLedgerError(c, err, "record manual payment")
		return
	}

	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// RecordAdjustment appends an ad-hoc charge or credit.
func (h *LedgerHandler) RecordAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid adjustment request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.ledgerService.RecordAdjustment(c.Request.Context(), req, adminID)
	if err != nil {
		h.writeLedgerError(c, err, "record adjustment")
		return
	}

	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// ListTenantEntries returns a tenant's ledger newest-first for audit views.
func (h *LedgerHandler) ListTenantEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListLedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenantID := c.Param("tenantID")
	entries, err := h.ledgerService.ListTenantEntries(c.Request.Context(), tenantID, params)
	if err != nil {
		logger.Error("Failed to list ledger entries", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ledger entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": dto.ToLedgerEntryResponses(entries)})
}

func (h *LedgerHandler) writeLedgerError(c *gin.Context, err error, op string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if errors.Is(err, apperrors.ErrValidation) {
		logger.Warn("Validation error", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrNotFound) {
		logger.Warn("Dependency not found", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else {
		logger.Error("Ledger write failed", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
