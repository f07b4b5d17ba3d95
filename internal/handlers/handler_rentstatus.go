package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nxtlevel/rent_ledger_app/internal/apperrors"
	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/nxtlevel/rent_ledger_app/internal/core/ports/services"
	"github.com/nxtlevel/rent_ledger_app/internal/dto"
	"github.com/nxtlevel/rent_ledger_app/internal/middleware"
)

type RentStatusHandler struct {
	reportingService portssvc.RentReportingSvcFacade
}

func NewRentStatusHandler(reportingService portssvc.RentReportingSvcFacade) *RentStatusHandler {
	return &RentStatusHandler{reportingService: reportingService}
}

// registerRentStatusRoutes wires the derived read endpoints. The portfolio
// views are admin-only; /me serves the authenticated tenant.
func registerRentStatusRoutes(rg *gin.RouterGroup, reportingService portssvc.RentReportingSvcFacade, directory portsrepo.DirectoryReader) {
	h := NewRentStatusHandler(reportingService)

	rg.GET("/rent-status/me", h.GetMyRentStatus)

	admin := rg.Group("/rent-status", middleware.RequireAdmin(directory))
	admin.GET("", h.GetRentStatuses)
	admin.GET("/summary", h.GetMonthlySummary)
}

// GetRentStatuses returns per-property statuses for a month, or a single
// property's status when propertyId is given.
func (h *RentStatusHandler) GetRentStatuses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	query, month, ok := h.bindQuery(c)
	if !ok {
		return
	}

	if query.PropertyID != "" {
		ps, err := h.reportingService.PropertyRentStatus(c.Request.Context(), query.PropertyID, month)
		if err != nil {
			h.writeReportError(c, err, "property rent status")
			return
		}
		c.JSON(http.StatusOK, dto.PropertyRentStatusResponse{
			RentStatusResponse: dto.ToRentStatusResponse(&ps.RentStatus),
			PropertyName:       ps.PropertyName,
			PropertyAddress:    ps.PropertyAddress,
			TenantName:         ps.TenantName,
			Vacant:             ps.Vacant,
		})
		return
	}

	report, err := h.reportingService.MonthlySummary(c.Request.Context(), month)
	if err != nil {
		h.writeReportError(c, err, "rent statuses")
		return
	}

	logger.Debug("Rent statuses derived", slog.String("month", month.String()), slog.Int("properties", len(report.Properties)))
	c.JSON(http.StatusOK, gin.H{"statuses": dto.ToMonthlyReportResponse(report).Properties})
}

// GetMonthlySummary returns the portfolio summary with its per-property rows.
func (h *RentStatusHandler) GetMonthlySummary(c *gin.Context) {
	_, month, ok := h.bindQuery(c)
	if !ok {
		return
	}

	report, err := h.reportingService.MonthlySummary(c.Request.Context(), month)
	if err != nil {
		h.writeReportError(c, err, "monthly summary")
		return
	}

	c.JSON(http.StatusOK, dto.ToMonthlyReportResponse(report))
}

// GetMyRentStatus returns the authenticated tenant's own rent status.
func (h *RentStatusHandler) GetMyRentStatus(c *gin.Context) {
	tenantID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	_, month, bound := h.bindQuery(c)
	if !bound {
		return
	}

	rs, err := h.reportingService.TenantRentStatus(c.Request.Context(), tenantID, month)
	if err != nil {
		h.writeReportError(c, err, "tenant rent status")
		return
	}

	c.JSON(http.StatusOK, dto.ToRentStatusResponse(rs))
}

// bindQuery parses the shared month/propertyId query, defaulting the month
// to the current calendar month.
func (h *RentStatusHandler) bindQuery(c *gin.Context) (dto.RentStatusQuery, domain.YearMonth, bool) {
	var query dto.RentStatusQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return query, domain.YearMonth{}, false
	}

	if query.Month == "" {
		return query, domain.YearMonthOf(time.Now().UTC()), true
	}
	month, err := domain.ParseYearMonth(query.Month)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return query, domain.YearMonth{}, false
	}
	return query, month, true
}

func (h *RentStatusHandler) writeReportError(c *gin.Context, err error, op string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if errors.Is(err, apperrors.ErrNotFound) {
		logger.Warn("Resource not found", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	logger.Error("Failed to derive rent status", slog.String("op", op), slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to derive rent status"})
}
