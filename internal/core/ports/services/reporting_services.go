package services

import (
	"context"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
)

// RentReportingSvcFacade exposes the derived read paths. Every status is
// recomputed from ledger entries on each call; nothing derived is stored.
type RentReportingSvcFacade interface {
	// TenantRentStatus derives one tenant's rent status for the given month.
	TenantRentStatus(ctx context.Context, tenantID string, month domain.YearMonth) (*domain.RentStatus, error)

	// MonthlySummary derives per-property statuses and the portfolio summary
	// for the given month from a single ledger snapshot.
	MonthlySummary(ctx context.Context, month domain.YearMonth) (*domain.MonthlyReport, error)

	// PropertyRentStatus derives the status of a single property for the
	// given month.
	PropertyRentStatus(ctx context.Context, propertyID string, month domain.YearMonth) (*domain.PropertyRentStatus, error)
}
