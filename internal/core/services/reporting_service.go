package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nxtlevel/rent_ledger_app/internal/apperrors"
	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/nxtlevel/rent_ledger_app/internal/core/ports/services"
	"github.com/nxtlevel/rent_ledger_app/internal/utils/rentcalc"
)

// vacantTenantName is displayed for properties without a current tenant.
const vacantTenantName = "Vacant"

// reportingService derives rent statuses and portfolio summaries. Nothing
// here writes; every response is recomputed from the ledger on each call so
// a status can flip (e.g. pending to overdue) purely by the passage of time.
type reportingService struct {
	ledgerRepo portsrepo.LedgerReader
	directory  portsrepo.DirectoryReader
	graceDays  int
	now        func() time.Time
}

// NewReportingService creates the derived-read service.
func NewReportingService(ledgerRepo portsrepo.LedgerReader, directory portsrepo.DirectoryReader, graceDays int) portssvc.RentReportingSvcFacade {
	if graceDays <= 0 {
		graceDays = rentcalc.DefaultGraceDays
	}
	return &reportingService{
		ledgerRepo: ledgerRepo,
		directory:  directory,
		graceDays:  graceDays,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.RentReportingSvcFacade = (*reportingService)(nil)

// TenantRentStatus derives one tenant's rent status for the given month.
func (s *reportingService) TenantRentStatus(ctx context.Context, tenantID string, month domain.YearMonth) (*domain.RentStatus, error) {
	user, err := s.directory.FindUserByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("tenant %s: %w", tenantID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up tenant %s: %w", tenantID, err)
	}

	entries, err := s.ledgerRepo.FindEntriesByTenant(ctx, tenantID, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger for tenant %s: %w", tenantID, err)
	}

	rs := rentcalc.DeriveRentStatus(entries, user.MonthlyRent, s.asOf(month), s.graceDays)
	rs.TenantID = tenantID
	if rs.PropertyID == "" && user.PropertyID != nil {
		rs.PropertyID = *user.PropertyID
	}
	return &rs, nil
}

// PropertyRentStatus derives the status of a single property for the month.
// A vacant property yields a zeroed status flagged Vacant.
func (s *reportingService) PropertyRentStatus(ctx context.Context, propertyID string, month domain.YearMonth) (*domain.PropertyRentStatus, error) {
	property, err := s.directory.FindPropertyByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("property %s: %w", propertyID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up property %s: %w", propertyID, err)
	}

	entries, err := s.ledgerRepo.FindEntriesByProperty(ctx, propertyID, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger for property %s: %w", propertyID, err)
	}

	ps, err := s.derivePropertyStatus(ctx, property, entries, month)
	if err != nil {
		return nil, err
	}
	return &ps, nil
}

// MonthlySummary derives per-property statuses and the portfolio summary from
// a single ledger snapshot.
func (s *reportingService) MonthlySummary(ctx context.Context, month domain.YearMonth) (*domain.MonthlyReport, error) {
	properties, err := s.directory.ListProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	// One range query per report keeps all per-property statuses on the same
	// snapshot, so the summary always reconciles with its rows.
	entries, err := s.ledgerRepo.FindEntriesInRange(ctx, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger for month %s: %w", month, err)
	}

	byProperty := map[string][]domain.LedgerEntry{}
	for _, e := range entries {
		byProperty[e.PropertyID] = append(byProperty[e.PropertyID], e)
	}

	statuses := make([]domain.PropertyRentStatus, 0, len(properties))
	for i := range properties {
		ps, err := s.derivePropertyStatus(ctx, &properties[i], byProperty[properties[i].PropertyID], month)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, ps)
	}

	return &domain.MonthlyReport{
		Summary:    rentcalc.BuildMonthlySummary(month, statuses),
		Properties: statuses,
	}, nil
}

func (s *reportingService) derivePropertyStatus(ctx context.Context, property *domain.Property, entries []domain.LedgerEntry, month domain.YearMonth) (domain.PropertyRentStatus, error) {
	ps := domain.PropertyRentStatus{
		PropertyName:    property.Name,
		PropertyAddress: property.Address,
	}

	tenant, err := s.directory.FindTenantByPropertyID(ctx, property.PropertyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			// Only a confirmed directory miss means vacancy; an infrastructure
			// failure must not flip an occupied unit to vacant in the report.
			return ps, fmt.Errorf("failed to look up tenant for property %s: %w", property.PropertyID, err)
		}
		ps.Vacant = true
		ps.TenantName = vacantTenantName
		ps.RentStatus = domain.RentStatus{
			PropertyID:  property.PropertyID,
			MonthlyRent: property.Rent,
			Status:      domain.RentPending,
			DueDate:     month.Start(),
		}
		return ps, nil
	}

	monthlyRent := tenant.MonthlyRent
	if monthlyRent.IsZero() {
		monthlyRent = property.Rent
	}

	ps.TenantName = tenant.DisplayName
	ps.RentStatus = rentcalc.DeriveRentStatus(entries, monthlyRent, s.asOf(month), s.graceDays)
	ps.RentStatus.TenantID = tenant.UserID
	ps.RentStatus.PropertyID = property.PropertyID
	return ps, nil
}

// asOf picks the evaluation instant for a month: now for the current month,
// the last moment for past months (so unpaid rent reads overdue), the first
// moment for future months (so nothing is overdue yet).
func (s *reportingService) asOf(month domain.YearMonth) time.Time {
	now := s.now()
	if month.Contains(now) {
		return now
	}
	if now.After(month.End()) {
		return month.End().Add(-time.Second)
	}
	return month.Start()
}
