package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nxtlevel/rent_ledger_app/internal/apperrors"
	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	portssvc "github.com/nxtlevel/rent_ledger_app/internal/core/ports/services"
	"github.com/nxtlevel/rent_ledger_app/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	mockDirectory  *MockDirectoryReader
	service        portssvc.RentReportingSvcFacade
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockDirectory = new(MockDirectoryReader)
	suite.service = services.NewReportingService(suite.mockLedgerRepo, suite.mockDirectory, 5)
}

// pastMonth is long past, so unpaid rent in it always reads overdue.
var pastMonth = domain.YearMonth{Year: 2026, Month: time.March}

func paymentEntry(tenantID, propertyID string, amount int64, day int) domain.LedgerEntry {
	method := domain.MethodCard
	return domain.LedgerEntry{
		EntryID:       "e-" + tenantID,
		TenantID:      tenantID,
		PropertyID:    propertyID,
		Type:          domain.EntryPayment,
		Category:      domain.CategoryRent,
		Amount:        decimal.NewFromInt(amount),
		Date:          time.Date(pastMonth.Year, pastMonth.Month, day, 12, 0, 0, 0, time.UTC),
		Status:        domain.EntryCompleted,
		PaymentMethod: &method,
	}
}

func (suite *ReportingServiceTestSuite) TestTenantRentStatus_PaidMonth() {
	ctx := context.Background()
	propertyID := "prop-1"
	tenant := &domain.User{
		UserID:      "tenant-1",
		Role:        domain.RoleTenant,
		PropertyID:  &propertyID,
		MonthlyRent: decimal.NewFromInt(1500),
	}
	entries := []domain.LedgerEntry{paymentEntry("tenant-1", "prop-1", 1500, 2)}

	suite.mockDirectory.On("FindUserByID", ctx, "tenant-1").Return(tenant, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByTenant", ctx, "tenant-1", pastMonth.Start(), pastMonth.End()).
		Return(entries, nil).Once()

	rs, err := suite.service.TenantRentStatus(ctx, "tenant-1", pastMonth)

	suite.Require().NoError(err)
	suite.Equal(domain.RentPaid, rs.Status)
	suite.True(rs.Balance.IsZero())
	suite.Equal("tenant-1", rs.TenantID)
	suite.Equal("prop-1", rs.PropertyID)
	suite.Require().NotNil(rs.LastPaymentDate)
}

func (suite *ReportingServiceTestSuite) TestTenantRentStatus_UnpaidPastMonthIsOverdue() {
	ctx := context.Background()
	propertyID := "prop-1"
	tenant := &domain.User{
		UserID:      "tenant-1",
		Role:        domain.RoleTenant,
		PropertyID:  &propertyID,
		MonthlyRent: decimal.NewFromInt(1500),
	}

	suite.mockDirectory.On("FindUserByID", ctx, "tenant-1").Return(tenant, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByTenant", ctx, "tenant-1", pastMonth.Start(), pastMonth.End()).
		Return([]domain.LedgerEntry{}, nil).Once()

	rs, err := suite.service.TenantRentStatus(ctx, "tenant-1", pastMonth)

	suite.Require().NoError(err)
	suite.Equal(domain.RentOverdue, rs.Status)
	suite.True(rs.Balance.Equal(decimal.NewFromInt(1500)))
	// No explicit charge rows: the lease rent acts as the implicit charge.
	suite.True(rs.AmountDue.Equal(decimal.NewFromInt(1500)))
}

func (suite *ReportingServiceTestSuite) TestTenantRentStatus_UnknownTenant() {
	ctx := context.Background()
	suite.mockDirectory.On("FindUserByID", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	rs, err := suite.service.TenantRentStatus(ctx, "ghost", pastMonth)

	suite.Require().Error(err)
	suite.Nil(rs)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReportingServiceTestSuite) TestPropertyRentStatus_VacantProperty() {
	ctx := context.Background()
	property := &domain.Property{
		PropertyID: "prop-2",
		Name:       "Unit B",
		Address:    "34 Elm St",
		Rent:       decimal.NewFromInt(1200),
		Status:     domain.PropertyVacant,
	}

	suite.mockDirectory.On("FindPropertyByID", ctx, "prop-2").Return(property, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByProperty", ctx, "prop-2", pastMonth.Start(), pastMonth.End()).
		Return([]domain.LedgerEntry{}, nil).Once()
	suite.mockDirectory.On("FindTenantByPropertyID", ctx, "prop-2").Return(nil, apperrors.ErrNotFound).Once()

	ps, err := suite.service.PropertyRentStatus(ctx, "prop-2", pastMonth)

	suite.Require().NoError(err)
	suite.True(ps.Vacant)
	suite.Equal("Vacant", ps.TenantName)
	suite.True(ps.AmountPaid.IsZero())
}

func (suite *ReportingServiceTestSuite) TestPropertyRentStatus_DirectoryFailureIsNotVacancy() {
	ctx := context.Background()
	property := &domain.Property{
		PropertyID: "prop-1",
		Name:       "Unit A",
		Rent:       decimal.NewFromInt(1500),
		Status:     domain.PropertyOccupied,
	}
	dbErr := errors.New("connection reset by peer")

	suite.mockDirectory.On("FindPropertyByID", ctx, "prop-1").Return(property, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByProperty", ctx, "prop-1", pastMonth.Start(), pastMonth.End()).
		Return([]domain.LedgerEntry{}, nil).Once()
	suite.mockDirectory.On("FindTenantByPropertyID", ctx, "prop-1").Return(nil, dbErr).Once()

	ps, err := suite.service.PropertyRentStatus(ctx, "prop-1", pastMonth)

	// An occupied unit must not read as vacant because the tenant lookup
	// failed; the caller gets the error instead.
	suite.Require().Error(err)
	suite.ErrorIs(err, dbErr)
	suite.Nil(ps)
}

func (suite *ReportingServiceTestSuite) TestMonthlySummary_DirectoryFailurePropagates() {
	ctx := context.Background()
	properties := []domain.Property{
		{PropertyID: "prop-1", Name: "Unit A", Rent: decimal.NewFromInt(1500), Status: domain.PropertyOccupied},
	}
	dbErr := errors.New("connection reset by peer")

	suite.mockDirectory.On("ListProperties", ctx).Return(properties, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesInRange", ctx, pastMonth.Start(), pastMonth.End()).
		Return([]domain.LedgerEntry{}, nil).Once()
	suite.mockDirectory.On("FindTenantByPropertyID", ctx, "prop-1").Return(nil, dbErr).Once()

	report, err := suite.service.MonthlySummary(ctx, pastMonth)

	suite.Require().Error(err)
	suite.ErrorIs(err, dbErr)
	suite.Nil(report)
}

func (suite *ReportingServiceTestSuite) TestMonthlySummary_VacantExcludedFromRate() {
	ctx := context.Background()
	properties := []domain.Property{
		{PropertyID: "prop-1", Name: "Unit A", Rent: decimal.NewFromInt(1500), Status: domain.PropertyOccupied},
		{PropertyID: "prop-2", Name: "Unit B", Rent: decimal.NewFromInt(1200), Status: domain.PropertyVacant},
	}
	prop1 := "prop-1"
	tenant1 := &domain.User{
		UserID:      "tenant-1",
		DisplayName: "Taylor Doe",
		Role:        domain.RoleTenant,
		PropertyID:  &prop1,
		MonthlyRent: decimal.NewFromInt(1500),
	}
	entries := []domain.LedgerEntry{paymentEntry("tenant-1", "prop-1", 750, 3)}

	suite.mockDirectory.On("ListProperties", ctx).Return(properties, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesInRange", ctx, pastMonth.Start(), pastMonth.End()).Return(entries, nil).Once()
	suite.mockDirectory.On("FindTenantByPropertyID", ctx, "prop-1").Return(tenant1, nil).Once()
	suite.mockDirectory.On("FindTenantByPropertyID", ctx, "prop-2").Return(nil, apperrors.ErrNotFound).Once()

	report, err := suite.service.MonthlySummary(ctx, pastMonth)

	suite.Require().NoError(err)
	summary := report.Summary

	suite.Equal(2, summary.TotalProperties)
	suite.Equal(1, summary.VacantCount)
	suite.Equal(1, summary.PartialCount)
	suite.Equal(0, summary.PaidCount)
	// Vacant unit contributes nothing to expected, so the rate reflects only
	// the occupied unit: 750 / 1500 = 50%.
	suite.True(summary.TotalExpected.Equal(decimal.NewFromInt(1500)), "expected 1500, got %s", summary.TotalExpected)
	suite.True(summary.TotalCollected.Equal(decimal.NewFromInt(750)))
	suite.True(summary.CollectionRate.Equal(decimal.NewFromInt(50)), "expected 50, got %s", summary.CollectionRate)
	suite.Len(report.Properties, 2)
}

func (suite *ReportingServiceTestSuite) TestMonthlySummary_SummaryReconcilesWithRows() {
	ctx := context.Background()
	prop1, prop2 := "prop-1", "prop-2"
	properties := []domain.Property{
		{PropertyID: prop1, Name: "Unit A", Rent: decimal.NewFromInt(1000), Status: domain.PropertyOccupied},
		{PropertyID: prop2, Name: "Unit B", Rent: decimal.NewFromInt(2000), Status: domain.PropertyOccupied},
	}
	tenant1 := &domain.User{UserID: "t1", DisplayName: "A", Role: domain.RoleTenant, PropertyID: &prop1, MonthlyRent: decimal.NewFromInt(1000)}
	tenant2 := &domain.User{UserID: "t2", DisplayName: "B", Role: domain.RoleTenant, PropertyID: &prop2, MonthlyRent: decimal.NewFromInt(2000)}
	entries := []domain.LedgerEntry{
		paymentEntry("t1", prop1, 1000, 1),
		paymentEntry("t2", prop2, 500, 4),
	}

	suite.mockDirectory.On("ListProperties", ctx).Return(properties, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesInRange", ctx, pastMonth.Start(), pastMonth.End()).Return(entries, nil).Once()
	suite.mockDirectory.On("FindTenantByPropertyID", ctx, prop1).Return(tenant1, nil).Once()
	suite.mockDirectory.On("FindTenantByPropertyID", ctx, prop2).Return(tenant2, nil).Once()

	report, err := suite.service.MonthlySummary(ctx, pastMonth)

	suite.Require().NoError(err)

	collected := decimal.Zero
	expected := decimal.Zero
	for _, ps := range report.Properties {
		if ps.Vacant {
			continue
		}
		collected = collected.Add(ps.AmountPaid)
		expected = expected.Add(ps.MonthlyRent)
	}
	suite.True(report.Summary.TotalCollected.Equal(collected))
	suite.True(report.Summary.TotalExpected.Equal(expected))
	suite.Equal(1, report.Summary.PaidCount)
	suite.Equal(1, report.Summary.PartialCount)
}

func (suite *ReportingServiceTestSuite) TestMonthlySummary_LedgerErrorPropagates() {
	ctx := context.Background()
	suite.mockDirectory.On("ListProperties", ctx).Return([]domain.Property{}, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesInRange", ctx, pastMonth.Start(), pastMonth.End()).
		Return(nil, context.DeadlineExceeded).Once()

	report, err := suite.service.MonthlySummary(ctx, pastMonth)

	suite.Require().Error(err)
	suite.Nil(report)
	suite.mockDirectory.AssertNotCalled(suite.T(), "FindTenantByPropertyID", mock.Anything, mock.Anything)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
