package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RentPaymentStatus classifies a tenant's aggregate payment state for one month.
type RentPaymentStatus string

const (
	RentPaid    RentPaymentStatus = "paid"
	RentPartial RentPaymentStatus = "partial"
	RentPending RentPaymentStatus = "pending"
	RentOverdue RentPaymentStatus = "overdue"
)

// RentStatus is the derived payment summary for one tenant/property pair in
// one month. It is always recomputed from ledger entries, never stored.
type RentStatus struct {
	PropertyID      string            `json:"propertyID"`
	TenantID        string            `json:"tenantID"`
	MonthlyRent     decimal.Decimal   `json:"monthlyRent"`
	AmountPaid      decimal.Decimal   `json:"amountPaid"`
	AmountDue       decimal.Decimal   `json:"amountDue"`
	Balance         decimal.Decimal   `json:"balance"`
	Status          RentPaymentStatus `json:"status"`
	DueDate         time.Time         `json:"dueDate"`
	LastPaymentDate *time.Time        `json:"lastPaymentDate,omitempty"`
	PaymentMethod   *PaymentMethod    `json:"paymentMethod,omitempty"`
}

// PropertyRentStatus is a RentStatus enriched with directory details for
// portfolio listings. Vacant properties appear with TenantName "Vacant" and
// are excluded from collection-rate math.
type PropertyRentStatus struct {
	RentStatus
	PropertyName    string `json:"propertyName"`
	PropertyAddress string `json:"propertyAddress"`
	TenantName      string `json:"tenantName"`
	Vacant          bool   `json:"vacant"`
}

// MonthlyPaymentSummary aggregates rent statuses across the portfolio for
// one calendar month. Derived on every read, never stored.
type MonthlyPaymentSummary struct {
	Month           string          `json:"month"` // YYYY-MM
	TotalProperties int             `json:"totalProperties"`
	PaidCount       int             `json:"paidCount"`
	PartialCount    int             `json:"partialCount"`
	PendingCount    int             `json:"pendingCount"`
	OverdueCount    int             `json:"overdueCount"`
	VacantCount     int             `json:"vacantCount"`
	TotalExpected   decimal.Decimal `json:"totalExpected"`
	TotalCollected  decimal.Decimal `json:"totalCollected"`
	CollectionRate  decimal.Decimal `json:"collectionRate"` // percentage
}

// MonthlyReport pairs the portfolio summary with its per-property statuses,
// guaranteed to be derived from the same ledger snapshot.
type MonthlyReport struct {
	Summary    MonthlyPaymentSummary `json:"summary"`
	Properties []PropertyRentStatus  `json:"properties"`
}

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses a YYYY-MM string.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", s, err)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// YearMonthOf returns the calendar month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Start returns the first instant of the month in UTC.
func (ym YearMonth) Start() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following month in UTC. The month
// window is the half-open interval [Start, End).
func (ym YearMonth) End() time.Time {
	return ym.Start().AddDate(0, 1, 0)
}

// Contains reports whether t falls within the month window.
func (ym YearMonth) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(ym.Start()) && u.Before(ym.End())
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}
