package rentcalc

import (
	"time"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultGraceDays is the number of calendar days into a month before an
// unpaid balance flips from pending to overdue. Overridable via config.
const DefaultGraceDays = 5

// DeriveRentStatus computes the rent status for one tenant/property pair
// from its ledger entries. It is the single call site for status derivation:
// the tenant view, admin view, portfolio aggregation and chat layer all
// consume this function so their thresholds cannot drift.
//
// Only entries with category rent, a date inside the month containing asOf
// and a non-failed status participate. Amounts are summed as absolute
// values; entry ordering is irrelevant.
func DeriveRentStatus(entries []domain.LedgerEntry, monthlyRent decimal.Decimal, asOf time.Time, graceDays int) domain.RentStatus {
	if graceDays <= 0 {
		graceDays = DefaultGraceDays
	}
	month := domain.YearMonthOf(asOf.UTC())

	charged := decimal.Zero
	paid := decimal.Zero
	var lastPayment *domain.LedgerEntry

	for i := range entries {
		e := entries[i]
		if e.Category != domain.CategoryRent || !month.Contains(e.Date) {
			continue
		}
		// Failed attempts are kept in the ledger for audit but never count
		// toward what the tenant has paid or owes.
		if e.Status == domain.EntryFailed {
			continue
		}
		switch e.Type {
		case domain.EntryCharge:
			charged = charged.Add(e.Amount.Abs())
		case domain.EntryPayment:
			paid = paid.Add(e.Amount.Abs())
			if lastPayment == nil || e.Date.After(lastPayment.Date) {
				lastPayment = &entries[i]
			}
		case domain.EntryAdjustment:
			// Adjustments carry their sign: positive adds to what is owed,
			// negative (credit) reduces it.
			charged = charged.Add(e.Amount)
		}
	}

	// Tenants are not required to have an explicit charge row per month; the
	// lease's monthly rent acts as the implicit charge.
	due := charged
	if due.LessThanOrEqual(decimal.Zero) {
		due = monthlyRent
	}

	status := domain.RentPending
	switch {
	case due.LessThanOrEqual(decimal.Zero):
		// A zero-rent lease with no charges owes nothing, so the month is
		// settled regardless of the grace day.
		status = domain.RentPaid
	case paid.GreaterThanOrEqual(due):
		status = domain.RentPaid
	case paid.GreaterThan(decimal.Zero):
		status = domain.RentPartial
	case asOf.Day() > graceDays:
		status = domain.RentOverdue
	}

	balance := due.Sub(paid)
	if balance.IsNegative() {
		// Overpayment is not carried as credit.
		balance = decimal.Zero
	}

	rs := domain.RentStatus{
		TenantID:    tenantIDOf(entries),
		PropertyID:  propertyIDOf(entries),
		MonthlyRent: monthlyRent,
		AmountPaid:  paid,
		AmountDue:   due,
		Balance:     balance,
		Status:      status,
		DueDate:     month.Start(),
	}
	if lastPayment != nil {
		d := lastPayment.Date
		rs.LastPaymentDate = &d
		rs.PaymentMethod = lastPayment.PaymentMethod
	}
	return rs
}

// BuildMonthlySummary folds per-property statuses into the portfolio summary.
// Vacant properties count in TotalProperties and VacantCount but contribute
// nothing to expected/collected totals, so the collection rate reflects only
// occupied units.
func BuildMonthlySummary(month domain.YearMonth, statuses []domain.PropertyRentStatus) domain.MonthlyPaymentSummary {
	s := domain.MonthlyPaymentSummary{
		Month:           month.String(),
		TotalProperties: len(statuses),
		TotalExpected:   decimal.Zero,
		TotalCollected:  decimal.Zero,
		CollectionRate:  decimal.Zero,
	}

	for _, ps := range statuses {
		if ps.Vacant {
			s.VacantCount++
			continue
		}
		s.TotalExpected = s.TotalExpected.Add(ps.MonthlyRent)
		s.TotalCollected = s.TotalCollected.Add(ps.AmountPaid)
		switch ps.Status {
		case domain.RentPaid:
			s.PaidCount++
		case domain.RentPartial:
			s.PartialCount++
		case domain.RentOverdue:
			s.OverdueCount++
		default:
			s.PendingCount++
		}
	}

	if s.TotalExpected.GreaterThan(decimal.Zero) {
		s.CollectionRate = s.TotalCollected.
			Div(s.TotalExpected).
			Mul(decimal.NewFromInt(100)).
			Round(1)
	}
	return s
}

func tenantIDOf(entries []domain.LedgerEntry) string {
	for _, e := range entries {
		if e.TenantID != "" {
			return e.TenantID
		}
	}
	return ""
}

func propertyIDOf(entries []domain.LedgerEntry) string {
	for _, e := range entries {
		if e.PropertyID != "" {
			return e.PropertyID
		}
	}
	return ""
}
