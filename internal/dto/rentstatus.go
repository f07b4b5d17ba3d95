package dto

import (
	"time"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RentStatusQuery carries the month selector shared by the rent-status read
// endpoints. Month defaults to the current calendar month when omitted.
type RentStatusQuery struct {
	Month      string `form:"month" binding:"omitempty,yearmonth"`
	PropertyID string `form:"propertyId"`
}

// RentStatusResponse is the derived per-tenant rent state for one month.
type RentStatusResponse struct {
	PropertyID      string          `json:"propertyId"`
	TenantID        string          `json:"tenantId"`
	MonthlyRent     decimal.Decimal `json:"monthlyRent"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	AmountDue       decimal.Decimal `json:"amountDue"`
	Balance         decimal.Decimal `json:"balance"`
	Status          string          `json:"status"`
	DueDate         time.Time       `json:"dueDate"`
	LastPaymentDate *time.Time      `json:"lastPaymentDate,omitempty"`
	PaymentMethod   *string         `json:"paymentMethod,omitempty"`
}

// PropertyRentStatusResponse adds directory details for portfolio listings.
type PropertyRentStatusResponse struct {
	RentStatusResponse
	PropertyName    string `json:"propertyName"`
	PropertyAddress string `json:"propertyAddress"`
	TenantName      string `json:"tenantName"`
	Vacant          bool   `json:"vacant"`
}

// MonthlyReportResponse pairs the portfolio summary with per-property rows.
type MonthlyReportResponse struct {
	Summary    domain.MonthlyPaymentSummary `json:"summary"`
	Properties []PropertyRentStatusResponse `json:"properties"`
}

// ToRentStatusResponse maps the derived domain status.
func ToRentStatusResponse(rs *domain.RentStatus) RentStatusResponse {
	resp := RentStatusResponse{
		PropertyID:      rs.PropertyID,
		TenantID:        rs.TenantID,
		MonthlyRent:     rs.MonthlyRent,
		AmountPaid:      rs.AmountPaid,
		AmountDue:       rs.AmountDue,
		Balance:         rs.Balance,
		Status:          string(rs.Status),
		DueDate:         rs.DueDate,
		LastPaymentDate: rs.LastPaymentDate,
	}
	if rs.PaymentMethod != nil {
		m := string(*rs.PaymentMethod)
		resp.PaymentMethod = &m
	}
	return resp
}

// ToMonthlyReportResponse maps the portfolio report.
func ToMonthlyReportResponse(r *domain.MonthlyReport) MonthlyReportResponse {
	resp := MonthlyReportResponse{
		Summary:    r.Summary,
		Properties: make([]PropertyRentStatusResponse, len(r.Properties)),
	}
	for i := range r.Properties {
		p := &r.Properties[i]
		resp.Properties[i] = PropertyRentStatusResponse{
			RentStatusResponse: ToRentStatusResponse(&p.RentStatus),
			PropertyName:       p.PropertyName,
			PropertyAddress:    p.PropertyAddress,
			TenantName:         p.TenantName,
			Vacant:             p.Vacant,
		}
	}
	return resp
}
