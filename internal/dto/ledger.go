package dto

import (
	"time"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordManualPaymentRequest is the admin-entered cash/check payment payload.
type RecordManualPaymentRequest struct {
	TenantID      string          `json:"tenantId" binding:"required"`
	PropertyID    string          `json:"propertyId" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"required,oneof=cash check"`
	CheckNumber   string          `json:"checkNumber"`
	Description   string          `json:"description" binding:"required"`
	PaymentDate   time.Time       `json:"paymentDate" binding:"required"`
}

// CreateAdjustmentRequest is the admin-entered ad-hoc charge or credit payload.
type CreateAdjustmentRequest struct {
	TenantID       string          `json:"tenantId" binding:"required"`
	PropertyID     string          `json:"propertyId" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Category       string          `json:"category" binding:"required,oneof=rent utility late_fee deposit other"`
	Description    string          `json:"description" binding:"required"`
	AdjustmentType string          `json:"adjustmentType" binding:"required,oneof=charge credit"`
}

// LedgerEntryResponse is the API projection of one ledger row.
type LedgerEntryResponse struct {
	EntryID       string          `json:"entryId"`
	TenantID      string          `json:"tenantId"`
	PropertyID    string          `json:"propertyId"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Status        string          `json:"status"`
	Description   string          `json:"description"`
	PaymentMethod *string         `json:"paymentMethod,omitempty"`
	ExternalRef   *string         `json:"externalRef,omitempty"`
	ReceiptURL    string          `json:"receiptUrl,omitempty"`
	ManualEntry   bool            `json:"manualEntry"`
	RecordedBy    string          `json:"recordedBy"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToLedgerEntryResponse maps a domain entry to its API projection.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		EntryID:     e.EntryID,
		TenantID:    e.TenantID,
		PropertyID:  e.PropertyID,
		Type:        string(e.Type),
		Category:    e.Category,
		Amount:      e.Amount,
		Date:        e.Date,
		Status:      string(e.Status),
		Description: e.Description,
		ExternalRef: e.ExternalRef,
		ReceiptURL:  e.ReceiptURL,
		ManualEntry: e.ManualEntry,
		RecordedBy:  e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
	if e.PaymentMethod != nil {
		m := string(*e.PaymentMethod)
		resp.PaymentMethod = &m
	}
	return resp
}

// ToLedgerEntryResponses maps a slice of domain entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToLedgerEntryResponse(&entries[i])
	}
	return out
}

// ListLedgerEntriesParams holds pagination for the audit listing.
type ListLedgerEntriesParams struct {
	Limit  int `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}
