package services

import (
	"context"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	"github.com/nxtlevel/rent_ledger_app/internal/dto"
)

// LedgerSvcFacade exposes the manual-entry write path and audit reads.
// Manual entries carry no external ref and need no idempotency guard; the
// audit trail records the acting admin on every entry.
type LedgerSvcFacade interface {
	// RecordManualPayment appends an admin-entered cash/check payment and a
	// matching paid PaymentRecord.
	RecordManualPayment(ctx context.Context, req dto.RecordManualPaymentRequest, recordedByUserID string) (*domain.LedgerEntry, error)

	// RecordAdjustment appends an ad-hoc charge or credit. Credits are stored
	// as negative magnitudes.
	RecordAdjustment(ctx context.Context, req dto.CreateAdjustmentRequest, recordedByUserID string) (*domain.LedgerEntry, error)

	// ListTenantEntries returns a tenant's ledger newest-first for audit views.
	ListTenantEntries(ctx context.Context, tenantID string, params dto.ListLedgerEntriesParams) ([]domain.LedgerEntry, error)
}
