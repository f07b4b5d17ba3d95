package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nxtlevel/rent_ledger_app/internal/apperrors"
	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/nxtlevel/rent_ledger_app/internal/core/ports/services"
	"github.com/nxtlevel/rent_ledger_app/internal/dto"
	"github.com/nxtlevel/rent_ledger_app/internal/middleware"
)

var (
	ErrAmountNotPositive = errors.New("amount must be positive")
	ErrNotATenant        = errors.New("user is not a tenant")
	ErrTenantMismatch    = errors.New("tenant does not occupy the given property")
)

// ledgerService implements the manual-entry write path. Every write appends;
// nothing in the ledger is ever updated or deleted.
type ledgerService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	paymentRepo portsrepo.PaymentRecordRepositoryFacade
	directory   portsrepo.DirectoryReader
	notifier    portssvc.NotificationDispatcher
	now         func() time.Time
}

// NewLedgerService creates the ledger write/read service.
func NewLedgerService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	paymentRepo portsrepo.PaymentRecordRepositoryFacade,
	directory portsrepo.DirectoryReader,
	notifier portssvc.NotificationDispatcher,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		paymentRepo: paymentRepo,
		directory:   directory,
		notifier:    notifier,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// RecordManualPayment appends an admin-entered cash/check payment and the
// matching already-paid PaymentRecord. Manual entries carry no external ref,
// so no idempotency guard applies; double submission is the admin's to avoid.
func (s *ledgerService) RecordManualPayment(ctx context.Context, req dto.RecordManualPaymentRequest, recordedByUserID string) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAmountNotPositive)
	}
	if err := s.checkTenancy(ctx, req.TenantID, req.PropertyID); err != nil {
		return nil, err
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	now := s.now()
	entry := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		TenantID:      req.TenantID,
		PropertyID:    req.PropertyID,
		Type:          domain.EntryPayment,
		Category:      domain.CategoryRent,
		Amount:        req.Amount,
		Date:          req.PaymentDate.UTC(),
		Status:        domain.EntryCompleted,
		Description:   req.Description,
		PaymentMethod: &method,
		CheckNumber:   req.CheckNumber,
		ManualEntry:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     recordedByUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: recordedByUserID,
		},
	}

	if err := s.ledgerRepo.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record manual payment: %w", err)
	}

	paidDate := entry.Date
	record := domain.PaymentRecord{
		PaymentID:     uuid.NewString(),
		TenantID:      req.TenantID,
		PropertyID:    req.PropertyID,
		Amount:        req.Amount,
		DueDate:       entry.Date,
		PaidDate:      &paidDate,
		Status:        domain.PaymentPaid,
		Description:   req.Description,
		PaymentMethod: &method,
		CheckNumber:   req.CheckNumber,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     recordedByUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: recordedByUserID,
		},
	}
	if err := s.paymentRepo.SavePayment(ctx, record); err != nil {
		// The ledger entry is the source of truth; a failed companion record
		// is logged but does not fail the operation.
		logger.Error("Failed to save companion payment record", "entry_id", entry.EntryID, "error", err)
	}

	s.notifyAsync(ctx, req.TenantID, domain.NotificationEvent{
		Type:  domain.NotifyPaymentReceived,
		Title: "Payment received",
		Body:  fmt.Sprintf("Your %s payment of $%s was recorded.", req.PaymentMethod, req.Amount.StringFixed(2)),
	})

	logger.Info("Manual payment recorded",
		"entry_id", entry.EntryID,
		"tenant_id", req.TenantID,
		"amount", req.Amount.String(),
		"method", req.PaymentMethod,
	)
	return &entry, nil
}

// RecordAdjustment appends an ad-hoc charge or credit. Credits are stored as
// negative magnitudes so status derivation can sum adjustments signed.
func (s *ledgerService) RecordAdjustment(ctx context.Context, req dto.CreateAdjustmentRequest, recordedByUserID string) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAmountNotPositive)
	}
	if err := s.checkTenancy(ctx, req.TenantID, req.PropertyID); err != nil {
		return nil, err
	}

	amount := req.Amount
	if req.AdjustmentType == "credit" {
		amount = amount.Neg()
	}

	now := s.now()
	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		TenantID:    req.TenantID,
		PropertyID:  req.PropertyID,
		Type:        domain.EntryAdjustment,
		Category:    req.Category,
		Amount:      amount,
		Date:        now,
		Status:      domain.EntryCompleted,
		Description: req.Description,
		ManualEntry: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     recordedByUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: recordedByUserID,
		},
	}

	if err := s.ledgerRepo.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record adjustment: %w", err)
	}

	s.notifyAsync(ctx, req.TenantID, domain.NotificationEvent{
		Type:  domain.NotifyLedgerAdjustment,
		Title: "Ledger adjustment",
		Body:  fmt.Sprintf("A %s of $%s was applied to your account: %s", req.AdjustmentType, req.Amount.StringFixed(2), req.Description),
	})

	logger.Info("Adjustment recorded",
		"entry_id", entry.EntryID,
		"tenant_id", req.TenantID,
		"adjustment_type", req.AdjustmentType,
		"amount", amount.String(),
	)
	return &entry, nil
}

// ListTenantEntries returns a tenant's ledger newest-first for audit views.
func (s *ledgerService) ListTenantEntries(ctx context.Context, tenantID string, params dto.ListLedgerEntriesParams) ([]domain.LedgerEntry, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	entries, err := s.ledgerRepo.ListEntriesByTenant(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries for tenant %s: %w", tenantID, err)
	}
	return entries, nil
}

// checkTenancy verifies the tenant exists, has the tenant role and occupies
// the given property.
func (s *ledgerService) checkTenancy(ctx context.Context, tenantID, propertyID string) error {
	user, err := s.directory.FindUserByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("tenant %s: %w", tenantID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to look up tenant %s: %w", tenantID, err)
	}
	if user.Role != domain.RoleTenant {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrNotATenant)
	}
	if user.PropertyID == nil || *user.PropertyID != propertyID {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrTenantMismatch)
	}
	if _, err := s.directory.FindPropertyByID(ctx, propertyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("property %s: %w", propertyID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to look up property %s: %w", propertyID, err)
	}
	return nil
}

// notifyAsync fires the notification hook; failures are logged, never returned.
func (s *ledgerService) notifyAsync(ctx context.Context, userID string, event domain.NotificationEvent) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, userID, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Notification dispatch failed", "user_id", userID, "error", err)
	}
}
