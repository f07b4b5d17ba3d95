package repositories

import (
	"context"
	"time"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
)

// PaymentRecordReader defines read operations over payment attempt records.
type PaymentRecordReader interface {
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.PaymentRecord, error)

	// FindPaymentByIntentID looks a record up by its processor payment-intent
	// id, the idempotency key for webhook deliveries.
	FindPaymentByIntentID(ctx context.Context, intentID string) (*domain.PaymentRecord, error)

	ListPaymentsByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.PaymentRecord, error)
}

// PaymentRecordWriter defines write operations over payment attempt records.
// Terminal transitions are conditional on the record still being pending;
// a lost race surfaces as apperrors.ErrConflict.
type PaymentRecordWriter interface {
	SavePayment(ctx context.Context, payment domain.PaymentRecord) error

	// MarkPaymentPaid transitions pending -> paid and stores settlement
	// metadata. Only rows with status 'pending' are updated.
	MarkPaymentPaid(ctx context.Context, paymentID string, settle domain.SettlementDetails, intentID, sessionID string, paidAt time.Time, updatedBy string) error

	// MarkPaymentFailed transitions pending -> failed. Only rows with status
	// 'pending' are updated.
	MarkPaymentFailed(ctx context.Context, paymentID string, intentID string, failedAt time.Time, updatedBy string) error

	// CancelPayment transitions pending -> cancelled via explicit user or
	// admin action; never driven by the webhook path.
	CancelPayment(ctx context.Context, paymentID string, cancelledAt time.Time, updatedBy string) error
}

// PaymentRecordRepositoryFacade combines payment record operations.
type PaymentRecordRepositoryFacade interface {
	PaymentRecordReader
	PaymentRecordWriter
}
