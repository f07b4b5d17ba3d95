package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nxtlevel/rent_ledger_app/internal/apperrors"
	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
)

type PgxPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPgxPaymentRepository creates a new repository for payment attempt records.
func NewPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRecordRepositoryFacade {
	return &PgxPaymentRepository{pool: pool}
}

const paymentColumns = `payment_id, tenant_id, property_id, amount, due_date, paid_date, status, description, payment_method, check_number, external_payment_intent_id, external_checkout_session_id, receipt_url, last_four_digits, created_at, created_by, last_updated_at, last_updated_by`

// SavePayment inserts a new payment attempt record.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.PaymentRecord) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.pool.Exec(ctx, query,
		payment.PaymentID,
		payment.TenantID,
		payment.PropertyID,
		payment.Amount,
		payment.DueDate,
		payment.PaidDate,
		payment.Status,
		payment.Description,
		payment.PaymentMethod,
		payment.CheckNumber,
		payment.ExternalPaymentIntentID,
		payment.ExternalCheckoutSessionID,
		payment.ReceiptURL,
		payment.LastFourDigits,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert payment %s: %w", payment.PaymentID, err)
	}
	return nil
}

// FindPaymentByID retrieves a payment record by its ID.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.PaymentRecord, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`

	payment, err := scanPaymentRecord(r.pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}
	return payment, nil
}

// FindPaymentByIntentID retrieves a payment record by its processor
// payment-intent id.
func (r *PgxPaymentRepository) FindPaymentByIntentID(ctx context.Context, intentID string) (*domain.PaymentRecord, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE external_payment_intent_id = $1;`

	payment, err := scanPaymentRecord(r.pool.QueryRow(ctx, query, intentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by intent ID %s: %w", intentID, err)
	}
	return payment, nil
}

// ListPaymentsByTenant retrieves a tenant's payment records newest-first.
func (r *PgxPaymentRepository) ListPaymentsByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.PaymentRecord, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE tenant_id = $1
		ORDER BY due_date DESC, payment_id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	payments := []domain.PaymentRecord{}
	for rows.Next() {
		payment, err := scanPaymentRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row for tenant %s: %w", tenantID, err)
		}
		payments = append(payments, *payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows for tenant %s: %w", tenantID, err)
	}
	return payments, nil
}

// MarkPaymentPaid transitions a pending record to paid and stores settlement
// metadata. The WHERE clause guards the transition: a record no longer
// pending updates zero rows, reported as apperrors.ErrConflict.
func (r *PgxPaymentRepository) MarkPaymentPaid(ctx context.Context, paymentID string, settle domain.SettlementDetails, intentID, sessionID string, paidAt time.Time, updatedBy string) error {
	query := `
		UPDATE payments
		SET status = $2,
		    paid_date = $3,
		    payment_method = $4,
		    last_four_digits = $5,
		    receipt_url = $6,
		    external_payment_intent_id = COALESCE(NULLIF($7, ''), external_payment_intent_id),
		    external_checkout_session_id = COALESCE(NULLIF($8, ''), external_checkout_session_id),
		    last_updated_at = $3,
		    last_updated_by = $9
		WHERE payment_id = $1 AND status = $10;
	`
	tag, err := r.pool.Exec(ctx, query,
		paymentID,
		domain.PaymentPaid,
		paidAt,
		settle.Method,
		settle.LastFourDigits,
		settle.ReceiptURL,
		intentID,
		sessionID,
		updatedBy,
		domain.PaymentPending,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment %s paid: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.transitionConflict(ctx, paymentID)
	}
	return nil
}

// MarkPaymentFailed transitions a pending record to failed.
func (r *PgxPaymentRepository) MarkPaymentFailed(ctx context.Context, paymentID string, intentID string, failedAt time.Time, updatedBy string) error {
	query := `
		UPDATE payments
		SET status = $2,
		    external_payment_intent_id = COALESCE(NULLIF($3, ''), external_payment_intent_id),
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE payment_id = $1 AND status = $6;
	`
	tag, err := r.pool.Exec(ctx, query, paymentID, domain.PaymentFailed, intentID, failedAt, updatedBy, domain.PaymentPending)
	if err != nil {
		return fmt.Errorf("failed to mark payment %s failed: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.transitionConflict(ctx, paymentID)
	}
	return nil
}

// CancelPayment transitions a pending record to cancelled.
func (r *PgxPaymentRepository) CancelPayment(ctx context.Context, paymentID string, cancelledAt time.Time, updatedBy string) error {
	query := `
		UPDATE payments
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payment_id = $1 AND status = $5;
	`
	tag, err := r.pool.Exec(ctx, query, paymentID, domain.PaymentCancelled, cancelledAt, updatedBy, domain.PaymentPending)
	if err != nil {
		return fmt.Errorf("failed to cancel payment %s: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.transitionConflict(ctx, paymentID)
	}
	return nil
}

// transitionConflict distinguishes a missing record from one already in a
// terminal state after a zero-row conditional update.
func (r *PgxPaymentRepository) transitionConflict(ctx context.Context, paymentID string) error {
	var status domain.PaymentRecordStatus
	err := r.pool.QueryRow(ctx, `SELECT status FROM payments WHERE payment_id = $1;`, paymentID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to check payment %s status: %w", paymentID, err)
	}
	return fmt.Errorf("payment %s is %s: %w", paymentID, status, apperrors.ErrConflict)
}

func scanPaymentRecord(row pgx.Row) (*domain.PaymentRecord, error) {
	var payment domain.PaymentRecord
	err := row.Scan(
		&payment.PaymentID,
		&payment.TenantID,
		&payment.PropertyID,
		&payment.Amount,
		&payment.DueDate,
		&payment.PaidDate,
		&payment.Status,
		&payment.Description,
		&payment.PaymentMethod,
		&payment.CheckNumber,
		&payment.ExternalPaymentIntentID,
		&payment.ExternalCheckoutSessionID,
		&payment.ReceiptURL,
		&payment.LastFourDigits,
		&payment.CreatedAt,
		&payment.CreatedBy,
		&payment.LastUpdatedAt,
		&payment.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
