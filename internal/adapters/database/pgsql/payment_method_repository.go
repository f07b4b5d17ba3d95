package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
)

type PgxPaymentMethodRepository struct {
	pool *pgxpool.Pool
}

// NewPgxPaymentMethodRepository creates a new repository for saved payment methods.
func NewPgxPaymentMethodRepository(pool *pgxpool.Pool) portsrepo.PaymentMethodRepository {
	return &PgxPaymentMethodRepository{pool: pool}
}

// SaveMethod upserts a saved payment method keyed on the processor's method
// id, so a redelivered payment_method.attached event is harmless.
func (r *PgxPaymentMethodRepository) SaveMethod(ctx context.Context, method domain.SavedPaymentMethod) error {
	query := `
		INSERT INTO saved_payment_methods (method_id, tenant_id, external_method_id, type, last_four, brand, bank_name, expiry_month, expiry_year, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (external_method_id) DO UPDATE
		SET last_four = EXCLUDED.last_four,
		    brand = EXCLUDED.brand,
		    bank_name = EXCLUDED.bank_name,
		    expiry_month = EXCLUDED.expiry_month,
		    expiry_year = EXCLUDED.expiry_year;
	`
	_, err := r.pool.Exec(ctx, query,
		method.MethodID,
		method.TenantID,
		method.ExternalMethodID,
		method.Type,
		method.LastFour,
		method.Brand,
		method.BankName,
		method.ExpiryMonth,
		method.ExpiryYear,
		method.IsDefault,
		method.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment method %s: %w", method.ExternalMethodID, err)
	}
	return nil
}

// ListMethodsByTenant retrieves a tenant's saved payment methods.
func (r *PgxPaymentMethodRepository) ListMethodsByTenant(ctx context.Context, tenantID string) ([]domain.SavedPaymentMethod, error) {
	query := `
		SELECT method_id, tenant_id, external_method_id, type, last_four, brand, bank_name, expiry_month, expiry_year, is_default, created_at
		FROM saved_payment_methods
		WHERE tenant_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment methods for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	methods := []domain.SavedPaymentMethod{}
	for rows.Next() {
		var method domain.SavedPaymentMethod
		if err := rows.Scan(
			&method.MethodID,
			&method.TenantID,
			&method.ExternalMethodID,
			&method.Type,
			&method.LastFour,
			&method.Brand,
			&method.BankName,
			&method.ExpiryMonth,
			&method.ExpiryYear,
			&method.IsDefault,
			&method.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment method row for tenant %s: %w", tenantID, err)
		}
		methods = append(methods, method)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment method rows for tenant %s: %w", tenantID, err)
	}
	return methods, nil
}
