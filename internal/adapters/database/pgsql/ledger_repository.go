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

const pgUniqueViolation = "23505"

type PgxLedgerRepository struct {
	pool *pgxpool.Pool
}

// NewPgxLedgerRepository creates a new repository for the append-only ledger.
func NewPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{pool: pool}
}

const ledgerColumns = `entry_id, tenant_id, property_id, type, category, amount, entry_date, status, description, payment_method, check_number, external_ref, receipt_url, manual_entry, created_at, created_by, last_updated_at, last_updated_by`

// SaveEntry appends a single immutable ledger entry. The partial unique index
// on external_ref turns a redelivered settled-payment event into a unique
// violation, which is mapped to apperrors.ErrDuplicate.
func (r *PgxLedgerRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.pool.Exec(ctx, query,
		entry.EntryID,
		entry.TenantID,
		entry.PropertyID,
		entry.Type,
		entry.Category,
		entry.Amount,
		entry.Date,
		entry.Status,
		entry.Description,
		entry.PaymentMethod,
		entry.CheckNumber,
		entry.ExternalRef,
		entry.ReceiptURL,
		entry.ManualEntry,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert ledger entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// FindEntryByID retrieves a single ledger entry by its ID.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger WHERE entry_id = $1;`

	entry, err := scanLedgerEntry(r.pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry by ID %s: %w", entryID, err)
	}
	return entry, nil
}

// FindEntriesByTenant retrieves a tenant's entries with dates in [from, to).
func (r *PgxLedgerRepository) FindEntriesByTenant(ctx context.Context, tenantID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger
		WHERE tenant_id = $1 AND entry_date >= $2 AND entry_date < $3
		ORDER BY entry_date, entry_id;
	`
	return r.queryEntries(ctx, query, tenantID, from, to)
}

// FindEntriesByProperty retrieves a property's entries with dates in [from, to).
func (r *PgxLedgerRepository) FindEntriesByProperty(ctx context.Context, propertyID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger
		WHERE property_id = $1 AND entry_date >= $2 AND entry_date < $3
		ORDER BY entry_date, entry_id;
	`
	return r.queryEntries(ctx, query, propertyID, from, to)
}

// FindEntriesInRange retrieves all entries with dates in [from, to).
func (r *PgxLedgerRepository) FindEntriesInRange(ctx context.Context, from, to time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger
		WHERE entry_date >= $1 AND entry_date < $2
		ORDER BY entry_date, entry_id;
	`
	return r.queryEntries(ctx, query, from, to)
}

// ListEntriesByTenant retrieves a tenant's entries newest-first, paginated.
func (r *PgxLedgerRepository) ListEntriesByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger
		WHERE tenant_id = $1
		ORDER BY entry_date DESC, entry_id DESC
		LIMIT $2 OFFSET $3;
	`
	return r.queryEntries(ctx, query, tenantID, limit, offset)
}

func (r *PgxLedgerRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}
	return entries, nil
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	err := row.Scan(
		&entry.EntryID,
		&entry.TenantID,
		&entry.PropertyID,
		&entry.Type,
		&entry.Category,
		&entry.Amount,
		&entry.Date,
		&entry.Status,
		&entry.Description,
		&entry.PaymentMethod,
		&entry.CheckNumber,
		&entry.ExternalRef,
		&entry.ReceiptURL,
		&entry.ManualEntry,
		&entry.CreatedAt,
		&entry.CreatedBy,
		&entry.LastUpdatedAt,
		&entry.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
