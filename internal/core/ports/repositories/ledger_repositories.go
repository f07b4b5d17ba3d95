package repositories

import (
	"context"
	"time"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
)

// LedgerReader defines read operations over the append-only ledger.
type LedgerReader interface {
	// FindEntryByID retrieves a single ledger entry.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// FindEntriesByTenant retrieves a tenant's entries with dates in [from, to).
	FindEntriesByTenant(ctx context.Context, tenantID string, from, to time.Time) ([]domain.LedgerEntry, error)

	// FindEntriesByProperty retrieves a property's entries with dates in [from, to).
	FindEntriesByProperty(ctx context.Context, propertyID string, from, to time.Time) ([]domain.LedgerEntry, error)

	// FindEntriesInRange retrieves all entries with dates in [from, to),
	// used for portfolio-wide aggregation.
	FindEntriesInRange(ctx context.Context, from, to time.Time) ([]domain.LedgerEntry, error)

	// ListEntriesByTenant retrieves a tenant's entries newest-first for audit
	// listings, paginated by limit/offset.
	ListEntriesByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.LedgerEntry, error)
}

// LedgerWriter defines the single write operation on the ledger: appending.
type LedgerWriter interface {
	// SaveEntry appends one immutable entry. For settled payment entries
	// carrying an ExternalRef the storage enforces uniqueness of the ref;
	// a redelivered event surfaces as apperrors.ErrDuplicate so callers can
	// treat it as a no-op.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines ledger read and write operations.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
