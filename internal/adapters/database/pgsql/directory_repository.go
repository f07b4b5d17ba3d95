package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nxtlevel/rent_ledger_app/internal/apperrors"
	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
)

// PgxDirectoryRepository reads the synced user and property directories. The
// directories are owned by the identity platform and mirrored into Postgres;
// this repository never writes them.
type PgxDirectoryRepository struct {
	pool *pgxpool.Pool
}

func NewPgxDirectoryRepository(pool *pgxpool.Pool) portsrepo.DirectoryReader {
	return &PgxDirectoryRepository{pool: pool}
}

const userColumns = `user_id, email, display_name, role, property_id, COALESCE(unit, ''), monthly_rent, created_at`

// FindUserByID retrieves a user by ID.
func (r *PgxDirectoryRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`

	user, err := scanUser(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return user, nil
}

// FindTenantByPropertyID resolves the current tenant of a property. A vacant
// property returns apperrors.ErrNotFound.
func (r *PgxDirectoryRepository) FindTenantByPropertyID(ctx context.Context, propertyID string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE property_id = $1 AND role = $2
		ORDER BY created_at
		LIMIT 1;
	`
	user, err := scanUser(r.pool.QueryRow(ctx, query, propertyID, domain.RoleTenant))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant for property %s: %w", propertyID, err)
	}
	return user, nil
}

// FindPropertyByID retrieves a property by ID.
func (r *PgxDirectoryRepository) FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	query := `
		SELECT property_id, COALESCE(landlord_id, ''), name, address, rent, status
		FROM properties
		WHERE property_id = $1;
	`
	var property domain.Property
	err := r.pool.QueryRow(ctx, query, propertyID).Scan(
		&property.PropertyID,
		&property.LandlordID,
		&property.Name,
		&property.Address,
		&property.Rent,
		&property.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find property by ID %s: %w", propertyID, err)
	}
	return &property, nil
}

// ListProperties retrieves all properties ordered by name.
func (r *PgxDirectoryRepository) ListProperties(ctx context.Context) ([]domain.Property, error) {
	query := `
		SELECT property_id, COALESCE(landlord_id, ''), name, address, rent, status
		FROM properties
		ORDER BY name, property_id;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	properties := []domain.Property{}
	for rows.Next() {
		var property domain.Property
		if err := rows.Scan(
			&property.PropertyID,
			&property.LandlordID,
			&property.Name,
			&property.Address,
			&property.Rent,
			&property.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		properties = append(properties, property)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}
	return properties, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.UserID,
		&user.Email,
		&user.DisplayName,
		&user.Role,
		&user.PropertyID,
		&user.Unit,
		&user.MonthlyRent,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PgxProcessorCustomerRepository stores the tenant <-> processor customer
// mapping.
type PgxProcessorCustomerRepository struct {
	pool *pgxpool.Pool
}

func NewPgxProcessorCustomerRepository(pool *pgxpool.Pool) portsrepo.ProcessorCustomerRepository {
	return &PgxProcessorCustomerRepository{pool: pool}
}

// FindCustomerByTenantID retrieves the processor customer mapped to a tenant.
func (r *PgxProcessorCustomerRepository) FindCustomerByTenantID(ctx context.Context, tenantID string) (*domain.ProcessorCustomer, error) {
	query := `SELECT tenant_id, customer_id, email FROM processor_customers WHERE tenant_id = $1;`

	var customer domain.ProcessorCustomer
	err := r.pool.QueryRow(ctx, query, tenantID).Scan(&customer.TenantID, &customer.CustomerID, &customer.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find processor customer for tenant %s: %w", tenantID, err)
	}
	return &customer, nil
}

// FindTenantIDByCustomerID resolves a processor customer id back to a tenant.
func (r *PgxProcessorCustomerRepository) FindTenantIDByCustomerID(ctx context.Context, customerID string) (string, error) {
	query := `SELECT tenant_id FROM processor_customers WHERE customer_id = $1;`

	var tenantID string
	err := r.pool.QueryRow(ctx, query, customerID).Scan(&tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve tenant for customer %s: %w", customerID, err)
	}
	return tenantID, nil
}

// SaveCustomer upserts the mapping; a tenant has at most one customer.
func (r *PgxProcessorCustomerRepository) SaveCustomer(ctx context.Context, customer domain.ProcessorCustomer) error {
	query := `
		INSERT INTO processor_customers (tenant_id, customer_id, email, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (tenant_id) DO UPDATE
		SET customer_id = EXCLUDED.customer_id,
		    email = EXCLUDED.email,
		    last_updated_at = EXCLUDED.last_updated_at;
	`
	_, err := r.pool.Exec(ctx, query, customer.TenantID, customer.CustomerID, customer.Email, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save processor customer for tenant %s: %w", customer.TenantID, err)
	}
	return nil
}
