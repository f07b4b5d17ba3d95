package repositories

import (
	"context"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
)

// DirectoryReader is a read-only view of the external user and property
// directories. The ledger core never writes these collections.
type DirectoryReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error)

	// FindTenantByPropertyID resolves a property's current tenant. Returns
	// apperrors.ErrNotFound for vacant properties.
	FindTenantByPropertyID(ctx context.Context, propertyID string) (*domain.User, error)

	ListProperties(ctx context.Context) ([]domain.Property, error)
}

// ProcessorCustomerRepository stores the tenant <-> processor customer mapping.
type ProcessorCustomerRepository interface {
	FindCustomerByTenantID(ctx context.Context, tenantID string) (*domain.ProcessorCustomer, error)
	FindTenantIDByCustomerID(ctx context.Context, customerID string) (string, error)
	SaveCustomer(ctx context.Context, customer domain.ProcessorCustomer) error
}

// PaymentMethodRepository stores reusable payment methods captured from
// payment_method.attached events.
type PaymentMethodRepository interface {
	SaveMethod(ctx context.Context, method domain.SavedPaymentMethod) error
	ListMethodsByTenant(ctx context.Context, tenantID string) ([]domain.SavedPaymentMethod, error)
}

// NotificationRepository persists in-app notification rows created by the
// dispatch hook.
type NotificationRepository interface {
	SaveNotification(ctx context.Context, n domain.Notification) error
}
