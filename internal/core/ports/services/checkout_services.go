package services

import (
	"context"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	"github.com/nxtlevel/rent_ledger_app/internal/dto"
)

// CheckoutSvcFacade exposes tenant-facing payment initiation.
type CheckoutSvcFacade interface {
	// CreateCheckoutSession pre-registers a pending PaymentRecord and opens a
	// hosted checkout with the processor, stamping tenant/property/payment
	// ids into the session metadata for the webhook round-trip.
	CreateCheckoutSession(ctx context.Context, tenantID string, req dto.CreateCheckoutSessionRequest) (*domain.CheckoutSession, error)

	// ListSavedMethods returns the tenant's reusable payment methods.
	ListSavedMethods(ctx context.Context, tenantID string) ([]domain.SavedPaymentMethod, error)
}
