package services

import (
	"context"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCheckoutSessionParams carries everything the processor needs to open
// a hosted checkout. Tenant/property/payment ids are stamped into the
// session metadata so webhook callbacks can be routed back to the ledger.
type CreateCheckoutSessionParams struct {
	CustomerID  string
	Amount      decimal.Decimal
	Description string
	TenantID    string
	PropertyID  string
	PaymentID   string
	SuccessURL  string
	CancelURL   string
}

// ProcessorClient wraps the external payment processor. The core depends
// only on this port; the concrete client is injected at process start.
type ProcessorClient interface {
	// VerifyEvent authenticates a raw webhook delivery against its signature
	// header and returns the parsed, processor-neutral event. It must be
	// called on the unparsed body before any event content is inspected.
	VerifyEvent(payload []byte, signature string) (*domain.ProcessorEvent, error)

	// GetSettlementDetails retrieves payment method, last-four and receipt
	// metadata for a settled payment intent.
	GetSettlementDetails(ctx context.Context, paymentIntentID string) (*domain.SettlementDetails, error)

	// CreateCheckoutSession opens a hosted checkout.
	CreateCheckoutSession(ctx context.Context, params CreateCheckoutSessionParams) (*domain.CheckoutSession, error)

	// CreateCustomer registers a processor customer for a tenant, stamping
	// the tenant id into the customer metadata.
	CreateCustomer(ctx context.Context, tenantID, email, displayName string) (string, error)

	// ResolveCustomerTenantID maps a processor customer id back to a tenant
	// id via the customer metadata.
	ResolveCustomerTenantID(ctx context.Context, customerID string) (string, error)
}

// NotificationDispatcher is the fire-and-forget notification collaborator.
// Dispatch failures are logged by callers and never roll back ledger writes.
type NotificationDispatcher interface {
	Notify(ctx context.Context, userID string, event domain.NotificationEvent) (domain.NotificationResult, error)
}
