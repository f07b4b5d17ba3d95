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

// checkoutService initiates hosted checkouts. A pending PaymentRecord is
// pre-registered before the processor call so the webhook can settle it by
// the payment id stamped into the session metadata.
type checkoutService struct {
	processor        portssvc.ProcessorClient
	paymentRepo      portsrepo.PaymentRecordRepositoryFacade
	methodRepo       portsrepo.PaymentMethodRepository
	customerRepo     portsrepo.ProcessorCustomerRepository
	directory        portsrepo.DirectoryReader
	frontendBaseURL  string
	processorTimeout time.Duration
	now              func() time.Time
}

// NewCheckoutService creates the payment initiation service.
func NewCheckoutService(
	processor portssvc.ProcessorClient,
	repos *portsrepo.RepositoryProvider,
	frontendBaseURL string,
	processorTimeout time.Duration,
) portssvc.CheckoutSvcFacade {
	if processorTimeout <= 0 {
		processorTimeout = 10 * time.Second
	}
	return &checkoutService{
		processor:        processor,
		paymentRepo:      repos.Payments,
		methodRepo:       repos.PaymentMethods,
		customerRepo:     repos.ProcessorCustomer,
		directory:        repos.Directory,
		frontendBaseURL:  frontendBaseURL,
		processorTimeout: processorTimeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.CheckoutSvcFacade = (*checkoutService)(nil)

// CreateCheckoutSession opens a hosted checkout for the authenticated tenant.
func (s *checkoutService) CreateCheckoutSession(ctx context.Context, tenantID string, req dto.CreateCheckoutSessionRequest) (*domain.CheckoutSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAmountNotPositive)
	}

	tenant, err := s.directory.FindUserByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("tenant %s: %w", tenantID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up tenant %s: %w", tenantID, err)
	}
	if tenant.PropertyID == nil || *tenant.PropertyID != req.PropertyID {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrTenantMismatch)
	}

	customerID, err := s.ensureCustomer(ctx, tenant)
	if err != nil {
		return nil, err
	}

	paymentID, err := s.ensurePendingRecord(ctx, tenant, req)
	if err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, s.processorTimeout)
	defer cancel()

	session, err := s.processor.CreateCheckoutSession(cctx, portssvc.CreateCheckoutSessionParams{
		CustomerID:  customerID,
		Amount:      req.Amount,
		Description: req.Description,
		TenantID:    tenantID,
		PropertyID:  req.PropertyID,
		PaymentID:   paymentID,
		SuccessURL:  s.frontendBaseURL + "/payments/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.frontendBaseURL + "/payments/cancelled",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	logger.Info("Checkout session created",
		"tenant_id", tenantID,
		"payment_id", paymentID,
		"session_id", session.SessionID,
		"amount", req.Amount.String(),
	)
	return session, nil
}

// ListSavedMethods returns the tenant's reusable payment methods.
func (s *checkoutService) ListSavedMethods(ctx context.Context, tenantID string) ([]domain.SavedPaymentMethod, error) {
	methods, err := s.methodRepo.ListMethodsByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods for tenant %s: %w", tenantID, err)
	}
	return methods, nil
}

// ensureCustomer returns the tenant's processor customer id, registering one
// on first use.
func (s *checkoutService) ensureCustomer(ctx context.Context, tenant *domain.User) (string, error) {
	customer, err := s.customerRepo.FindCustomerByTenantID(ctx, tenant.UserID)
	if err == nil {
		return customer.CustomerID, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("failed to look up processor customer: %w", err)
	}

	cctx, cancel := context.WithTimeout(ctx, s.processorTimeout)
	defer cancel()

	customerID, err := s.processor.CreateCustomer(cctx, tenant.UserID, tenant.Email, tenant.DisplayName)
	if err != nil {
		return "", fmt.Errorf("failed to register processor customer: %w", err)
	}
	if err := s.customerRepo.SaveCustomer(ctx, domain.ProcessorCustomer{
		TenantID:   tenant.UserID,
		CustomerID: customerID,
		Email:      tenant.Email,
	}); err != nil {
		return "", fmt.Errorf("failed to save processor customer mapping: %w", err)
	}
	return customerID, nil
}

// ensurePendingRecord returns the pre-registered record id for this checkout,
// validating a caller-supplied one or creating a fresh pending record.
func (s *checkoutService) ensurePendingRecord(ctx context.Context, tenant *domain.User, req dto.CreateCheckoutSessionRequest) (string, error) {
	if req.PaymentID != "" {
		record, err := s.paymentRepo.FindPaymentByID(ctx, req.PaymentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return "", fmt.Errorf("payment %s: %w", req.PaymentID, apperrors.ErrNotFound)
			}
			return "", fmt.Errorf("failed to look up payment %s: %w", req.PaymentID, err)
		}
		if record.TenantID != tenant.UserID {
			return "", fmt.Errorf("payment %s: %w", req.PaymentID, apperrors.ErrForbidden)
		}
		if record.Status != domain.PaymentPending {
			return "", fmt.Errorf("payment %s is %s: %w", req.PaymentID, record.Status, apperrors.ErrConflict)
		}
		return record.PaymentID, nil
	}

	now := s.now()
	record := domain.PaymentRecord{
		PaymentID:   uuid.NewString(),
		TenantID:    tenant.UserID,
		PropertyID:  req.PropertyID,
		Amount:      req.Amount,
		DueDate:     now,
		Status:      domain.PaymentPending,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     tenant.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: tenant.UserID,
		},
	}
	if err := s.paymentRepo.SavePayment(ctx, record); err != nil {
		return "", fmt.Errorf("failed to pre-register payment record: %w", err)
	}
	return record.PaymentID, nil
}
