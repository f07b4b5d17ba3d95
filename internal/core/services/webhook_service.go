package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nxtlevel/rent_ledger_app/internal/apperrors"
	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/nxtlevel/rent_ledger_app/internal/core/ports/services"
	"github.com/nxtlevel/rent_ledger_app/internal/middleware"
)

// webhookService turns verified processor callbacks into ledger writes.
//
// Ordering per event: verify signature, append the ledger entry (the atomic
// idempotency guard), transition the payment record, then fire the
// notification hook. A redelivered event fails the ledger append with
// ErrDuplicate and is acknowledged without side effects.
type webhookService struct {
	processor        portssvc.ProcessorClient
	ledgerRepo       portsrepo.LedgerRepositoryFacade
	paymentRepo      portsrepo.PaymentRecordRepositoryFacade
	methodRepo       portsrepo.PaymentMethodRepository
	customerRepo     portsrepo.ProcessorCustomerRepository
	notifier         portssvc.NotificationDispatcher
	processorTimeout time.Duration
	now              func() time.Time
}

// NewWebhookService creates the processor event consumer.
func NewWebhookService(
	processor portssvc.ProcessorClient,
	repos *portsrepo.RepositoryProvider,
	notifier portssvc.NotificationDispatcher,
	processorTimeout time.Duration,
) portssvc.WebhookSvcFacade {
	if processorTimeout <= 0 {
		processorTimeout = 10 * time.Second
	}
	return &webhookService{
		processor:        processor,
		ledgerRepo:       repos.Ledger,
		paymentRepo:      repos.Payments,
		methodRepo:       repos.PaymentMethods,
		customerRepo:     repos.ProcessorCustomer,
		notifier:         notifier,
		processorTimeout: processorTimeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.WebhookSvcFacade = (*webhookService)(nil)

// ProcessEvent verifies and applies one raw webhook delivery.
//
// A nil return acknowledges the delivery: the event was applied, was a
// redelivery, was an unhandled type, or was structurally malformed (which a
// retry cannot fix). A non-nil return asks the processor to redeliver.
func (s *webhookService) ProcessEvent(ctx context.Context, payload []byte, signature string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	event, err := s.processor.VerifyEvent(payload, signature)
	if err != nil {
		return fmt.Errorf("event verification failed: %w", err)
	}

	logger = logger.With("event_id", event.EventID, "event_type", string(event.Type))
	ctx = middleware.WithLogger(ctx, logger)

	switch event.Type {
	case domain.EventCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, event.Checkout)
	case domain.EventPaymentFailed:
		return s.handlePaymentFailed(ctx, event.Intent)
	case domain.EventPaymentMethodAttached:
		return s.handleMethodAttached(ctx, event.Method)
	case domain.EventPaymentSucceeded:
		// Settlement is applied on checkout.session.completed; the bare
		// intent success carries no session metadata and is acknowledged.
		logger.Debug("Ignoring payment_intent.succeeded")
		return nil
	default:
		logger.Info("Ignoring unhandled event type")
		return nil
	}
}

func (s *webhookService) handleCheckoutCompleted(ctx context.Context, data *domain.CheckoutEventData) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if data == nil || data.TenantID == "" || data.PropertyID == "" {
		// Metadata was not stamped at checkout creation. Redelivery cannot
		// repair this, so acknowledge and leave a trace.
		logger.Warn("Checkout event missing routing metadata, acknowledging",
			"session_id", sessionIDOf(data))
		return nil
	}

	// Enrich with settlement metadata before any write so a transient
	// processor failure leaves nothing half-applied.
	settle, err := s.fetchSettlement(ctx, data.PaymentIntentID)
	if err != nil {
		return err
	}

	now := s.now()
	externalRef := data.PaymentIntentID
	entry := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		TenantID:      data.TenantID,
		PropertyID:    data.PropertyID,
		Type:          domain.EntryPayment,
		Category:      domain.CategoryRent,
		Amount:        data.AmountTotal.Abs(),
		Date:          now,
		Status:        domain.EntryCompleted,
		Description:   paymentDescription(data),
		PaymentMethod: &settle.Method,
		ExternalRef:   &externalRef,
		ReceiptURL:    settle.ReceiptURL,
		ManualEntry:   false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     domain.SystemActorWebhook,
			LastUpdatedAt: now,
			LastUpdatedBy: domain.SystemActorWebhook,
		},
	}

	if err := s.ledgerRepo.SaveEntry(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Info("Redelivered checkout event, already applied",
				"payment_intent_id", data.PaymentIntentID)
			return nil
		}
		return fmt.Errorf("failed to append settled payment: %w", err)
	}

	s.settlePaymentRecord(ctx, data, settle, now)

	s.notifyAsync(ctx, data.TenantID, domain.NotificationEvent{
		Type:  domain.NotifyPaymentReceived,
		Title: "Payment received",
		Body:  fmt.Sprintf("Your rent payment of $%s was received.", data.AmountTotal.Abs().StringFixed(2)),
	})

	logger.Info("Settled payment applied",
		"entry_id", entry.EntryID,
		"tenant_id", data.TenantID,
		"payment_intent_id", data.PaymentIntentID,
		"amount", entry.Amount.String(),
	)
	return nil
}

// settlePaymentRecord transitions the pre-registered record to paid, or
// creates an already-paid record when checkout was initiated without one.
// Record failures never unwind the committed ledger entry.
func (s *webhookService) settlePaymentRecord(ctx context.Context, data *domain.CheckoutEventData, settle *domain.SettlementDetails, now time.Time) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if data.PaymentID != "" {
		err := s.paymentRepo.MarkPaymentPaid(ctx, data.PaymentID, *settle, data.PaymentIntentID, data.SessionID, now, domain.SystemActorWebhook)
		if err == nil {
			return
		}
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Payment record no longer pending", "payment_id", data.PaymentID)
			return
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to mark payment paid", "payment_id", data.PaymentID, "error", err)
			return
		}
		logger.Warn("Pre-registered payment record missing, creating one", "payment_id", data.PaymentID)
	}

	intentID := data.PaymentIntentID
	sessionID := data.SessionID
	record := domain.PaymentRecord{
		PaymentID:                 uuid.NewString(),
		TenantID:                  data.TenantID,
		PropertyID:                data.PropertyID,
		Amount:                    data.AmountTotal.Abs(),
		DueDate:                   now,
		PaidDate:                  &now,
		Status:                    domain.PaymentPaid,
		Description:               paymentDescription(data),
		PaymentMethod:             &settle.Method,
		ExternalPaymentIntentID:   &intentID,
		ExternalCheckoutSessionID: &sessionID,
		ReceiptURL:                settle.ReceiptURL,
		LastFourDigits:            settle.LastFourDigits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     domain.SystemActorWebhook,
			LastUpdatedAt: now,
			LastUpdatedBy: domain.SystemActorWebhook,
		},
	}
	if err := s.paymentRepo.SavePayment(ctx, record); err != nil && !errors.Is(err, apperrors.ErrDuplicate) {
		logger.Error("Failed to save settled payment record", "payment_intent_id", data.PaymentIntentID, "error", err)
	}
}

func (s *webhookService) handlePaymentFailed(ctx context.Context, data *domain.IntentEventData) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if data == nil || data.PaymentIntentID == "" {
		logger.Warn("Failed-payment event missing intent id, acknowledging")
		return nil
	}

	record, err := s.resolveFailedRecord(ctx, data)
	if err != nil {
		return err
	}
	if record == nil {
		// No pre-registered record means no terminal transition to gate the
		// audit append on, so a redelivery would duplicate it. Drop the event.
		logger.Warn("Failed-payment event has no matching record, acknowledging",
			"payment_intent_id", data.PaymentIntentID)
		return nil
	}

	tenantID := record.TenantID
	propertyID := record.PropertyID

	now := s.now()
	err = s.paymentRepo.MarkPaymentFailed(ctx, record.PaymentID, data.PaymentIntentID, now, domain.SystemActorWebhook)
	if errors.Is(err, apperrors.ErrConflict) {
		// Already terminal: this delivery was applied before.
		logger.Info("Redelivered failed-payment event, already applied",
			"payment_id", record.PaymentID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to mark payment %s failed: %w", record.PaymentID, err)
	}

	// Failed attempts leave an audit row. Status failed keeps it out of all
	// balance math; the terminal transition above already absorbed any
	// redelivery before this append.
	externalRef := data.PaymentIntentID
	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		TenantID:    tenantID,
		PropertyID:  propertyID,
		Type:        domain.EntryPayment,
		Category:    domain.CategoryRent,
		Amount:      data.Amount.Abs(),
		Date:        now,
		Status:      domain.EntryFailed,
		Description: "Payment attempt failed",
		ExternalRef: &externalRef,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     domain.SystemActorWebhook,
			LastUpdatedAt: now,
			LastUpdatedBy: domain.SystemActorWebhook,
		},
	}
	if err := s.ledgerRepo.SaveEntry(ctx, entry); err != nil {
		logger.Error("Failed to append failed-payment audit row",
			"payment_intent_id", data.PaymentIntentID, "error", err)
	}

	s.notifyAsync(ctx, tenantID, domain.NotificationEvent{
		Type:  domain.NotifyPaymentFailed,
		Title: "Payment failed",
		Body:  "Your rent payment could not be processed. Please try again or use another payment method.",
	})

	logger.Info("Failed payment recorded",
		"tenant_id", tenantID,
		"payment_intent_id", data.PaymentIntentID,
	)
	return nil
}

// resolveFailedRecord finds the pending record a failed intent belongs to,
// by pre-registered payment id first, then by intent id.
func (s *webhookService) resolveFailedRecord(ctx context.Context, data *domain.IntentEventData) (*domain.PaymentRecord, error) {
	if data.PaymentID != "" {
		record, err := s.paymentRepo.FindPaymentByID(ctx, data.PaymentID)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up payment %s: %w", data.PaymentID, err)
		}
	}
	record, err := s.paymentRepo.FindPaymentByIntentID(ctx, data.PaymentIntentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up payment by intent %s: %w", data.PaymentIntentID, err)
	}
	return record, nil
}

func (s *webhookService) handleMethodAttached(ctx context.Context, data *domain.MethodEventData) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if data == nil || data.ExternalMethodID == "" || data.CustomerID == "" {
		logger.Warn("Method-attached event missing identifiers, acknowledging")
		return nil
	}

	tenantID, err := s.customerRepo.FindTenantIDByCustomerID(ctx, data.CustomerID)
	if errors.Is(err, apperrors.ErrNotFound) {
		// Customer created out of band; fall back to the metadata stamped on
		// the processor side.
		cctx, cancel := context.WithTimeout(ctx, s.processorTimeout)
		defer cancel()
		tenantID, err = s.processor.ResolveCustomerTenantID(cctx, data.CustomerID)
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Method attached for unknown customer, acknowledging",
				"customer_id", data.CustomerID)
			return nil
		}
	}
	if err != nil {
		return fmt.Errorf("failed to resolve tenant for customer %s: %w", data.CustomerID, err)
	}

	method := domain.SavedPaymentMethod{
		MethodID:         uuid.NewString(),
		TenantID:         tenantID,
		ExternalMethodID: data.ExternalMethodID,
		Type:             data.Type,
		LastFour:         data.LastFour,
		Brand:            data.Brand,
		BankName:         data.BankName,
		ExpiryMonth:      data.ExpiryMonth,
		ExpiryYear:       data.ExpiryYear,
		CreatedAt:        s.now(),
	}
	if err := s.methodRepo.SaveMethod(ctx, method); err != nil {
		return fmt.Errorf("failed to save attached payment method: %w", err)
	}

	logger.Info("Payment method saved",
		"tenant_id", tenantID,
		"method_type", data.Type,
	)
	return nil
}

// fetchSettlement calls the processor under its own timeout so a slow
// enrichment cannot hold the webhook handler past the processor's delivery
// deadline.
func (s *webhookService) fetchSettlement(ctx context.Context, paymentIntentID string) (*domain.SettlementDetails, error) {
	if paymentIntentID == "" {
		return &domain.SettlementDetails{Method: domain.MethodCard}, nil
	}
	cctx, cancel := context.WithTimeout(ctx, s.processorTimeout)
	defer cancel()

	settle, err := s.processor.GetSettlementDetails(cctx, paymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settlement details for %s: %w", paymentIntentID, err)
	}
	return settle, nil
}

func (s *webhookService) notifyAsync(ctx context.Context, userID string, event domain.NotificationEvent) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, userID, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Notification dispatch failed", "user_id", userID, "error", err)
	}
}

func paymentDescription(data *domain.CheckoutEventData) string {
	if data.Description != "" {
		return data.Description
	}
	return "Rent payment"
}

func sessionIDOf(data *domain.CheckoutEventData) string {
	if data == nil {
		return ""
	}
	return data.SessionID
}
