package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	portssvc "github.com/nxtlevel/rent_ledger_app/internal/core/ports/services"
)

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByTenant(ctx context.Context, tenantID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByProperty(ctx context.Context, propertyID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, propertyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesInRange(ctx context.Context, from, to time.Time) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// MockPaymentRepository is a mock type for the PaymentRecordRepositoryFacade interface
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.PaymentRecord) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.PaymentRecord, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentByIntentID(ctx context.Context, intentID string) (*domain.PaymentRecord, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.PaymentRecord, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRepository) MarkPaymentPaid(ctx context.Context, paymentID string, settle domain.SettlementDetails, intentID, sessionID string, paidAt time.Time, updatedBy string) error {
	args := m.Called(ctx, paymentID, settle, intentID, sessionID, paidAt, updatedBy)
	return args.Error(0)
}

func (m *MockPaymentRepository) MarkPaymentFailed(ctx context.Context, paymentID string, intentID string, failedAt time.Time, updatedBy string) error {
	args := m.Called(ctx, paymentID, intentID, failedAt, updatedBy)
	return args.Error(0)
}

func (m *MockPaymentRepository) CancelPayment(ctx context.Context, paymentID string, cancelledAt time.Time, updatedBy string) error {
	args := m.Called(ctx, paymentID, cancelledAt, updatedBy)
	return args.Error(0)
}

// MockDirectoryReader is a mock type for the DirectoryReader interface
type MockDirectoryReader struct {
	mock.Mock
}

func (m *MockDirectoryReader) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockDirectoryReader) FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockDirectoryReader) FindTenantByPropertyID(ctx context.Context, propertyID string) (*domain.User, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockDirectoryReader) ListProperties(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

// MockProcessorCustomerRepository is a mock type for the ProcessorCustomerRepository interface
type MockProcessorCustomerRepository struct {
	mock.Mock
}

func (m *MockProcessorCustomerRepository) FindCustomerByTenantID(ctx context.Context, tenantID string) (*domain.ProcessorCustomer, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessorCustomer), args.Error(1)
}

func (m *MockProcessorCustomerRepository) FindTenantIDByCustomerID(ctx context.Context, customerID string) (string, error) {
	args := m.Called(ctx, customerID)
	return args.String(0), args.Error(1)
}

func (m *MockProcessorCustomerRepository) SaveCustomer(ctx context.Context, customer domain.ProcessorCustomer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockPaymentMethodRepository is a mock type for the PaymentMethodRepository interface
type MockPaymentMethodRepository struct {
	mock.Mock
}

func (m *MockPaymentMethodRepository) SaveMethod(ctx context.Context, method domain.SavedPaymentMethod) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

func (m *MockPaymentMethodRepository) ListMethodsByTenant(ctx context.Context, tenantID string) ([]domain.SavedPaymentMethod, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavedPaymentMethod), args.Error(1)
}

// MockNotificationRepository is a mock type for the NotificationRepository interface
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockProcessorClient is a mock type for the ProcessorClient interface
type MockProcessorClient struct {
	mock.Mock
}

func (m *MockProcessorClient) VerifyEvent(payload []byte, signature string) (*domain.ProcessorEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessorEvent), args.Error(1)
}

func (m *MockProcessorClient) GetSettlementDetails(ctx context.Context, paymentIntentID string) (*domain.SettlementDetails, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementDetails), args.Error(1)
}

func (m *MockProcessorClient) CreateCheckoutSession(ctx context.Context, params portssvc.CreateCheckoutSessionParams) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockProcessorClient) CreateCustomer(ctx context.Context, tenantID, email, displayName string) (string, error) {
	args := m.Called(ctx, tenantID, email, displayName)
	return args.String(0), args.Error(1)
}

func (m *MockProcessorClient) ResolveCustomerTenantID(ctx context.Context, customerID string) (string, error) {
	args := m.Called(ctx, customerID)
	return args.String(0), args.Error(1)
}

// MockNotificationDispatcher is a mock type for the NotificationDispatcher interface
type MockNotificationDispatcher struct {
	mock.Mock
}

func (m *MockNotificationDispatcher) Notify(ctx context.Context, userID string, event domain.NotificationEvent) (domain.NotificationResult, error) {
	args := m.Called(ctx, userID, event)
	return args.Get(0).(domain.NotificationResult), args.Error(1)
}
