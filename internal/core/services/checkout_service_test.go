package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nxtlevel/rent_ledger_app/internal/apperrors"
	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/nxtlevel/rent_ledger_app/internal/core/ports/services"
	"github.com/nxtlevel/rent_ledger_app/internal/core/services"
	"github.com/nxtlevel/rent_ledger_app/internal/dto"
)

type CheckoutServiceTestSuite struct {
	suite.Suite
	mockProcessor    *MockProcessorClient
	mockPaymentRepo  *MockPaymentRepository
	mockMethodRepo   *MockPaymentMethodRepository
	mockCustomerRepo *MockProcessorCustomerRepository
	mockDirectory    *MockDirectoryReader
	service          portssvc.CheckoutSvcFacade
}

func (suite *CheckoutServiceTestSuite) SetupTest() {
	suite.mockProcessor = new(MockProcessorClient)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockMethodRepo = new(MockPaymentMethodRepository)
	suite.mockCustomerRepo = new(MockProcessorCustomerRepository)
	suite.mockDirectory = new(MockDirectoryReader)

	repos := &portsrepo.RepositoryProvider{
		Payments:          suite.mockPaymentRepo,
		PaymentMethods:    suite.mockMethodRepo,
		ProcessorCustomer: suite.mockCustomerRepo,
		Directory:         suite.mockDirectory,
	}
	suite.service = services.NewCheckoutService(suite.mockProcessor, repos, "https://app.example.com", 5*time.Second)
}

func (suite *CheckoutServiceTestSuite) tenant() *domain.User {
	propertyID := "prop-1"
	return &domain.User{
		UserID:      "tenant-1",
		Email:       "tenant@example.com",
		DisplayName: "Taylor Doe",
		Role:        domain.RoleTenant,
		PropertyID:  &propertyID,
		MonthlyRent: decimal.NewFromInt(1500),
	}
}

func (suite *CheckoutServiceTestSuite) TestCreateCheckoutSession_Success() {
	ctx := context.Background()
	req := dto.CreateCheckoutSessionRequest{
		Amount:      decimal.NewFromInt(1500),
		Description: "September rent",
		PropertyID:  "prop-1",
	}

	suite.mockDirectory.On("FindUserByID", ctx, "tenant-1").Return(suite.tenant(), nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByTenantID", ctx, "tenant-1").
		Return(&domain.ProcessorCustomer{TenantID: "tenant-1", CustomerID: "cus_1"}, nil).Once()

	var record domain.PaymentRecord
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.AnythingOfType("domain.PaymentRecord")).
		Run(func(args mock.Arguments) { record = args.Get(1).(domain.PaymentRecord) }).
		Return(nil).Once()

	var params portssvc.CreateCheckoutSessionParams
	suite.mockProcessor.On("CreateCheckoutSession", mock.Anything, mock.AnythingOfType("services.CreateCheckoutSessionParams")).
		Run(func(args mock.Arguments) { params = args.Get(1).(portssvc.CreateCheckoutSessionParams) }).
		Return(&domain.CheckoutSession{SessionID: "cs_1", URL: "https://checkout.example/cs_1"}, nil).Once()

	session, err := suite.service.CreateCheckoutSession(ctx, "tenant-1", req)

	suite.Require().NoError(err)
	suite.Require().NotNil(session)
	suite.Equal("cs_1", session.SessionID)

	// Pending record pre-registered before the processor call, with its id
	// stamped into the session metadata for the webhook round-trip.
	suite.Equal(domain.PaymentPending, record.Status)
	suite.Equal("tenant-1", record.TenantID)
	suite.Equal(record.PaymentID, params.PaymentID)
	suite.Equal("tenant-1", params.TenantID)
	suite.Equal("prop-1", params.PropertyID)
	suite.Equal("cus_1", params.CustomerID)
	suite.Contains(params.SuccessURL, "https://app.example.com")

	suite.mockProcessor.AssertExpectations(suite.T())
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *CheckoutServiceTestSuite) TestCreateCheckoutSession_RegistersCustomerOnFirstUse() {
	ctx := context.Background()
	req := dto.CreateCheckoutSessionRequest{
		Amount:      decimal.NewFromInt(1500),
		Description: "September rent",
		PropertyID:  "prop-1",
	}

	suite.mockDirectory.On("FindUserByID", ctx, "tenant-1").Return(suite.tenant(), nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByTenantID", ctx, "tenant-1").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockProcessor.On("CreateCustomer", mock.Anything, "tenant-1", "tenant@example.com", "Taylor Doe").
		Return("cus_new", nil).Once()
	suite.mockCustomerRepo.On("SaveCustomer", ctx, domain.ProcessorCustomer{
		TenantID:   "tenant-1",
		CustomerID: "cus_new",
		Email:      "tenant@example.com",
	}).Return(nil).Once()
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.AnythingOfType("domain.PaymentRecord")).Return(nil).Once()
	suite.mockProcessor.On("CreateCheckoutSession", mock.Anything, mock.AnythingOfType("services.CreateCheckoutSessionParams")).
		Return(&domain.CheckoutSession{SessionID: "cs_2", URL: "https://checkout.example/cs_2"}, nil).Once()

	session, err := suite.service.CreateCheckoutSession(ctx, "tenant-1", req)

	suite.Require().NoError(err)
	suite.NotNil(session)
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func (suite *CheckoutServiceTestSuite) TestCreateCheckoutSession_ReusesPendingRecord() {
	ctx := context.Background()
	req := dto.CreateCheckoutSessionRequest{
		Amount:      decimal.NewFromInt(1500),
		Description: "September rent",
		PropertyID:  "prop-1",
		PaymentID:   "pay-7",
	}
	pending := &domain.PaymentRecord{
		PaymentID: "pay-7",
		TenantID:  "tenant-1",
		Status:    domain.PaymentPending,
	}

	suite.mockDirectory.On("FindUserByID", ctx, "tenant-1").Return(suite.tenant(), nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByTenantID", ctx, "tenant-1").
		Return(&domain.ProcessorCustomer{TenantID: "tenant-1", CustomerID: "cus_1"}, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", ctx, "pay-7").Return(pending, nil).Once()
	suite.mockProcessor.On("CreateCheckoutSession", mock.Anything, mock.AnythingOfType("services.CreateCheckoutSessionParams")).
		Return(&domain.CheckoutSession{SessionID: "cs_3", URL: "u", PaymentID: "pay-7"}, nil).Once()

	session, err := suite.service.CreateCheckoutSession(ctx, "tenant-1", req)

	suite.Require().NoError(err)
	suite.NotNil(session)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything)
}

func (suite *CheckoutServiceTestSuite) TestCreateCheckoutSession_RejectsSettledRecord() {
	ctx := context.Background()
	req := dto.CreateCheckoutSessionRequest{
		Amount:      decimal.NewFromInt(1500),
		Description: "September rent",
		PropertyID:  "prop-1",
		PaymentID:   "pay-7",
	}
	paid := &domain.PaymentRecord{PaymentID: "pay-7", TenantID: "tenant-1", Status: domain.PaymentPaid}

	suite.mockDirectory.On("FindUserByID", ctx, "tenant-1").Return(suite.tenant(), nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByTenantID", ctx, "tenant-1").
		Return(&domain.ProcessorCustomer{TenantID: "tenant-1", CustomerID: "cus_1"}, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", ctx, "pay-7").Return(paid, nil).Once()

	session, err := suite.service.CreateCheckoutSession(ctx, "tenant-1", req)

	suite.Require().Error(err)
	suite.Nil(session)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockProcessor.AssertNotCalled(suite.T(), "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func (suite *CheckoutServiceTestSuite) TestCreateCheckoutSession_RejectsOtherTenantsProperty() {
	ctx := context.Background()
	req := dto.CreateCheckoutSessionRequest{
		Amount:      decimal.NewFromInt(1500),
		Description: "September rent",
		PropertyID:  "prop-other",
	}

	suite.mockDirectory.On("FindUserByID", ctx, "tenant-1").Return(suite.tenant(), nil).Once()

	session, err := suite.service.CreateCheckoutSession(ctx, "tenant-1", req)

	suite.Require().Error(err)
	suite.Nil(session)
	suite.ErrorIs(err, services.ErrTenantMismatch)
}

func (suite *CheckoutServiceTestSuite) TestListSavedMethods() {
	ctx := context.Background()
	expected := []domain.SavedPaymentMethod{{MethodID: "m1", TenantID: "tenant-1", Type: "card"}}

	suite.mockMethodRepo.On("ListMethodsByTenant", ctx, "tenant-1").Return(expected, nil).Once()

	methods, err := suite.service.ListSavedMethods(ctx, "tenant-1")

	suite.Require().NoError(err)
	suite.Equal(expected, methods)
}

func TestCheckoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}
