package repositories

// RepositoryProvider bundles all repository facades for service wiring.
// Constructed once at process start and handed to the service container;
// no module-level singletons.
type RepositoryProvider struct {
	Ledger            LedgerRepositoryFacade
	Payments          PaymentRecordRepositoryFacade
	Directory         DirectoryReader
	ProcessorCustomer ProcessorCustomerRepository
	PaymentMethods    PaymentMethodRepository
	Notifications     NotificationRepository
}
