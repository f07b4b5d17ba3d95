package services

// ServiceContainer bundles the service facades handed to route registration.
type ServiceContainer struct {
	Ledger    LedgerSvcFacade
	Reporting RentReportingSvcFacade
	Webhook   WebhookSvcFacade
	Checkout  CheckoutSvcFacade
}
