package services

import (
	"time"

	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/nxtlevel/rent_ledger_app/internal/core/ports/services"
)

// ContainerOptions carries the configuration the services need.
type ContainerOptions struct {
	RentGraceDays    int
	ProcessorTimeout time.Duration
	FrontendBaseURL  string
}

// NewContainer wires all services over the repositories and the processor
// client.
func NewContainer(
	repos *portsrepo.RepositoryProvider,
	processor portssvc.ProcessorClient,
	notifier portssvc.NotificationDispatcher,
	opts ContainerOptions,
) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Ledger:    NewLedgerService(repos.Ledger, repos.Payments, repos.Directory, notifier),
		Reporting: NewReportingService(repos.Ledger, repos.Directory, opts.RentGraceDays),
		Webhook:   NewWebhookService(processor, repos, notifier, opts.ProcessorTimeout),
		Checkout:  NewCheckoutService(processor, repos, opts.FrontendBaseURL, opts.ProcessorTimeout),
	}
}
