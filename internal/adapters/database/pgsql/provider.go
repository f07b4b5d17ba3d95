package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories over a shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		Ledger:            NewPgxLedgerRepository(pool),
		Payments:          NewPgxPaymentRepository(pool),
		Directory:         NewPgxDirectoryRepository(pool),
		ProcessorCustomer: NewPgxProcessorCustomerRepository(pool),
		PaymentMethods:    NewPgxPaymentMethodRepository(pool),
		Notifications:     NewPgxNotificationRepository(pool),
	}
}
