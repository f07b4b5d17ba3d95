package services

import "context"

// WebhookSvcFacade consumes raw processor callback deliveries.
//
// ProcessEvent verifies the payload signature before parsing any event
// content, then drives the idempotency guard, ledger/payment-record writes
// and the notification hook. Redeliveries and structurally malformed events
// return nil so the handler acknowledges them and the processor stops
// retrying; transient failures (enrichment timeouts, storage errors) return
// an error so the processor redelivers.
type WebhookSvcFacade interface {
	ProcessEvent(ctx context.Context, payload []byte, signature string) error
}
