package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcessorEventType identifies the external payment-processor callback kinds
// the webhook processor understands. Unknown types are acknowledged and
// ignored.
type ProcessorEventType string

const (
	EventCheckoutCompleted     ProcessorEventType = "checkout.session.completed"
	EventPaymentSucceeded      ProcessorEventType = "payment_intent.succeeded"
	EventPaymentFailed         ProcessorEventType = "payment_intent.payment_failed"
	EventPaymentMethodAttached ProcessorEventType = "payment_method.attached"
)

// ProcessorEvent is a signature-verified, processor-neutral view of a webhook
// callback. Exactly one of the payload fields is populated, matching Type.
type ProcessorEvent struct {
	EventID  string
	Type     ProcessorEventType
	Checkout *CheckoutEventData
	Intent   *IntentEventData
	Method   *MethodEventData
}

// CheckoutEventData is the payload of a checkout.session.completed event.
// TenantID and PropertyID come from the session metadata stamped at checkout
// creation; events without them are structurally malformed.
type CheckoutEventData struct {
	SessionID       string
	PaymentIntentID string
	AmountTotal     decimal.Decimal
	TenantID        string
	PropertyID      string
	PaymentID       string // pre-registered PaymentRecord id, may be empty
	Description     string
}

// IntentEventData is the payload of payment_intent events.
type IntentEventData struct {
	PaymentIntentID string
	Amount          decimal.Decimal
	TenantID        string
	PropertyID      string
	PaymentID       string
}

// MethodEventData is the payload of a payment_method.attached event.
type MethodEventData struct {
	ExternalMethodID string
	CustomerID       string
	Type             string
	LastFour         string
	Brand            string
	BankName         string
	ExpiryMonth      int64
	ExpiryYear       int64
}

// CheckoutSession is the result of initiating a hosted checkout with the
// processor.
type CheckoutSession struct {
	SessionID string `json:"sessionID"`
	URL       string `json:"url"`
	PaymentID string `json:"paymentID"` // the pending PaymentRecord pre-registered for this session
}

// NotificationType tags ledger-driven notification events.
type NotificationType string

const (
	NotifyPaymentReceived  NotificationType = "payment_received"
	NotifyPaymentFailed    NotificationType = "payment_failed"
	NotifyLedgerAdjustment NotificationType = "ledger_adjustment"
)

// NotificationEvent describes a ledger state change to be dispatched to a user.
type NotificationEvent struct {
	Type  NotificationType
	Title string
	Body  string
	Data  map[string]string
}

// NotificationResult reports which channels a dispatch reached.
type NotificationResult struct {
	EmailSent    bool `json:"emailSent"`
	PushSent     bool `json:"pushSent"`
	InAppCreated bool `json:"inAppCreated"`
}

// Notification is a persisted in-app notification row.
type Notification struct {
	NotificationID string           `json:"notificationID"`
	UserID         string           `json:"userID"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Body           string           `json:"body"`
	Read           bool             `json:"read"`
	CreatedAt      time.Time        `json:"createdAt"`
}
