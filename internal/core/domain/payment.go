package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecordStatus is the lifecycle state of a single payment attempt.
type PaymentRecordStatus string

const (
	PaymentPending   PaymentRecordStatus = "pending"
	PaymentPaid      PaymentRecordStatus = "paid"
	PaymentFailed    PaymentRecordStatus = "failed"
	PaymentCancelled PaymentRecordStatus = "cancelled"
)

// PaymentRecord tracks one payment attempt, 1:1 with a processor payment
// intent for card/bank payments. It is created pending when a checkout is
// initiated and moves to exactly one terminal state (paid or failed) driven
// by the webhook event processor. Cancelled is reachable only via explicit
// user or admin action.
type PaymentRecord struct {
	PaymentID                 string              `json:"paymentID"`
	TenantID                  string              `json:"tenantID"`
	PropertyID                string              `json:"propertyID"`
	Amount                    decimal.Decimal     `json:"amount"`
	DueDate                   time.Time           `json:"dueDate"`
	PaidDate                  *time.Time          `json:"paidDate,omitempty"`
	Status                    PaymentRecordStatus `json:"status"`
	Description               string              `json:"description"`
	PaymentMethod             *PaymentMethod      `json:"paymentMethod,omitempty"`
	CheckNumber               string              `json:"checkNumber,omitempty"`
	ExternalPaymentIntentID   *string             `json:"externalPaymentIntentID,omitempty"`
	ExternalCheckoutSessionID *string             `json:"externalCheckoutSessionID,omitempty"`
	ReceiptURL                string              `json:"receiptURL,omitempty"`
	LastFourDigits            string              `json:"lastFourDigits,omitempty"`
	AuditFields
}

// SettlementDetails carries the metadata the processor reports for a
// successfully settled payment.
type SettlementDetails struct {
	Method         PaymentMethod
	LastFourDigits string
	ReceiptURL     string
}
