package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a ledger entry as a charge, a payment, or a manual adjustment.
type EntryType string

const (
	EntryCharge     EntryType = "charge"
	EntryPayment    EntryType = "payment"
	EntryAdjustment EntryType = "adjustment"
)

// EntryStatus describes the settlement state of a single ledger entry,
// independent of the tenant's aggregate rent status.
type EntryStatus string

const (
	EntryCompleted EntryStatus = "completed"
	EntryPending   EntryStatus = "pending"
	EntryOverdue   EntryStatus = "overdue"
	EntryFailed    EntryStatus = "failed"
)

// PaymentMethod identifies how a payment was made.
type PaymentMethod string

const (
	MethodCash      PaymentMethod = "cash"
	MethodCheck     PaymentMethod = "check"
	MethodCard      PaymentMethod = "card"
	MethodACH       PaymentMethod = "ach"
	MethodApplePay  PaymentMethod = "apple_pay"
	MethodGooglePay PaymentMethod = "google_pay"
)

// Ledger entry categories. Only CategoryRent counts toward rent-collection stats.
const (
	CategoryRent    = "rent"
	CategoryUtility = "utility"
	CategoryLateFee = "late_fee"
	CategoryDeposit = "deposit"
	CategoryOther   = "other"
)

// LedgerEntry is a single immutable row in the append-only rent ledger.
// Entries are never updated or deleted; corrections are appended as
// adjustment entries.
//
// Amounts are stored as positive magnitudes for charges and payments; only
// credit adjustments carry a negative sign. Aggregation always sums absolute
// values keyed on Type, never the raw sign.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`
	TenantID      string          `json:"tenantID"`
	PropertyID    string          `json:"propertyID"`
	Type          EntryType       `json:"type"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"` // economic date, may differ from CreatedAt
	Status        EntryStatus     `json:"status"`
	Description   string          `json:"description"`
	PaymentMethod *PaymentMethod  `json:"paymentMethod,omitempty"`
	CheckNumber   string          `json:"checkNumber,omitempty"`
	ExternalRef   *string         `json:"externalRef,omitempty"` // processor payment-intent id
	ReceiptURL    string          `json:"receiptURL,omitempty"`
	ManualEntry   bool            `json:"manualEntry"`
	AuditFields
}
