package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference or SystemActorWebhook
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// SystemActorWebhook is recorded as the audit actor for ledger writes that
// originate from processor callbacks rather than an authenticated user.
const SystemActorWebhook = "system:webhook"
