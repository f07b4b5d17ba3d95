package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRole is assigned by the external identity provider and trusted as given.
type UserRole string

const (
	RoleTenant     UserRole = "tenant"
	RoleLandlord   UserRole = "landlord"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super-admin"
)

// IsAdmin reports whether the role grants admin-level access.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User is a read-only view of the external user directory.
type User struct {
	UserID      string          `json:"userID"`
	Email       string          `json:"email"`
	DisplayName string          `json:"displayName"`
	Role        UserRole        `json:"role"`
	PropertyID  *string         `json:"propertyID,omitempty"` // tenants: property they occupy
	Unit        string          `json:"unit,omitempty"`
	MonthlyRent decimal.Decimal `json:"monthlyRent"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// PropertyStatus is the occupancy state of a property.
type PropertyStatus string

const (
	PropertyOccupied    PropertyStatus = "occupied"
	PropertyVacant      PropertyStatus = "vacant"
	PropertyMaintenance PropertyStatus = "maintenance"
)

// Property is a read-only view of the external property directory.
type Property struct {
	PropertyID string          `json:"propertyID"`
	LandlordID string          `json:"landlordID,omitempty"`
	Name       string          `json:"name"`
	Address    string          `json:"address"`
	Rent       decimal.Decimal `json:"rent"`
	Status     PropertyStatus  `json:"status"`
}

// SavedPaymentMethod is a reusable payment method captured from a
// payment_method.attached processor event.
type SavedPaymentMethod struct {
	MethodID         string    `json:"methodID"`
	TenantID         string    `json:"tenantID"`
	ExternalMethodID string    `json:"externalMethodID"`
	Type             string    `json:"type"` // card, us_bank_account
	LastFour         string    `json:"lastFour,omitempty"`
	Brand            string    `json:"brand,omitempty"`
	BankName         string    `json:"bankName,omitempty"`
	ExpiryMonth      int64     `json:"expiryMonth,omitempty"`
	ExpiryYear       int64     `json:"expiryYear,omitempty"`
	IsDefault        bool      `json:"isDefault"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ProcessorCustomer maps a tenant to the payment processor's customer id.
type ProcessorCustomer struct {
	TenantID   string `json:"tenantID"`
	CustomerID string `json:"customerID"`
	Email      string `json:"email"`
}
