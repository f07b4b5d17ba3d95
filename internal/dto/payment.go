package dto

import (
	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCheckoutSessionRequest initiates a hosted processor checkout for rent.
type CreateCheckoutSessionRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	PropertyID  string          `json:"propertyId" binding:"required"`
	PaymentID   string          `json:"paymentId"` // optional pre-registered payment record
}

// CreateCheckoutSessionResponse returns the hosted checkout location.
type CreateCheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
	PaymentID string `json:"paymentId"`
}

// SavedPaymentMethodResponse is the API projection of a reusable method.
type SavedPaymentMethodResponse struct {
	MethodID    string `json:"methodId"`
	Type        string `json:"type"`
	LastFour    string `json:"lastFour,omitempty"`
	Brand       string `json:"brand,omitempty"`
	BankName    string `json:"bankName,omitempty"`
	ExpiryMonth int64  `json:"expiryMonth,omitempty"`
	ExpiryYear  int64  `json:"expiryYear,omitempty"`
	IsDefault   bool   `json:"isDefault"`
}

// ToSavedPaymentMethodResponses maps domain methods to API projections.
func ToSavedPaymentMethodResponses(methods []domain.SavedPaymentMethod) []SavedPaymentMethodResponse {
	out := make([]SavedPaymentMethodResponse, len(methods))
	for i, m := range methods {
		out[i] = SavedPaymentMethodResponse{
			MethodID:    m.MethodID,
			Type:        m.Type,
			LastFour:    m.LastFour,
			Brand:       m.Brand,
			BankName:    m.BankName,
			ExpiryMonth: m.ExpiryMonth,
			ExpiryYear:  m.ExpiryYear,
			IsDefault:   m.IsDefault,
		}
	}
	return out
}
