package stripeclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/nxtlevel/rent_ledger_app/internal/apperrors"
	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	portssvc "github.com/nxtlevel/rent_ledger_app/internal/core/ports/services"
)

// Session metadata keys stamped at checkout creation and read back from
// webhook deliveries.
const (
	metaTenantID   = "tenantId"
	metaPropertyID = "propertyId"
	metaPaymentID  = "paymentId"
)

// Client adapts the Stripe API to the processor port. Amounts cross the
// boundary in minor units (cents); the rest of the system works in decimal
// major units.
type Client struct {
	api           *client.API
	webhookSecret string
}

// New creates a Stripe-backed processor client.
func New(secretKey, webhookSecret string) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{api: api, webhookSecret: webhookSecret}
}

// VerifyEvent authenticates the raw payload against the Stripe-Signature
// header before any content is parsed, then maps the event to the neutral
// domain representation.
func (c *Client) VerifyEvent(payload []byte, signature string) (*domain.ProcessorEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrBadSignature, err)
	}

	out := &domain.ProcessorEvent{
		EventID: event.ID,
		Type:    domain.ProcessorEventType(event.Type),
	}

	switch out.Type {
	case domain.EventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("failed to parse checkout session from event %s: %w", event.ID, err)
		}
		data := &domain.CheckoutEventData{
			SessionID:   session.ID,
			AmountTotal: decimal.New(session.AmountTotal, -2),
			TenantID:    session.Metadata[metaTenantID],
			PropertyID:  session.Metadata[metaPropertyID],
			PaymentID:   session.Metadata[metaPaymentID],
		}
		if session.PaymentIntent != nil {
			data.PaymentIntentID = session.PaymentIntent.ID
		}
		out.Checkout = data

	case domain.EventPaymentSucceeded, domain.EventPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("failed to parse payment intent from event %s: %w", event.ID, err)
		}
		out.Intent = &domain.IntentEventData{
			PaymentIntentID: intent.ID,
			Amount:          decimal.New(intent.Amount, -2),
			TenantID:        intent.Metadata[metaTenantID],
			PropertyID:      intent.Metadata[metaPropertyID],
			PaymentID:       intent.Metadata[metaPaymentID],
		}

	case domain.EventPaymentMethodAttached:
		var method stripe.PaymentMethod
		if err := json.Unmarshal(event.Data.Raw, &method); err != nil {
			return nil, fmt.Errorf("failed to parse payment method from event %s: %w", event.ID, err)
		}
		data := &domain.MethodEventData{
			ExternalMethodID: method.ID,
			Type:             string(method.Type),
		}
		if method.Customer != nil {
			data.CustomerID = method.Customer.ID
		}
		if method.Card != nil {
			data.LastFour = method.Card.Last4
			data.Brand = string(method.Card.Brand)
			data.ExpiryMonth = method.Card.ExpMonth
			data.ExpiryYear = method.Card.ExpYear
		}
		if method.USBankAccount != nil {
			data.LastFour = method.USBankAccount.Last4
			data.BankName = method.USBankAccount.BankName
		}
		out.Method = data
	}

	return out, nil
}

// GetSettlementDetails fetches the payment intent with its latest charge
// expanded and extracts method, last-four and receipt metadata.
func (c *Client) GetSettlementDetails(ctx context.Context, paymentIntentID string) (*domain.SettlementDetails, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	params.AddExpand("latest_charge")

	intent, err := c.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment intent %s: %w", paymentIntentID, err)
	}

	details := &domain.SettlementDetails{Method: domain.MethodCard}
	charge := intent.LatestCharge
	if charge == nil {
		return details, nil
	}

	details.ReceiptURL = charge.ReceiptURL
	pmd := charge.PaymentMethodDetails
	if pmd == nil {
		return details, nil
	}

	switch pmd.Type {
	case stripe.ChargePaymentMethodDetailsTypeCard:
		if pmd.Card != nil {
			details.LastFourDigits = pmd.Card.Last4
			if pmd.Card.Wallet != nil {
				switch pmd.Card.Wallet.Type {
				case stripe.PaymentMethodCardWalletTypeApplePay:
					details.Method = domain.MethodApplePay
				case stripe.PaymentMethodCardWalletTypeGooglePay:
					details.Method = domain.MethodGooglePay
				}
			}
		}
	case stripe.ChargePaymentMethodDetailsType("us_bank_account"):
		details.Method = domain.MethodACH
		if pmd.USBankAccount != nil {
			details.LastFourDigits = pmd.USBankAccount.Last4
		}
	}

	return details, nil
}

// CreateCheckoutSession opens a hosted checkout with routing metadata stamped
// on both the session and its payment intent.
func (c *Client) CreateCheckoutSession(ctx context.Context, p portssvc.CreateCheckoutSessionParams) (*domain.CheckoutSession, error) {
	metadata := map[string]string{
		metaTenantID:   p.TenantID,
		metaPropertyID: p.PropertyID,
		metaPaymentID:  p.PaymentID,
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(p.Amount.Shift(2).IntPart()),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	params.Context = ctx
	params.Metadata = metadata
	if p.CustomerID != "" {
		params.Customer = stripe.String(p.CustomerID)
	}

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &domain.CheckoutSession{
		SessionID: session.ID,
		URL:       session.URL,
		PaymentID: p.PaymentID,
	}, nil
}

// CreateCustomer registers a Stripe customer carrying the tenant id in its
// metadata so later callbacks can be routed without a local lookup.
func (c *Client) CreateCustomer(ctx context.Context, tenantID, email, displayName string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(displayName),
	}
	params.Context = ctx
	params.AddMetadata(metaTenantID, tenantID)

	customer, err := c.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer for tenant %s: %w", tenantID, err)
	}
	return customer.ID, nil
}

// ResolveCustomerTenantID maps a customer id back to a tenant via the
// metadata stamped at creation.
func (c *Client) ResolveCustomerTenantID(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	customer, err := c.api.Customers.Get(customerID, params)
	if err != nil {
		return "", fmt.Errorf("failed to fetch customer %s: %w", customerID, err)
	}
	tenantID, ok := customer.Metadata[metaTenantID]
	if !ok || tenantID == "" {
		return "", apperrors.ErrNotFound
	}
	return tenantID, nil
}
