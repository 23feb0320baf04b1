package stripe

import (
	"encoding/json"
	"net/http"
	"time"

	stripeapi "github.com/stripe/stripe-go/v81"
	stripecheckoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	stripewebhook "github.com/stripe/stripe-go/v81/webhook"
)

// Client wraps the Stripe API client with additional functionality
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new Stripe client with the given configuration
func NewClient(config *Config) *Client {
	stripeapi.Key = config.APIKey

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CheckoutParams holds parameters for creating a one-time payment checkout
// session. Amount is expressed in the minor unit of the configured currency.
type CheckoutParams struct {
	CustomerEmail string
	ProductName   string
	Description   string
	Amount        int64
	Metadata      map[string]string
}

// CheckoutSession is the provider session handle returned on creation. URL is
// where the customer completes the payment.
type CheckoutSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// CheckoutSessionStatus represents the settlement state of a checkout session
type CheckoutSessionStatus struct {
	ID            string `json:"sessionId"`
	URL           string `json:"url,omitempty"`
	Status        string `json:"status"`
	Paid          bool   `json:"paid"`
	CustomerEmail string `json:"customerEmail,omitempty"`
}

// PaymentEvent is a validated webhook event reduced to the fields the
// application cares about.
type PaymentEvent struct {
	ID        string
	Type      string
	SessionID string
	Paid      bool
	Metadata  map[string]string
}

// EventTypeCheckoutCompleted is the provider event emitted when a hosted
// checkout session finishes.
const EventTypeCheckoutCompleted = string(stripeapi.EventTypeCheckoutSessionCompleted)

// CreateCheckoutSession creates a new one-time payment checkout session with
// an inline price, so no product catalog has to exist on the Stripe side.
// The metadata travels with the session and comes back in webhook events.
// Overview of stripe checkout mechanics: https://docs.stripe.com/checkout/custom/quickstart
// API description https://docs.stripe.com/api/checkout/sessions
func (c *Client) CreateCheckoutSession(params *CheckoutParams) (*CheckoutSession, error) {
	checkoutParams := &stripeapi.CheckoutSessionParams{
		// One-time payment mode
		Mode: stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency: stripeapi.String(c.config.Currency),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripeapi.String(params.ProductName),
						Description: stripeapi.String(params.Description),
					},
					UnitAmount: stripeapi.Int64(params.Amount),
				},
				Quantity: stripeapi.Int64(1),
			},
		},
		Metadata:   params.Metadata,
		SuccessURL: stripeapi.String(c.config.SuccessURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripeapi.String(c.config.CancelURL),
	}
	if params.CustomerEmail != "" {
		checkoutParams.CustomerEmail = stripeapi.String(params.CustomerEmail)
	}

	session, err := stripecheckoutsession.New(checkoutParams)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create checkout session", err)
	}

	return &CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

// GetCheckoutSession retrieves a checkout session by ID
func (*Client) GetCheckoutSession(sessionID string) (*CheckoutSessionStatus, error) {
	params := &stripeapi.CheckoutSessionParams{}

	session, err := stripecheckoutsession.Get(sessionID, params)
	if err != nil {
		return nil, NewStripeError("session_not_found", "failed to get checkout session", err)
	}

	status := &CheckoutSessionStatus{
		ID:     session.ID,
		URL:    session.URL,
		Status: string(session.Status),
		Paid:   session.PaymentStatus == stripeapi.CheckoutSessionPaymentStatusPaid,
	}
	if session.CustomerDetails != nil {
		status.CustomerEmail = session.CustomerDetails.Email
	}

	return status, nil
}

// ValidateWebhookEvent validates the webhook signature and parses the event.
// An invalid signature is returned as a webhook_validation error and the
// event must be discarded.
func (c *Client) ValidateWebhookEvent(payload []byte, signatureHeader string) (*PaymentEvent, error) {
	event, err := stripewebhook.ConstructEvent(payload, signatureHeader, c.config.WebhookSecret)
	if err != nil {
		return nil, NewStripeError("webhook_validation", "webhook signature validation failed", err)
	}
	return parsePaymentEvent(&event)
}

// parsePaymentEvent extracts checkout session information from a webhook
// event.
func parsePaymentEvent(event *stripeapi.Event) (*PaymentEvent, error) {
	paymentEvent := &PaymentEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}
	if string(event.Type) != EventTypeCheckoutCompleted {
		return paymentEvent, nil
	}
	var session stripeapi.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, NewStripeError("invalid_event", "failed to parse checkout session from event", err)
	}
	paymentEvent.SessionID = session.ID
	paymentEvent.Paid = session.PaymentStatus == stripeapi.CheckoutSessionPaymentStatusPaid
	paymentEvent.Metadata = session.Metadata
	return paymentEvent, nil
}
