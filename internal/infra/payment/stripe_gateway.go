package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v83"

	"premium-gallery/internal/domain/ports/adapter"
)

const (
	productName        = "Premium Gallery Access"
	productDescription = "Get instant access to our exclusive collection of premium images"
)

// StripeCheckoutGateway implements StripeGateway on top of the Stripe SDK.
type StripeCheckoutGateway struct {
	client        *stripe.Client
	webhookSecret string
	amount        int64
	currency      string
	baseURL       string // public app URL for success/cancel redirects
}

func NewStripeCheckoutGateway(secretKey, webhookSecret string, amount int64, currency, baseURL string) *StripeCheckoutGateway {
	return &StripeCheckoutGateway{
		client:        stripe.NewClient(secretKey),
		webhookSecret: webhookSecret,
		amount:        amount,
		currency:      strings.ToLower(currency),
		baseURL:       baseURL,
	}
}

// CreateCheckoutSession opens a fixed-price hosted checkout for the customer.
// Identity fields travel in metadata so webhook deliveries can be attributed
// without a session lookup.
func (g *StripeCheckoutGateway) CreateCheckoutSession(ctx context.Context, cust adapter.CheckoutCustomer) (*adapter.CheckoutSession, error) {
	params := &stripe.CheckoutSessionCreateParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency: stripe.String(g.currency),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name:        stripe.String(productName),
						Description: stripe.String(productDescription),
					},
					UnitAmount: stripe.Int64(g.amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.baseURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(g.baseURL + "/payment/cancel"),
		Metadata: map[string]string{
			"userId":    cust.UserID,
			"userEmail": cust.Email,
			"userName":  cust.Name,
		},
	}
	if cust.Email != "" {
		params.CustomerEmail = stripe.String(cust.Email)
	}

	sess, err := g.client.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return toCheckoutSession(sess), nil
}

// GetCheckoutSession fetches the live session from Stripe.
func (g *StripeCheckoutGateway) GetCheckoutSession(ctx context.Context, id string) (*adapter.CheckoutSession, error) {
	sess, err := g.client.V1CheckoutSessions.Retrieve(ctx, id, &stripe.CheckoutSessionRetrieveParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}
	return toCheckoutSession(sess), nil
}

// ParseWebhookEvent verifies the delivery signature over the raw body and
// decodes the event object for the types the service handles.
func (g *StripeCheckoutGateway) ParseWebhookEvent(payload []byte, signature string) (*adapter.StripeEvent, error) {
	event, err := stripe.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	out := &adapter.StripeEvent{Type: string(event.Type)}
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("failed to unmarshal checkout session: %w", err)
		}
		out.Session = toCheckoutSession(&sess)
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payment intent: %w", err)
		}
		out.PaymentIntentID = intent.ID
	}
	return out, nil
}

func toCheckoutSession(s *stripe.CheckoutSession) *adapter.CheckoutSession {
	out := &adapter.CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		PaymentStatus: string(s.PaymentStatus),
		CustomerEmail: s.CustomerEmail,
		Metadata:      s.Metadata,
	}
	if out.CustomerEmail == "" && s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	return out
}

var _ adapter.StripeGateway = (*StripeCheckoutGateway)(nil)
