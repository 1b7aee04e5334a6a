package adapter

import "context"

// RazorpayOrder is the provider-side order created before checkout.
type RazorpayOrder struct {
	ID        string `json:"id"`
	Entity    string `json:"entity"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// RazorpayPayment is the provider's record of a payment attempt, fetched
// live during verification. Never trust client-reported copies of this.
type RazorpayPayment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Status   string `json:"status"` // "captured" once the charge is real
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Email    string `json:"email"`
	Method   string `json:"method"`
	Captured bool   `json:"captured"`
}

type RazorpayGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*RazorpayOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*RazorpayPayment, error)
	// VerifySignature checks the checkout callback signature
	// (HMAC-SHA256 over "orderID|paymentID") in constant time.
	VerifySignature(orderID, paymentID, signature string) bool
}

// CheckoutCustomer prefills the Stripe hosted checkout and is echoed back
// through session metadata so the webhook can attribute the payment.
type CheckoutCustomer struct {
	UserID string
	Email  string
	Name   string
}

// CheckoutSession is a provider-neutral view of a Stripe checkout session.
type CheckoutSession struct {
	ID              string
	URL             string
	AmountTotal     int64
	Currency        string
	PaymentStatus   string // "paid" once captured
	CustomerEmail   string
	PaymentIntentID string
	Metadata        map[string]string
}

// StripeEvent is a signature-verified webhook event. Session is set for
// checkout.session.* events, PaymentIntentID for payment_intent.* events.
type StripeEvent struct {
	Type            string
	Session         *CheckoutSession
	PaymentIntentID string
}

type StripeGateway interface {
	CreateCheckoutSession(ctx context.Context, cust CheckoutCustomer) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
	// ParseWebhookEvent verifies the webhook signature over the raw body and
	// decodes the event payload. Fails closed on any signature error.
	ParseWebhookEvent(payload []byte, signature string) (*StripeEvent, error)
}
