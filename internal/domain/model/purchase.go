package model

import "time"

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"   // order/session created; awaiting verification
	PurchaseStatusCompleted PurchaseStatus = "completed" // verified against the provider's source of truth
	PurchaseStatusFailed    PurchaseStatus = "failed"    // provider reported a definitive failure
)

type PaymentProvider string

const (
	ProviderRazorpay PaymentProvider = "razorpay"
	ProviderStripe   PaymentProvider = "stripe"
)

// Purchase records one payment event. There is one row per provider
// transaction, never one per user: a returning buyer gets a new row.
type Purchase struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	UserEmail string          `json:"userEmail"`
	UserName  string          `json:"userName"`
	Amount    int64           `json:"amount"` // minor units (paise/cents)
	Currency  string          `json:"currency"`
	Provider  PaymentProvider `json:"paymentMethod"`
	Status    PurchaseStatus  `json:"status"`

	RazorpayOrderID   *string `json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID *string `json:"razorpayPaymentId,omitempty"`
	RazorpaySignature *string `json:"-"`

	StripeSessionID       *string `json:"stripeSessionId,omitempty"`
	StripePaymentIntentID *string `json:"stripePaymentIntentId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AccessStatus answers "has this identity paid?".
type AccessStatus struct {
	HasPurchased bool       `json:"hasPurchased"`
	PurchaseDate *time.Time `json:"purchaseDate"`
}

// Identity is the authenticated caller as asserted by the session token.
type Identity struct {
	UserID string
	Email  string
	Name   string
}
