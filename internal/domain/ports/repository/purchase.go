package repository

import (
	"context"

	"premium-gallery/internal/domain/model"
)

type PurchaseRepository interface {
	// Create inserts a new purchase row (typically status=pending).
	Create(ctx context.Context, p *model.Purchase) error
	// UpsertRazorpayCompletion records a verified Razorpay payment, keyed by
	// the order id. Re-confirming the same order updates the existing row.
	UpsertRazorpayCompletion(ctx context.Context, p *model.Purchase) error
	// UpsertStripeCompletion records a verified Stripe payment, keyed by the
	// checkout session id. The confirm and webhook paths may race; both land
	// on the same row.
	UpsertStripeCompletion(ctx context.Context, p *model.Purchase) error
	// MarkStatusByStripeIntent moves a pending purchase identified by the
	// payment intent id to the given status. Returns false when no pending
	// row matched; the status of a completed row never moves backward.
	MarkStatusByStripeIntent(ctx context.Context, intentID string, status model.PurchaseStatus) (bool, error)
	// FindCompletedByUser returns the newest completed purchase for the
	// identity, or domain.ErrNotFound.
	FindCompletedByUser(ctx context.Context, userID string) (*model.Purchase, error)
}
