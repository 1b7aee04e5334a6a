package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"premium-gallery/internal/domain"
	"premium-gallery/internal/domain/model"
	"premium-gallery/internal/domain/ports/adapter"
	"premium-gallery/internal/domain/ports/repository"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// PaymentUseCase initiates payments: it creates provider-side orders or
// checkout sessions for the fixed gallery price.
type PaymentUseCase interface {
	// CreateRazorpayOrder opens a fixed-amount auto-capture order with Razorpay.
	CreateRazorpayOrder(ctx context.Context) (*adapter.RazorpayOrder, error)
	// CreateStripeSession opens a hosted checkout for the identity and
	// records a pending purchase keyed by the session id.
	CreateStripeSession(ctx context.Context, ident model.Identity) (sessionID, url string, err error)
}

type paymentUC struct {
	purchases repository.PurchaseRepository
	razorpay  adapter.RazorpayGateway
	stripe    adapter.StripeGateway
	amount    int64
	currency  string
	log       *zerolog.Logger
}

func NewPaymentUseCase(
	purchases repository.PurchaseRepository,
	razorpay adapter.RazorpayGateway,
	stripe adapter.StripeGateway,
	amount int64,
	currency string,
	logger *zerolog.Logger,
) *paymentUC {
	return &paymentUC{
		purchases: purchases,
		razorpay:  razorpay,
		stripe:    stripe,
		amount:    amount,
		currency:  currency,
		log:       logger,
	}
}

func (u *paymentUC) CreateRazorpayOrder(ctx context.Context) (*adapter.RazorpayOrder, error) {
	receipt := "receipt_" + ulid.Make().String()
	order, err := u.razorpay.CreateOrder(ctx, u.amount, u.currency, receipt)
	if err != nil {
		u.log.Error().Err(err).Msg("razorpay order creation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	u.log.Info().Str("order_id", order.ID).Int64("amount", order.Amount).Msg("razorpay order created")
	return order, nil
}

func (u *paymentUC) CreateStripeSession(ctx context.Context, ident model.Identity) (string, string, error) {
	sess, err := u.stripe.CreateCheckoutSession(ctx, adapter.CheckoutCustomer{
		UserID: ident.UserID,
		Email:  ident.Email,
		Name:   ident.Name,
	})
	if err != nil {
		u.log.Error().Err(err).Msg("stripe session creation failed")
		return "", "", fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	now := time.Now().UTC()
	pending := &model.Purchase{
		ID:              uuid.NewString(),
		UserID:          ident.UserID,
		UserEmail:       ident.Email,
		UserName:        ident.Name,
		Amount:          u.amount,
		Currency:        u.currency,
		Provider:        model.ProviderStripe,
		Status:          model.PurchaseStatusPending,
		StripeSessionID: &sess.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := u.purchases.Create(ctx, pending); err != nil {
		u.log.Error().Err(err).Str("session_id", sess.ID).Msg("failed to record pending purchase")
		return "", "", err
	}

	u.log.Info().Str("session_id", sess.ID).Msg("stripe checkout session created")
	return sess.ID, sess.URL, nil
}
