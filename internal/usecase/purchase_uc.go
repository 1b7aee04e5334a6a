package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"premium-gallery/internal/domain"
	"premium-gallery/internal/domain/model"
	"premium-gallery/internal/domain/ports/adapter"
	"premium-gallery/internal/domain/ports/repository"
	"premium-gallery/internal/infra/logging"
)

// razorpayCaptured is the provider status once the charge is real.
const razorpayCaptured = "captured"

// stripePaid is the session payment_status once the charge is real.
const stripePaid = "paid"

// AccessCache caches the access-check answer per user.
type AccessCache interface {
	Get(ctx context.Context, userID string) (*model.AccessStatus, error)
	Set(ctx context.Context, userID string, st *model.AccessStatus) error
	Invalidate(ctx context.Context, userID string) error
}

// Compile-time check
var _ PurchaseUseCase = (*purchaseUC)(nil)

// PurchaseUseCase verifies payment evidence against the provider's source of
// truth and reconciles the purchase record.
type PurchaseUseCase interface {
	// ConfirmRazorpay validates client-submitted Razorpay evidence: signature
	// recomputation, a live payment fetch, and amount/currency/email checks.
	// On success the purchase is upserted to completed, keyed by the order id.
	ConfirmRazorpay(ctx context.Context, ident model.Identity, orderID, paymentID, signature string) (*model.Purchase, error)
	// ConfirmStripe does the same for a checkout session id.
	ConfirmStripe(ctx context.Context, ident model.Identity, sessionID string) (*model.Purchase, error)
	// HandleStripeWebhook verifies the delivery signature and applies the
	// event, returning the event type. domain.ErrVerificationFailed means the
	// signature was bad; any other error means processing failed and the
	// provider should retry.
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (string, error)
	// CheckAccess reports whether the identity has any completed purchase.
	CheckAccess(ctx context.Context, userID string) (*model.AccessStatus, error)
}

type purchaseUC struct {
	purchases repository.PurchaseRepository
	razorpay  adapter.RazorpayGateway
	stripe    adapter.StripeGateway
	cache     AccessCache
	amount    int64
	currency  string
	dev       bool
	log       *zerolog.Logger
}

func NewPurchaseUseCase(
	purchases repository.PurchaseRepository,
	razorpay adapter.RazorpayGateway,
	stripe adapter.StripeGateway,
	cache AccessCache,
	amount int64,
	currency string,
	dev bool,
	logger *zerolog.Logger,
) *purchaseUC {
	return &purchaseUC{
		purchases: purchases,
		razorpay:  razorpay,
		stripe:    stripe,
		cache:     cache,
		amount:    amount,
		currency:  currency,
		dev:       dev,
		log:       logger,
	}
}

func (u *purchaseUC) ConfirmRazorpay(ctx context.Context, ident model.Identity, orderID, paymentID, signature string) (*model.Purchase, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, fmt.Errorf("%w: missing payment details", domain.ErrInvalidArgument)
	}

	// 1. Recompute the checkout signature before touching the provider API.
	if !u.razorpay.VerifySignature(orderID, paymentID, signature) {
		u.log.Warn().Str("order_id", orderID).Msg("razorpay signature mismatch")
		return nil, fmt.Errorf("%w: signature mismatch", domain.ErrVerificationFailed)
	}

	// 2. Re-fetch the payment; never trust the client's copy.
	pay, err := u.razorpay.FetchPayment(ctx, paymentID)
	if err != nil {
		u.log.Error().Err(err).Str("payment_id", paymentID).Msg("razorpay payment fetch failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	// 3. The capture status, amount and currency must match exactly.
	if pay.Status != razorpayCaptured {
		return nil, fmt.Errorf("%w: payment status %q", domain.ErrVerificationFailed, pay.Status)
	}
	if pay.Amount != u.amount || !strings.EqualFold(pay.Currency, u.currency) {
		u.log.Warn().
			Int64("amount", pay.Amount).
			Str("currency", pay.Currency).
			Msg("razorpay amount mismatch")
		return nil, domain.ErrAmountMismatch
	}
	if pay.Email != "" && !strings.EqualFold(pay.Email, ident.Email) {
		u.log.Warn().
			Str("payer_email", logging.Redact(pay.Email, u.dev)).
			Msg("razorpay payer email mismatch")
		return nil, fmt.Errorf("%w: payer email mismatch", domain.ErrVerificationFailed)
	}

	// 4. Weak anti-account-sharing check: an earlier completed purchase must
	// carry the same email as the caller.
	if err := u.checkRecordedEmail(ctx, ident); err != nil {
		return nil, err
	}

	purchase := &model.Purchase{
		ID:                uuid.NewString(),
		UserID:            ident.UserID,
		UserEmail:         ident.Email,
		UserName:          ident.Name,
		Amount:            pay.Amount,
		Currency:          strings.ToUpper(pay.Currency),
		Provider:          model.ProviderRazorpay,
		Status:            model.PurchaseStatusCompleted,
		RazorpayOrderID:   &orderID,
		RazorpayPaymentID: &paymentID,
		RazorpaySignature: &signature,
	}
	if err := u.purchases.UpsertRazorpayCompletion(ctx, purchase); err != nil {
		u.log.Error().Err(err).Str("order_id", orderID).Msg("failed to record razorpay purchase")
		return nil, err
	}

	u.refreshAccess(ctx, ident.UserID)
	u.log.Info().Str("order_id", orderID).Str("payment_id", paymentID).Msg("razorpay purchase completed")
	return purchase, nil
}

func (u *purchaseUC) ConfirmStripe(ctx context.Context, ident model.Identity, sessionID string) (*model.Purchase, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: missing session id", domain.ErrInvalidArgument)
	}

	sess, err := u.stripe.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		u.log.Error().Err(err).Str("session_id", sessionID).Msg("stripe session fetch failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	if sess.PaymentStatus != stripePaid {
		return nil, fmt.Errorf("%w: payment status %q", domain.ErrVerificationFailed, sess.PaymentStatus)
	}
	if sess.AmountTotal != u.amount || !strings.EqualFold(sess.Currency, u.currency) {
		u.log.Warn().
			Int64("amount", sess.AmountTotal).
			Str("currency", sess.Currency).
			Msg("stripe amount mismatch")
		return nil, domain.ErrAmountMismatch
	}
	if sess.CustomerEmail != "" && !strings.EqualFold(sess.CustomerEmail, ident.Email) {
		u.log.Warn().
			Str("payer_email", logging.Redact(sess.CustomerEmail, u.dev)).
			Msg("stripe payer email mismatch")
		return nil, fmt.Errorf("%w: payer email mismatch", domain.ErrVerificationFailed)
	}

	if err := u.checkRecordedEmail(ctx, ident); err != nil {
		return nil, err
	}

	purchase := &model.Purchase{
		ID:              uuid.NewString(),
		UserID:          ident.UserID,
		UserEmail:       ident.Email,
		UserName:        ident.Name,
		Amount:          sess.AmountTotal,
		Currency:        strings.ToUpper(sess.Currency),
		Provider:        model.ProviderStripe,
		Status:          model.PurchaseStatusCompleted,
		StripeSessionID: &sess.ID,
	}
	if sess.PaymentIntentID != "" {
		purchase.StripePaymentIntentID = &sess.PaymentIntentID
	}
	if err := u.purchases.UpsertStripeCompletion(ctx, purchase); err != nil {
		u.log.Error().Err(err).Str("session_id", sessionID).Msg("failed to record stripe purchase")
		return nil, err
	}

	u.refreshAccess(ctx, ident.UserID)
	u.log.Info().Str("session_id", sessionID).Msg("stripe purchase completed")
	return purchase, nil
}

func (u *purchaseUC) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (string, error) {
	ev, err := u.stripe.ParseWebhookEvent(payload, signature)
	if err != nil {
		u.log.Warn().Err(err).Msg("stripe webhook rejected")
		return "", fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
	}

	switch ev.Type {
	case "checkout.session.completed":
		return ev.Type, u.applySessionCompleted(ctx, ev.Session)
	case "payment_intent.succeeded":
		moved, err := u.purchases.MarkStatusByStripeIntent(ctx, ev.PaymentIntentID, model.PurchaseStatusCompleted)
		if err != nil {
			return ev.Type, err
		}
		if !moved {
			// Either no record exists yet or the session path already
			// completed it.
			u.log.Debug().Str("intent_id", ev.PaymentIntentID).Msg("payment_intent.succeeded matched no pending purchase")
		}
		return ev.Type, nil
	case "payment_intent.payment_failed":
		if _, err := u.purchases.MarkStatusByStripeIntent(ctx, ev.PaymentIntentID, model.PurchaseStatusFailed); err != nil {
			return ev.Type, err
		}
		u.log.Info().Str("intent_id", ev.PaymentIntentID).Msg("payment intent failed")
		return ev.Type, nil
	default:
		u.log.Debug().Str("type", ev.Type).Msg("unhandled stripe event type")
		return ev.Type, nil
	}
}

func (u *purchaseUC) applySessionCompleted(ctx context.Context, sess *adapter.CheckoutSession) error {
	if sess == nil || sess.ID == "" {
		return fmt.Errorf("%w: event without session", domain.ErrInvalidArgument)
	}

	purchase := &model.Purchase{
		ID:              uuid.NewString(),
		UserID:          sess.Metadata["userId"],
		UserEmail:       sess.Metadata["userEmail"],
		UserName:        sess.Metadata["userName"],
		Amount:          sess.AmountTotal,
		Currency:        strings.ToUpper(sess.Currency),
		Provider:        model.ProviderStripe,
		Status:          model.PurchaseStatusCompleted,
		StripeSessionID: &sess.ID,
	}
	if purchase.UserEmail == "" {
		purchase.UserEmail = sess.CustomerEmail
	}
	if sess.PaymentIntentID != "" {
		purchase.StripePaymentIntentID = &sess.PaymentIntentID
	}

	if err := u.purchases.UpsertStripeCompletion(ctx, purchase); err != nil {
		u.log.Error().Err(err).Str("session_id", sess.ID).Msg("failed to apply checkout.session.completed")
		return err
	}
	if purchase.UserID != "" {
		u.refreshAccess(ctx, purchase.UserID)
	}
	u.log.Info().Str("session_id", sess.ID).Msg("checkout session completed")
	return nil
}

func (u *purchaseUC) CheckAccess(ctx context.Context, userID string) (*model.AccessStatus, error) {
	if st, err := u.cache.Get(ctx, userID); err != nil {
		u.log.Warn().Err(err).Msg("access cache read failed")
	} else if st != nil {
		return st, nil
	}

	p, err := u.purchases.FindCompletedByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			st := &model.AccessStatus{HasPurchased: false}
			u.cacheAccess(ctx, userID, st)
			return st, nil
		}
		return nil, err
	}

	date := p.CreatedAt
	st := &model.AccessStatus{HasPurchased: true, PurchaseDate: &date}
	u.cacheAccess(ctx, userID, st)
	return st, nil
}

// checkRecordedEmail rejects a confirmation when an earlier completed
// purchase for this identity was recorded under a different email.
func (u *purchaseUC) checkRecordedEmail(ctx context.Context, ident model.Identity) error {
	existing, err := u.purchases.FindCompletedByUser(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if !strings.EqualFold(existing.UserEmail, ident.Email) {
		u.log.Warn().
			Str("recorded_email", logging.Redact(existing.UserEmail, u.dev)).
			Msg("recorded purchase email does not match caller")
		return domain.ErrEmailMismatch
	}
	return nil
}

func (u *purchaseUC) refreshAccess(ctx context.Context, userID string) {
	now := time.Now().UTC()
	st := &model.AccessStatus{HasPurchased: true, PurchaseDate: &now}
	u.cacheAccess(ctx, userID, st)
}

func (u *purchaseUC) cacheAccess(ctx context.Context, userID string, st *model.AccessStatus) {
	if err := u.cache.Set(ctx, userID, st); err != nil {
		u.log.Warn().Err(err).Msg("access cache write failed")
	}
}
