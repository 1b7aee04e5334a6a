package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"premium-gallery/internal/domain"
	"premium-gallery/internal/domain/model"
	"premium-gallery/internal/domain/ports/repository"
)

const purchaseColumns = `id, user_id, user_email, user_name, amount, currency, provider, status,
razorpay_order_id, razorpay_payment_id, razorpay_signature,
stripe_session_id, stripe_payment_intent_id, created_at, updated_at`

type PostgresPurchaseRepo struct {
	db *pgxpool.Pool
}

func NewPostgresPurchaseRepo(db *pgxpool.Pool) *PostgresPurchaseRepo {
	return &PostgresPurchaseRepo{db: db}
}

var _ repository.PurchaseRepository = (*PostgresPurchaseRepo)(nil)

func (r *PostgresPurchaseRepo) Create(ctx context.Context, p *model.Purchase) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO purchases (`+purchaseColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, p.ID, p.UserID, p.UserEmail, p.UserName, p.Amount, p.Currency, p.Provider, p.Status,
		p.RazorpayOrderID, p.RazorpayPaymentID, p.RazorpaySignature,
		p.StripeSessionID, p.StripePaymentIntentID, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PostgresPurchaseRepo) UpsertRazorpayCompletion(ctx context.Context, p *model.Purchase) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO purchases (`+purchaseColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,'razorpay','completed',$7,$8,$9,NULL,NULL,NOW(),NOW())
		ON CONFLICT (razorpay_order_id) WHERE razorpay_order_id IS NOT NULL DO UPDATE SET
			user_id = EXCLUDED.user_id,
			user_email = EXCLUDED.user_email,
			user_name = EXCLUDED.user_name,
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			razorpay_payment_id = EXCLUDED.razorpay_payment_id,
			razorpay_signature = EXCLUDED.razorpay_signature,
			status = 'completed',
			updated_at = NOW()
	`, p.ID, p.UserID, p.UserEmail, p.UserName, p.Amount, p.Currency,
		p.RazorpayOrderID, p.RazorpayPaymentID, p.RazorpaySignature)
	return err
}

func (r *PostgresPurchaseRepo) UpsertStripeCompletion(ctx context.Context, p *model.Purchase) error {
	// COALESCE keeps identity fields captured earlier when a webhook delivery
	// arrives with sparse metadata.
	_, err := r.db.Exec(ctx, `
		INSERT INTO purchases (`+purchaseColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,'stripe','completed',NULL,NULL,NULL,$7,$8,NOW(),NOW())
		ON CONFLICT (stripe_session_id) WHERE stripe_session_id IS NOT NULL DO UPDATE SET
			user_id = COALESCE(NULLIF(EXCLUDED.user_id, ''), purchases.user_id),
			user_email = COALESCE(NULLIF(EXCLUDED.user_email, ''), purchases.user_email),
			user_name = COALESCE(NULLIF(EXCLUDED.user_name, ''), purchases.user_name),
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			stripe_payment_intent_id = COALESCE(EXCLUDED.stripe_payment_intent_id, purchases.stripe_payment_intent_id),
			status = 'completed',
			updated_at = NOW()
	`, p.ID, p.UserID, p.UserEmail, p.UserName, p.Amount, p.Currency,
		p.StripeSessionID, p.StripePaymentIntentID)
	return err
}

func (r *PostgresPurchaseRepo) MarkStatusByStripeIntent(ctx context.Context, intentID string, status model.PurchaseStatus) (bool, error) {
	// Only pending rows move; completed is terminal.
	tag, err := r.db.Exec(ctx, `
		UPDATE purchases SET status=$2, updated_at=NOW()
		WHERE stripe_payment_intent_id=$1 AND status='pending'
	`, intentID, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresPurchaseRepo) FindCompletedByUser(ctx context.Context, userID string) (*model.Purchase, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+purchaseColumns+`
		FROM purchases WHERE user_id=$1 AND status='completed'
		ORDER BY created_at DESC LIMIT 1
	`, userID)

	var p model.Purchase
	err := row.Scan(&p.ID, &p.UserID, &p.UserEmail, &p.UserName, &p.Amount, &p.Currency, &p.Provider, &p.Status,
		&p.RazorpayOrderID, &p.RazorpayPaymentID, &p.RazorpaySignature,
		&p.StripeSessionID, &p.StripePaymentIntentID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
