//go:build !integration

package web

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"premium-gallery/internal/domain/model"
	"premium-gallery/internal/domain/ports/adapter"
	"premium-gallery/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// --- Mock use cases ---

type mockGalleryUC struct {
	ListFunc func(ctx context.Context) ([]*model.Image, error)
	SeedFunc func(ctx context.Context) (int, error)
}

var _ usecase.GalleryUseCase = (*mockGalleryUC)(nil)

func (m *mockGalleryUC) List(ctx context.Context) ([]*model.Image, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockGalleryUC) Seed(ctx context.Context) (int, error) {
	if m.SeedFunc != nil {
		return m.SeedFunc(ctx)
	}
	return 0, nil
}

type mockPaymentUC struct {
	CreateRazorpayOrderFunc func(ctx context.Context) (*adapter.RazorpayOrder, error)
	CreateStripeSessionFunc func(ctx context.Context, ident model.Identity) (string, string, error)
}

var _ usecase.PaymentUseCase = (*mockPaymentUC)(nil)

func (m *mockPaymentUC) CreateRazorpayOrder(ctx context.Context) (*adapter.RazorpayOrder, error) {
	if m.CreateRazorpayOrderFunc != nil {
		return m.CreateRazorpayOrderFunc(ctx)
	}
	return &adapter.RazorpayOrder{ID: "order_test", Amount: 10000, Currency: "INR", Status: "created"}, nil
}

func (m *mockPaymentUC) CreateStripeSession(ctx context.Context, ident model.Identity) (string, string, error) {
	if m.CreateStripeSessionFunc != nil {
		return m.CreateStripeSessionFunc(ctx, ident)
	}
	return "cs_test", "https://checkout.stripe.com/pay/cs_test", nil
}

type mockPurchaseUC struct {
	ConfirmRazorpayFunc     func(ctx context.Context, ident model.Identity, orderID, paymentID, signature string) (*model.Purchase, error)
	ConfirmStripeFunc       func(ctx context.Context, ident model.Identity, sessionID string) (*model.Purchase, error)
	HandleStripeWebhookFunc func(ctx context.Context, payload []byte, signature string) (string, error)
	CheckAccessFunc         func(ctx context.Context, userID string) (*model.AccessStatus, error)
}

var _ usecase.PurchaseUseCase = (*mockPurchaseUC)(nil)

func (m *mockPurchaseUC) ConfirmRazorpay(ctx context.Context, ident model.Identity, orderID, paymentID, signature string) (*model.Purchase, error) {
	if m.ConfirmRazorpayFunc != nil {
		return m.ConfirmRazorpayFunc(ctx, ident, orderID, paymentID, signature)
	}
	return &model.Purchase{ID: "p-1", Status: model.PurchaseStatusCompleted, Amount: 10000, Currency: "INR"}, nil
}

func (m *mockPurchaseUC) ConfirmStripe(ctx context.Context, ident model.Identity, sessionID string) (*model.Purchase, error) {
	if m.ConfirmStripeFunc != nil {
		return m.ConfirmStripeFunc(ctx, ident, sessionID)
	}
	return &model.Purchase{ID: "p-1", Status: model.PurchaseStatusCompleted, Amount: 10000, Currency: "INR"}, nil
}

func (m *mockPurchaseUC) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (string, error) {
	if m.HandleStripeWebhookFunc != nil {
		return m.HandleStripeWebhookFunc(ctx, payload, signature)
	}
	return "checkout.session.completed", nil
}

func (m *mockPurchaseUC) CheckAccess(ctx context.Context, userID string) (*model.AccessStatus, error) {
	if m.CheckAccessFunc != nil {
		return m.CheckAccessFunc(ctx, userID)
	}
	return &model.AccessStatus{HasPurchased: false}, nil
}

// --- Test harness ---

const testJWTSecret = "test-secret"

type serverFixture struct {
	gallery   *mockGalleryUC
	payments  *mockPaymentUC
	purchases *mockPurchaseUC
	auth      *AuthManager
	server    *Server
}

func newServerFixture() *serverFixture {
	f := &serverFixture{
		gallery:   &mockGalleryUC{},
		payments:  &mockPaymentUC{},
		purchases: &mockPurchaseUC{},
		auth:      NewAuthManager(testJWTSecret),
	}
	f.server = NewServer(f.gallery, f.payments, f.purchases, f.auth, newTestLogger())
	return f
}

func (f *serverFixture) token(ident model.Identity) string {
	tok, err := f.auth.Mint(ident, time.Hour)
	if err != nil {
		panic(err)
	}
	return tok
}
