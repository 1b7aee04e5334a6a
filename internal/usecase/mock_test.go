//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"premium-gallery/internal/domain"
	"premium-gallery/internal/domain/model"
	"premium-gallery/internal/domain/ports/adapter"
	"premium-gallery/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// =============================
// Repositories
// =============================

// MockPurchaseRepo is a small in-memory implementation used by unit tests.
// Any Func field, when set, overrides the in-memory behavior.
type MockPurchaseRepo struct {
	mu    sync.Mutex
	Rows  []*model.Purchase
	Saved []*model.Purchase // every row passed through Create/Upsert, in order

	CreateFunc                   func(ctx context.Context, p *model.Purchase) error
	UpsertRazorpayCompletionFunc func(ctx context.Context, p *model.Purchase) error
	UpsertStripeCompletionFunc   func(ctx context.Context, p *model.Purchase) error
	MarkStatusByStripeIntentFunc func(ctx context.Context, intentID string, status model.PurchaseStatus) (bool, error)
	FindCompletedByUserFunc      func(ctx context.Context, userID string) (*model.Purchase, error)
}

var _ repository.PurchaseRepository = (*MockPurchaseRepo)(nil)

func NewMockPurchaseRepo() *MockPurchaseRepo { return &MockPurchaseRepo{} }

func (m *MockPurchaseRepo) record(p *model.Purchase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.Rows = append(m.Rows, &cp)
	m.Saved = append(m.Saved, &cp)
}

func (m *MockPurchaseRepo) Create(ctx context.Context, p *model.Purchase) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	m.record(p)
	return nil
}

func (m *MockPurchaseRepo) UpsertRazorpayCompletion(ctx context.Context, p *model.Purchase) error {
	if m.UpsertRazorpayCompletionFunc != nil {
		return m.UpsertRazorpayCompletionFunc(ctx, p)
	}
	m.record(p)
	return nil
}

func (m *MockPurchaseRepo) UpsertStripeCompletion(ctx context.Context, p *model.Purchase) error {
	if m.UpsertStripeCompletionFunc != nil {
		return m.UpsertStripeCompletionFunc(ctx, p)
	}
	m.record(p)
	return nil
}

func (m *MockPurchaseRepo) MarkStatusByStripeIntent(ctx context.Context, intentID string, status model.PurchaseStatus) (bool, error) {
	if m.MarkStatusByStripeIntentFunc != nil {
		return m.MarkStatusByStripeIntentFunc(ctx, intentID, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Rows {
		if r.StripePaymentIntentID != nil && *r.StripePaymentIntentID == intentID && r.Status == model.PurchaseStatusPending {
			r.Status = status
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPurchaseRepo) FindCompletedByUser(ctx context.Context, userID string) (*model.Purchase, error) {
	if m.FindCompletedByUserFunc != nil {
		return m.FindCompletedByUserFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Rows) - 1; i >= 0; i-- {
		r := m.Rows[i]
		if r.UserID == userID && r.Status == model.PurchaseStatusCompleted {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type MockImageRepo struct {
	mu     sync.Mutex
	Images []*model.Image

	ListFunc     func(ctx context.Context) ([]*model.Image, error)
	SeedManyFunc func(ctx context.Context, images []*model.Image) (int, error)
}

var _ repository.ImageRepository = (*MockImageRepo)(nil)

func (m *MockImageRepo) List(ctx context.Context) ([]*model.Image, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Images, nil
}

func (m *MockImageRepo) SeedMany(ctx context.Context, images []*model.Image) (int, error) {
	if m.SeedManyFunc != nil {
		return m.SeedManyFunc(ctx, images)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inserted := 0
	for _, img := range images {
		exists := false
		for _, have := range m.Images {
			if have.URL == img.URL {
				exists = true
				break
			}
		}
		if !exists {
			cp := *img
			m.Images = append(m.Images, &cp)
			inserted++
		}
	}
	return inserted, nil
}

// =============================
// Payment gateways
// =============================

type MockRazorpayGateway struct {
	CreateOrderFunc     func(ctx context.Context, amount int64, currency, receipt string) (*adapter.RazorpayOrder, error)
	FetchPaymentFunc    func(ctx context.Context, paymentID string) (*adapter.RazorpayPayment, error)
	VerifySignatureFunc func(orderID, paymentID, signature string) bool
}

var _ adapter.RazorpayGateway = (*MockRazorpayGateway)(nil)

func (m *MockRazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*adapter.RazorpayOrder, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, amount, currency, receipt)
	}
	return &adapter.RazorpayOrder{
		ID:       "order_test",
		Entity:   "order",
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (m *MockRazorpayGateway) FetchPayment(ctx context.Context, paymentID string) (*adapter.RazorpayPayment, error) {
	if m.FetchPaymentFunc != nil {
		return m.FetchPaymentFunc(ctx, paymentID)
	}
	return &adapter.RazorpayPayment{ID: paymentID, Status: "captured"}, nil
}

func (m *MockRazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	if m.VerifySignatureFunc != nil {
		return m.VerifySignatureFunc(orderID, paymentID, signature)
	}
	return true
}

type MockStripeGateway struct {
	CreateCheckoutSessionFunc func(ctx context.Context, cust adapter.CheckoutCustomer) (*adapter.CheckoutSession, error)
	GetCheckoutSessionFunc    func(ctx context.Context, id string) (*adapter.CheckoutSession, error)
	ParseWebhookEventFunc     func(payload []byte, signature string) (*adapter.StripeEvent, error)
}

var _ adapter.StripeGateway = (*MockStripeGateway)(nil)

func (m *MockStripeGateway) CreateCheckoutSession(ctx context.Context, cust adapter.CheckoutCustomer) (*adapter.CheckoutSession, error) {
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, cust)
	}
	return &adapter.CheckoutSession{
		ID:  "cs_test",
		URL: "https://checkout.stripe.com/pay/cs_test",
	}, nil
}

func (m *MockStripeGateway) GetCheckoutSession(ctx context.Context, id string) (*adapter.CheckoutSession, error) {
	if m.GetCheckoutSessionFunc != nil {
		return m.GetCheckoutSessionFunc(ctx, id)
	}
	return &adapter.CheckoutSession{ID: id, PaymentStatus: "paid"}, nil
}

func (m *MockStripeGateway) ParseWebhookEvent(payload []byte, signature string) (*adapter.StripeEvent, error) {
	if m.ParseWebhookEventFunc != nil {
		return m.ParseWebhookEventFunc(payload, signature)
	}
	return &adapter.StripeEvent{Type: "noop"}, nil
}

// =============================
// Access cache
// =============================

// MockAccessCache is an in-memory AccessCache. Err, when set, is returned by
// every method so tests can check cache failures stay non-fatal.
type MockAccessCache struct {
	mu      sync.Mutex
	Entries map[string]*model.AccessStatus
	Err     error

	Gets, Sets int
}

func NewMockAccessCache() *MockAccessCache {
	return &MockAccessCache{Entries: make(map[string]*model.AccessStatus)}
}

func (m *MockAccessCache) Get(ctx context.Context, userID string) (*model.AccessStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.Err != nil {
		return nil, m.Err
	}
	st, ok := m.Entries[userID]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (m *MockAccessCache) Set(ctx context.Context, userID string, st *model.AccessStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.Err != nil {
		return m.Err
	}
	cp := *st
	m.Entries[userID] = &cp
	return nil
}

func (m *MockAccessCache) Invalidate(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.Entries, userID)
	return nil
}

// ptr is a tiny helper for optional string fields.
func ptr(s string) *string { return &s }

// at is a fixed timestamp helper for deterministic assertions.
func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
