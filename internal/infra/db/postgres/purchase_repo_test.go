//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"premium-gallery/internal/domain"
	"premium-gallery/internal/domain/model"
)

func strp(s string) *string { return &s }

func TestPurchaseRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewPostgresPurchaseRepo(testPool)

	t.Run("should create and find a completed purchase", func(t *testing.T) {
		cleanup(t)
		p := &model.Purchase{
			ID:                uuid.NewString(),
			UserID:            "user-1",
			UserEmail:         "buyer@example.com",
			UserName:          "Buyer",
			Amount:            10000,
			Currency:          "INR",
			Provider:          model.ProviderRazorpay,
			Status:            model.PurchaseStatusCompleted,
			RazorpayOrderID:   strp("order_1"),
			RazorpayPaymentID: strp("pay_1"),
		}
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}

		found, err := repo.FindCompletedByUser(ctx, "user-1")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if found.ID != p.ID || found.Amount != 10000 || *found.RazorpayOrderID != "order_1" {
			t.Errorf("unexpected purchase: %+v", found)
		}
	})

	t.Run("should not find pending purchases", func(t *testing.T) {
		cleanup(t)
		p := &model.Purchase{
			ID:              uuid.NewString(),
			UserID:          "user-1",
			Amount:          10000,
			Currency:        "INR",
			Provider:        model.ProviderStripe,
			Status:          model.PurchaseStatusPending,
			StripeSessionID: strp("cs_1"),
		}
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := repo.FindCompletedByUser(ctx, "user-1"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("should keep one row per razorpay order across re-confirmations", func(t *testing.T) {
		cleanup(t)
		base := &model.Purchase{
			ID:                uuid.NewString(),
			UserID:            "user-1",
			UserEmail:         "buyer@example.com",
			Amount:            10000,
			Currency:          "INR",
			RazorpayOrderID:   strp("order_7"),
			RazorpayPaymentID: strp("pay_7"),
			RazorpaySignature: strp("sig"),
		}
		if err := repo.UpsertRazorpayCompletion(ctx, base); err != nil {
			t.Fatalf("first upsert: %v", err)
		}

		again := *base
		again.ID = uuid.NewString()
		again.UserName = "Buyer Updated"
		if err := repo.UpsertRazorpayCompletion(ctx, &again); err != nil {
			t.Fatalf("second upsert: %v", err)
		}

		var count int
		if err := testPool.QueryRow(ctx, `SELECT COUNT(*) FROM purchases WHERE razorpay_order_id='order_7'`).Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != 1 {
			t.Errorf("expected one row for order_7, got %d", count)
		}

		found, err := repo.FindCompletedByUser(ctx, "user-1")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if found.UserName != "Buyer Updated" {
			t.Errorf("expected the re-confirmation to update fields, got %q", found.UserName)
		}
	})

	t.Run("should allow separate rows for separate orders by the same user", func(t *testing.T) {
		cleanup(t)
		for _, orderID := range []string{"order_a", "order_b"} {
			p := &model.Purchase{
				ID:                uuid.NewString(),
				UserID:            "user-1",
				UserEmail:         "buyer@example.com",
				Amount:            10000,
				Currency:          "INR",
				RazorpayOrderID:   strp(orderID),
				RazorpayPaymentID: strp("pay_" + orderID),
			}
			if err := repo.UpsertRazorpayCompletion(ctx, p); err != nil {
				t.Fatalf("upsert %s: %v", orderID, err)
			}
		}
		var count int
		if err := testPool.QueryRow(ctx, `SELECT COUNT(*) FROM purchases WHERE user_id='user-1'`).Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != 2 {
			t.Errorf("expected two rows for a returning buyer, got %d", count)
		}
	})

	t.Run("should converge the confirm and webhook paths onto one stripe row", func(t *testing.T) {
		cleanup(t)
		// Pending row from session creation.
		pending := &model.Purchase{
			ID:              uuid.NewString(),
			UserID:          "user-1",
			UserEmail:       "buyer@example.com",
			UserName:        "Buyer",
			Amount:          10000,
			Currency:        "INR",
			Provider:        model.ProviderStripe,
			Status:          model.PurchaseStatusPending,
			StripeSessionID: strp("cs_9"),
		}
		if err := repo.Create(ctx, pending); err != nil {
			t.Fatalf("create pending: %v", err)
		}

		// Webhook completion with sparse metadata must keep the identity.
		hook := &model.Purchase{
			ID:                    uuid.NewString(),
			Amount:                10000,
			Currency:              "INR",
			StripeSessionID:       strp("cs_9"),
			StripePaymentIntentID: strp("pi_9"),
		}
		if err := repo.UpsertStripeCompletion(ctx, hook); err != nil {
			t.Fatalf("webhook upsert: %v", err)
		}

		var count int
		if err := testPool.QueryRow(ctx, `SELECT COUNT(*) FROM purchases WHERE stripe_session_id='cs_9'`).Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != 1 {
			t.Fatalf("expected one row for cs_9, got %d", count)
		}

		found, err := repo.FindCompletedByUser(ctx, "user-1")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if found.UserEmail != "buyer@example.com" {
			t.Errorf("expected identity preserved through sparse webhook, got %q", found.UserEmail)
		}
		if found.StripePaymentIntentID == nil || *found.StripePaymentIntentID != "pi_9" {
			t.Errorf("expected the intent id merged in, got %v", found.StripePaymentIntentID)
		}
	})

	t.Run("should move only pending rows by intent id", func(t *testing.T) {
		cleanup(t)
		pending := &model.Purchase{
			ID:                    uuid.NewString(),
			UserID:                "user-1",
			Amount:                10000,
			Currency:              "INR",
			Provider:              model.ProviderStripe,
			Status:                model.PurchaseStatusPending,
			StripeSessionID:       strp("cs_10"),
			StripePaymentIntentID: strp("pi_10"),
		}
		if err := repo.Create(ctx, pending); err != nil {
			t.Fatalf("create: %v", err)
		}

		moved, err := repo.MarkStatusByStripeIntent(ctx, "pi_10", model.PurchaseStatusCompleted)
		if err != nil {
			t.Fatalf("mark: %v", err)
		}
		if !moved {
			t.Fatal("expected the pending row to move")
		}

		// A second delivery finds nothing pending.
		moved, err = repo.MarkStatusByStripeIntent(ctx, "pi_10", model.PurchaseStatusFailed)
		if err != nil {
			t.Fatalf("mark again: %v", err)
		}
		if moved {
			t.Error("a completed row must not move backward")
		}

		found, err := repo.FindCompletedByUser(ctx, "user-1")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if found.Status != model.PurchaseStatusCompleted {
			t.Errorf("expected completed, got %q", found.Status)
		}
	})
}
