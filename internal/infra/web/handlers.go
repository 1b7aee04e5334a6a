package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"premium-gallery/internal/domain"
	"premium-gallery/internal/domain/model"
	"premium-gallery/internal/infra/metrics"
)

// maxWebhookBody bounds webhook payload reads; Stripe events are small.
const maxWebhookBody = 256 << 10

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// confirmStatus maps verification errors onto the HTTP taxonomy:
// bad evidence 400, account mismatch 403, provider/storage failure 500.
func confirmStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, "Missing required payment details"
	case errors.Is(err, domain.ErrVerificationFailed):
		return http.StatusBadRequest, "Payment verification failed"
	case errors.Is(err, domain.ErrAmountMismatch):
		return http.StatusBadRequest, "Invalid payment data or amount mismatch"
	case errors.Is(err, domain.ErrEmailMismatch):
		return http.StatusForbidden, "Email verification failed - user mismatch"
	case errors.Is(err, domain.ErrUpstreamFailure):
		return http.StatusInternalServerError, "Failed to fetch payment details from provider"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// verificationOutcome labels the metrics series for a confirm result.
func verificationOutcome(err error) string {
	switch {
	case err == nil:
		return "completed"
	case errors.Is(err, domain.ErrVerificationFailed):
		return "verification_failed"
	case errors.Is(err, domain.ErrAmountMismatch):
		return "amount_mismatch"
	case errors.Is(err, domain.ErrEmailMismatch):
		return "email_mismatch"
	case errors.Is(err, domain.ErrUpstreamFailure):
		return "upstream_error"
	default:
		return "error"
	}
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	images, err := s.gallery.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list images")
		writeError(w, http.StatusInternalServerError, "Failed to fetch images")
		return
	}
	if images == nil {
		images = []*model.Image{}
	}
	writeJSON(w, http.StatusOK, images)
}

func (s *Server) handleSeedImages(w http.ResponseWriter, r *http.Request) {
	count, err := s.gallery.Seed(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to seed images")
		writeError(w, http.StatusInternalServerError, "Failed to seed images")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Images seeded successfully",
		"count":   count,
	})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.payments.CreateRazorpayOrder(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}
	metrics.IncOrder("razorpay")
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleStripeCreateIntent(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	sessionID, url, err := s.payments.CreateStripeSession(r.Context(), *ident)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}
	metrics.IncOrder("stripe")
	writeJSON(w, http.StatusOK, map[string]string{
		"sessionId": sessionID,
		"url":       url,
	})
}

type razorpayConfirmRequest struct {
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpayPaymentID string `json:"razorpayPaymentId"`
	RazorpaySignature string `json:"razorpaySignature"`
}

func (s *Server) handleRazorpayConfirm(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req razorpayConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		writeError(w, http.StatusBadRequest, "Missing required payment details")
		return
	}

	purchase, err := s.purchases.ConfirmRazorpay(r.Context(), *ident,
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	metrics.IncVerification("razorpay", verificationOutcome(err))
	if err != nil {
		code, msg := confirmStatus(err)
		writeError(w, code, msg)
		return
	}
	metrics.AddRevenue(purchase.Currency, purchase.Amount)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"purchaseId": purchase.ID,
		"message":    "Purchase verified and recorded successfully",
	})
}

type stripeConfirmRequest struct {
	SessionID string `json:"sessionId"`
}

func (s *Server) handleStripeConfirm(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req stripeConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "Missing session ID")
		return
	}

	purchase, err := s.purchases.ConfirmStripe(r.Context(), *ident, req.SessionID)
	metrics.IncVerification("stripe", verificationOutcome(err))
	if err != nil {
		code, msg := confirmStatus(err)
		writeError(w, code, msg)
		return
	}
	metrics.AddRevenue(purchase.Currency, purchase.Amount)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"purchaseId": purchase.ID,
		"message":    "Purchase verified and recorded successfully",
	})
}

func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	evType, err := s.purchases.HandleStripeWebhook(r.Context(), body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, domain.ErrVerificationFailed) {
			metrics.IncWebhookEvent("unknown", "bad_signature")
			writeError(w, http.StatusBadRequest, "Invalid signature")
			return
		}
		// Non-2xx makes Stripe redeliver the event.
		metrics.IncWebhookEvent(evType, "error")
		s.log.Error().Err(err).Str("event_type", evType).Msg("stripe webhook processing failed")
		writeError(w, http.StatusInternalServerError, "Failed to process webhook")
		return
	}

	metrics.IncWebhookEvent(evType, "ok")
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (s *Server) handleCheckAccess(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	st, err := s.purchases.CheckAccess(r.Context(), ident.UserID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to check purchase status")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, st)
}
