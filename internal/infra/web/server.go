package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"premium-gallery/internal/usecase"
)

type Server struct {
	gallery   usecase.GalleryUseCase
	payments  usecase.PaymentUseCase
	purchases usecase.PurchaseUseCase
	auth      *AuthManager
	log       *zerolog.Logger
}

func NewServer(
	gallery usecase.GalleryUseCase,
	payments usecase.PaymentUseCase,
	purchases usecase.PurchaseUseCase,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		gallery:   gallery,
		payments:  payments,
		purchases: purchases,
		auth:      auth,
		log:       logger,
	}
}

// Router builds the full route tree.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))
	r.Use(Timeout(15 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/images", s.handleListImages)
		r.Post("/images/seed", s.handleSeedImages)

		// Razorpay order creation is called before the checkout widget
		// opens; the original flow does not require a session for it.
		r.Post("/payment/order", s.handleCreateOrder)

		// Webhook deliveries authenticate by signature, not session.
		r.Post("/webhooks/stripe", s.handleStripeWebhook)

		r.Group(func(r chi.Router) {
			r.Use(s.auth.RequireIdentity)
			r.Post("/payment/stripe/create-intent", s.handleStripeCreateIntent)
			r.Post("/payment/razorpay/confirm", s.handleRazorpayConfirm)
			r.Post("/purchase", s.handleRazorpayConfirm) // legacy alias
			r.Post("/payment/stripe/confirm", s.handleStripeConfirm)
			r.Get("/purchase/check", s.handleCheckAccess)
		})
	})

	return r
}
