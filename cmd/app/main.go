// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"premium-gallery/internal/config"
	pg "premium-gallery/internal/infra/db/postgres"
	"premium-gallery/internal/infra/logging"
	"premium-gallery/internal/infra/metrics"
	"premium-gallery/internal/infra/payment"
	red "premium-gallery/internal/infra/redis"
	"premium-gallery/internal/infra/web"
	"premium-gallery/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted fields)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	accessCache := red.NewAccessCache(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	imageRepo := pg.NewPostgresImageRepo(pool)
	purchaseRepo := pg.NewPostgresPurchaseRepo(pool)

	// ---- Payment gateways ----
	razorpay := payment.NewRazorpayDirectGateway(cfg.Payment.Razorpay.KeyID, cfg.Payment.Razorpay.KeySecret)
	stripe := payment.NewStripeCheckoutGateway(
		cfg.Payment.Stripe.SecretKey,
		cfg.Payment.Stripe.WebhookSecret,
		cfg.Payment.Price.Amount,
		cfg.Payment.Price.Currency,
		cfg.Server.BaseURL,
	)

	// ---- Use cases ----
	galleryUC := usecase.NewGalleryUseCase(imageRepo, logger)
	paymentUC := usecase.NewPaymentUseCase(
		purchaseRepo, razorpay, stripe,
		cfg.Payment.Price.Amount, cfg.Payment.Price.Currency,
		logger,
	)
	purchaseUC := usecase.NewPurchaseUseCase(
		purchaseRepo, razorpay, stripe, accessCache,
		cfg.Payment.Price.Amount, cfg.Payment.Price.Currency,
		cfg.Runtime.Dev, logger,
	)

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret)
	server := web.NewServer(galleryUC, paymentUC, purchaseUC, auth, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// ---- Graceful shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	case err := <-errCh:
		logger.Error().Err(err).Msg("http server failed")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown incomplete")
	}
	logger.Info().Msg("stopped")
}
