package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amara-dev/stripe-sync-gateway/internal/application/services"
	"github.com/amara-dev/stripe-sync-gateway/internal/cache"
	"github.com/amara-dev/stripe-sync-gateway/internal/config"
	"github.com/amara-dev/stripe-sync-gateway/internal/infrastructure/persistence"
	"github.com/amara-dev/stripe-sync-gateway/internal/infrastructure/persistence/postgres"
	"github.com/amara-dev/stripe-sync-gateway/internal/interfaces/rest/handlers"
	"github.com/amara-dev/stripe-sync-gateway/internal/interfaces/rest/middleware"
	"github.com/amara-dev/stripe-sync-gateway/internal/stripe"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting stripe sync gateway",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := persistence.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	orderRepo := postgres.NewOrderRepository(db.Pool)
	tokenRepo := postgres.NewTokenRepository(db.Pool)
	customerRepo := postgres.NewCustomerRepository(db.Pool)

	stripeClient := stripe.NewClient(cfg.Stripe)
	methodCache := cache.NewMethodListCache(cfg.Cache)

	customerService := services.NewCustomerService(
		stripeClient,
		customerRepo,
		orderRepo,
		methodCache,
		services.CheckoutRequiredFields{},
		services.NoMetadata{},
		cfg.Sync.PageLimit,
		logger,
	)
	captureService := services.NewCaptureService(stripeClient, orderRepo, logger)
	tokenService := services.NewTokenService(customerService, customerRepo, tokenRepo, cfg.Sync, logger)

	h := handlers.NewHandlers(customerService, captureService, tokenService, tokenRepo, logger)

	mux := http.NewServeMux()
	h.Register(mux)

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
