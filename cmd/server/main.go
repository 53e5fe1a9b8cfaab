package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/checkout"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/paymentform"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/checkout/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	log.Infow("starting checkout server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"processing_delay", cfg.Checkout.ProcessingDelay,
		"session_ttl", cfg.Checkout.SessionTTL,
	)

	// Repositories
	cartRepo := repository.NewInMemoryCartRepository()
	sessionRepo := repository.NewInMemorySessionRepository(
		cfg.Checkout.SessionTTL,
		cfg.Checkout.CleanupInterval,
		func(id string) { log.Infow("checkout session expired", "session_id", id) },
	)

	// Services
	validator := paymentform.NewValidator(paymentform.SystemClock)
	checkoutService := service.NewCheckoutService(
		cartRepo,
		sessionRepo,
		validator,
		checkout.TimerScheduler{},
		cfg.Checkout.ProcessingDelay,
		log,
	)

	// Handlers
	healthHandler := handlers.NewHealthHandler(checkoutService, log)
	formHandler := handlers.NewFormHandler(paymentform.SystemClock, log)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "api_key"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/banks", formHandler.ListBanks)
		r.Get("/format/card-number", formHandler.FormatCardNumber)
		r.Get("/format/expiry", formHandler.FormatExpiry)

		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(cfg.Auth))
			r.Route("/checkout/sessions", checkoutHandler.Routes)
		})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Infow("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	s := <-quit

	log.Infow("shutting down server", "signal", s.String())

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Infow("server stopped gracefully")
}
