package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"course-checkout/internal/client"
	"course-checkout/internal/config"
	"course-checkout/internal/handler"
	"course-checkout/internal/logger"
	"course-checkout/internal/metrics"
	"course-checkout/internal/middleware"
	"course-checkout/internal/repository"
	"course-checkout/internal/server"
	"course-checkout/internal/service"
	"course-checkout/internal/worker"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	db, err := client.InitDatabase(cfg.Database)
	if err != nil {
		log.Error("init database", "error", err.Error())
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	gateway, err := newGateway(cfg)
	if err != nil {
		log.Error("init payment gateway", "error", err.Error())
		os.Exit(1)
	}
	gateway = client.NewInstrumentedGateway(gateway, m)

	courseRepo := repository.NewCourseRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if cfg.Database.SeedCourses {
		if err := courseRepo.Seed(ctx); err != nil {
			log.Error("seed courses", "error", err.Error())
			os.Exit(1)
		}
	}

	recorder := service.NewPaymentRecorder(paymentRepo)
	reconciliationService := service.NewReconciliationService(
		service.NewIntentVerifier(gateway),
		recorder,
		service.NewEnrollmentCreator(enrollmentRepo),
		paymentRepo,
		courseRepo,
		gateway.Name(),
		m,
		log,
	)
	checkoutService := service.NewCheckoutService(gateway, courseRepo, enrollmentRepo)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo)
	webhookService := service.NewWebhookService(
		cfg.Stripe.WebhookSecret,
		reconciliationService,
		recorder,
		webhookEventRepo,
		log,
	)

	if cfg.Sweeper.Enabled {
		sweeper := worker.NewEnrollmentSweeper(cfg.Sweeper, paymentRepo, reconciliationService, m, log)
		go sweeper.Start(ctx)
	}

	srv := server.NewServer(
		server.Handlers{
			Payment:    handler.NewPaymentHandler(checkoutService, reconciliationService),
			Enrollment: handler.NewEnrollmentHandler(enrollmentService),
			Webhook:    handler.NewWebhookHandler(webhookService),
		},
		middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, log),
		registry,
		log,
	)

	serverAddr := cfg.HTTP.Address()
	log.Info("starting HTTP server", "address", serverAddr, "gateway", gateway.Name())
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err.Error())
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newGateway(cfg *config.Config) (client.PaymentGateway, error) {
	switch cfg.Gateway.Provider {
	case client.ProviderStripe:
		return client.NewStripeClient(&cfg.Stripe), nil
	case client.ProviderBraintree:
		return client.NewBraintreeClient(&cfg.BrainTree), nil
	default:
		return nil, fmt.Errorf("unsupported gateway provider %q", cfg.Gateway.Provider)
	}
}
