package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/mdp/qrterminal/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/autowhapp/platform/internal/automation"
	"github.com/autowhapp/platform/internal/business"
	"github.com/autowhapp/platform/internal/catalog"
	appconfig "github.com/autowhapp/platform/internal/config"
	"github.com/autowhapp/platform/internal/http/middleware"
	"github.com/autowhapp/platform/internal/notify"
	"github.com/autowhapp/platform/internal/observability/metrics"
	"github.com/autowhapp/platform/internal/orders"
	"github.com/autowhapp/platform/internal/reservations"
	"github.com/autowhapp/platform/internal/whatsapp"
	"github.com/autowhapp/platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.DatabaseURL == "" || cfg.AutomationWebhookURL == "" {
		logger.Error("bot requires DATABASE_URL and AUTOMATION_WEBHOOK_URL")
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, profile cache disabled", "error", err)
		redisClient = nil
	}

	botMetrics := metrics.NewBotMetrics(prometheus.DefaultRegisterer)

	businessRepo := business.NewRepository(pool)
	profileCache := business.NewProfileCache(businessRepo, redisClient, logger)
	catalogRepo := catalog.NewRepository(pool)
	ordersRepo := orders.NewRepository(pool)
	reservationsRepo := reservations.NewRepository(pool)
	reservationService := reservations.NewService(profileCache, reservationsRepo, nil, nil, logger)

	autoClient := automation.NewClient(cfg.AutomationWebhookURL, logger,
		automation.WithTimeout(cfg.AutomationWebhookTimeout))

	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	}
	notifier := notify.NewService(emailSender, logger)

	container, err := whatsapp.NewContainer(ctx, cfg.WhatsAppStorePath)
	if err != nil {
		logger.Error("failed to open whatsapp store", "error", err)
		os.Exit(1)
	}

	queue := whatsapp.NewMemoryQueue(cfg.QueueBuffer)
	registry := whatsapp.NewRegistry()

	adapter := whatsapp.NewAdapter(profileCache, catalogRepo, reservationService,
		ordersRepo, autoClient, registry, notifier, botMetrics, logger)

	workers := whatsapp.NewWorkerPool(queue, adapter, cfg.WorkerCount, logger)
	workers.Start(ctx)

	businesses, err := businessRepo.List(ctx)
	if err != nil {
		logger.Error("failed to list businesses", "error", err)
		os.Exit(1)
	}
	for _, b := range businesses {
		if b.Phone == "" {
			logger.Warn("business has no phone, skipping session", "business_id", b.ID)
			continue
		}
		session, err := whatsapp.NewSession(ctx, container, b.ID, b.Phone, queue, logger)
		if err != nil {
			logger.Error("failed to build session", "error", err, "business_id", b.ID)
			continue
		}
		name := b.Name
		session.OnQR(func(code string) {
			fmt.Printf("\nScan to pair %s:\n", name)
			qrterminal.GenerateHalfBlock(code, qrterminal.L, os.Stdout)
		})
		if err := session.Connect(ctx); err != nil {
			logger.Error("failed to connect session", "error", err, "business_id", b.ID)
			continue
		}
		registry.Put(b.ID, session)
		logger.Info("session online", "business_id", b.ID, "business", b.Name)
	}

	// Pairing status endpoints plus metrics, for the dashboard to poll. QR
	// codes pair the account itself, so they sit behind the admin JWT.
	waHandler := whatsapp.NewHandler(registry)
	r := chi.NewRouter()
	r.Route("/whatsapp/{businessID}", func(r chi.Router) {
		r.Use(middleware.TenantContext)
		r.Use(middleware.AdminJWT(cfg.AdminJWTSecret))
		r.Use(middleware.TenantScope)
		r.Get("/status", waHandler.Status)
		r.Get("/qr", waHandler.QR)
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("bot status server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("status server error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("bot shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	registry.Shutdown()
	workers.Wait()
}
