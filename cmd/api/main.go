package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/autowhapp/platform/internal/api/router"
	"github.com/autowhapp/platform/internal/business"
	"github.com/autowhapp/platform/internal/catalog"
	appconfig "github.com/autowhapp/platform/internal/config"
	"github.com/autowhapp/platform/internal/observability/metrics"
	"github.com/autowhapp/platform/internal/orders"
	"github.com/autowhapp/platform/internal/reminders"
	"github.com/autowhapp/platform/internal/reservations"
	"github.com/autowhapp/platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting autowhapp API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, profile cache disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	botMetrics := metrics.NewBotMetrics(prometheus.DefaultRegisterer)

	businessRepo := business.NewRepository(pool)
	profileCache := business.NewProfileCache(businessRepo, redisClient, logger)
	catalogRepo := catalog.NewRepository(pool)
	ordersRepo := orders.NewRepository(pool)
	remindersRepo := reminders.NewRepository(pool)
	reservationsRepo := reservations.NewRepository(pool)

	reservationService := reservations.NewService(profileCache, reservationsRepo, businessRepo, profileCache, logger)

	businessHandler := business.NewHandler(businessRepo, profileCache, reservationsRepo, logger)
	catalogHandler := catalog.NewHandler(catalogRepo, logger)
	ordersHandler := orders.NewHandler(ordersRepo, logger)
	remindersHandler := reminders.NewHandler(remindersRepo, logger)
	reservationsHandler := reservations.NewHandler(reservationService, botMetrics, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		BusinessHandler:     businessHandler,
		CatalogHandler:      catalogHandler,
		OrdersHandler:       ordersHandler,
		RemindersHandler:    remindersHandler,
		ReservationsHandler: reservationsHandler,
		MetricsHandler:      promhttp.Handler(),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
