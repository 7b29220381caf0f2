package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/relaypoint/relaypoint/internal/adapter/http"
	"github.com/relaypoint/relaypoint/internal/adapter/http/handler"
	"github.com/relaypoint/relaypoint/internal/adapter/http/middleware"
	postgresRepo "github.com/relaypoint/relaypoint/internal/adapter/repository/postgres"
	redisRepo "github.com/relaypoint/relaypoint/internal/adapter/repository/redis"
	"github.com/relaypoint/relaypoint/internal/infrastructure/auth"
	"github.com/relaypoint/relaypoint/internal/infrastructure/config"
	"github.com/relaypoint/relaypoint/internal/infrastructure/logger"
	"github.com/relaypoint/relaypoint/internal/infrastructure/metrics"
	"github.com/relaypoint/relaypoint/internal/infrastructure/postgres"
	"github.com/relaypoint/relaypoint/internal/infrastructure/qr"
	"github.com/relaypoint/relaypoint/internal/infrastructure/redis"
	"github.com/relaypoint/relaypoint/internal/usecase"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	packageRepo := postgresRepo.NewPackageRepository(pool)
	statsRepo := postgresRepo.NewStatsRepository(pool)
	blogRepo := postgresRepo.NewBlogRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	reportCache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen, jwtManager)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, ledgerRepo, idGen, retrier)
	packageUC := usecase.NewPackageUseCase(packageRepo, accountRepo, idGen)
	reportUC := usecase.NewReportUseCase(statsRepo, reportCache, log)
	blogUC := usecase.NewBlogUseCase(blogRepo, idGen)

	// Initialize handlers
	baseURL := fmt.Sprintf("http://localhost:%s", cfg.HTTPPort)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:      handler.NewAuthHandler(accountUC, appMetrics),
		AccountHandler:   handler.NewAccountHandler(accountUC, ledgerUC),
		BalanceHandler:   handler.NewBalanceHandler(ledgerUC, appMetrics),
		PackageHandler:   handler.NewPackageHandler(packageUC, appMetrics),
		TrackHandler:     handler.NewTrackHandler(packageUC, qr.NewGenerator(), baseURL),
		DashboardHandler: handler.NewDashboardHandler(reportUC, appMetrics),
		BlogHandler:      handler.NewBlogHandler(blogUC),
		PaymentHandler:   handler.NewPaymentHandler(ledgerUC, idempotencyStore, cfg.WebhookSecret, cfg.IdempotencyTTL, log),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		JWTManager:       jwtManager,
		Logger:           log,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
