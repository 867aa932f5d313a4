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

	chatservice "github.com/braiatenebras/trabalhomobile-bryan/internal/chat/service"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/config"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/handler"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/client"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/observability"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/resilience"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/service"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("exchange_max_retries", cfg.ExchangeMaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.String("initial_balance", cfg.InitialBalance),
		zap.Duration("reply_latency", cfg.ReplyLatency),
		zap.Bool("exchange_api_key_set", cfg.ExchangeRateAPIKey != ""),
		zap.Bool("tracing_enabled", cfg.TracingEnabled),
	)

	initialBalance, err := decimal.NewFromString(cfg.InitialBalance)
	if err != nil || initialBalance.IsNegative() {
		logger.Fatal("invalid INITIAL_BALANCE", zap.String("value", cfg.InitialBalance), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Tracing ---
	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracer(ctx, cfg.OTLPEndpoint, "bankapp-bfa")
		if err != nil {
			logger.Fatal("failed to init tracer", zap.Error(err))
		}
		defer shutdown(context.Background())
	}

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	exchangeCfg := resilience.Config{
		MaxRetries:     cfg.ExchangeMaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("exchange-rate", logger)
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	rateClient := client.NewExchangeRateClient(httpClient, cfg.ExchangeRateURL, cfg.ExchangeRateAPIKey, cb, exchangeCfg)

	// --- Services ---
	exchangeSvc := service.NewExchangeService(rateClient, metrics, logger)
	catalog := service.NewCatalog()
	sessions := service.NewSessionManager(
		service.SessionConfig{
			TTL:            cfg.SessionTTL,
			InitialBalance: initialBalance,
			ReplyLatency:   cfg.ReplyLatency,
		},
		chatservice.NewIntentResolver(),
		exchangeSvc,
		catalog,
		clockwork.NewRealClock(),
		metrics,
		logger,
	)
	defer sessions.Close()

	// --- Router ---
	router := handler.NewRouter(sessions, exchangeSvc, catalog, metrics, bulkhead, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// Rates load in the background; the app serves without them.
	g.Go(func() error {
		select {
		case <-exchangeSvc.Start(gctx):
			logger.Info("exchange rates startup fetch finished", zap.Bool("ready", exchangeSvc.Ready()))
		case <-gctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	// --- Graceful shutdown ---
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		sessions.Close()
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("server stopped")
}
