// Command server starts the Förderkompass matching HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ai "github.com/foerderkompass/foerderkompass/internal/adapter/ai"
	"github.com/foerderkompass/foerderkompass/internal/adapter/cache"
	httpserver "github.com/foerderkompass/foerderkompass/internal/adapter/httpserver"
	"github.com/foerderkompass/foerderkompass/internal/adapter/observability"
	"github.com/foerderkompass/foerderkompass/internal/adapter/repo/postgres"
	"github.com/foerderkompass/foerderkompass/internal/app"
	"github.com/foerderkompass/foerderkompass/internal/config"
	"github.com/foerderkompass/foerderkompass/internal/domain"
	"github.com/foerderkompass/foerderkompass/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes HTTP, oracle, and pipeline instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Infra: DB pool
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		slog.Error("schema bootstrap failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Repositories
	foundationRepo := postgres.NewFoundationRepo(pool)

	// Result cache (optional)
	var scoreCache domain.ScoreCache
	var cachePinger app.Pinger
	if cfg.RedisURL != "" {
		rc, err := cache.New(cfg.RedisURL, cfg.MatchCacheTTL)
		if err != nil {
			slog.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = rc.Close() }()
		scoreCache = rc
		cachePinger = rc
		slog.Info("match result cache enabled", slog.Duration("ttl", cfg.MatchCacheTTL))
	} else {
		slog.Info("no REDIS_URL configured, match results are not cached")
	}

	// Oracle
	oracleClient := ai.NewClient(cfg)
	evaluator := ai.NewEvaluator(oracleClient, cfg.OracleModel, cfg.OracleMaxTokens)
	slog.Info("oracle configured",
		slog.String("model", cfg.OracleModel),
		slog.String("base_url", cfg.OracleBaseURL))

	// Pipeline
	matchSvc := usecase.NewMatchService(foundationRepo, evaluator, scoreCache, cfg.OracleTimeout)

	// Readiness checks
	dbCheck, cacheCheck := app.BuildReadinessChecks(pool, cachePinger)

	// HTTP server
	srv := httpserver.NewServer(cfg, matchSvc, foundationRepo, dbCheck, cacheCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
