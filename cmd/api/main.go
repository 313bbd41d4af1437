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

	"github.com/creasebook/scoring/internal/app"
	"github.com/creasebook/scoring/internal/handler"
	"github.com/creasebook/scoring/internal/infra"
	"github.com/creasebook/scoring/internal/metrics"
	"github.com/creasebook/scoring/internal/projection"
	"github.com/creasebook/scoring/internal/roster"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	checks := make(map[string]handler.Checker)

	// Store
	var backend *app.Backend
	switch cfg.StoreDriver {
	case infra.DriverPostgres:
		if err := infra.RunMigrations(cfg.DSN(), "", logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		pool, err := infra.NewPostgresPool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		logger.Info("connected to postgres")
		backend = app.NewPostgresBackend(pool)
		checks["postgres"] = infra.PostgresChecker{Pool: pool}
	default:
		logger.Warn("using in-memory store; matches are lost on restart")
		backend = app.NewMemoryBackend()
	}

	if cfg.RosterSeedPath != "" {
		seed, err := roster.LoadSeedFile(cfg.RosterSeedPath)
		if err != nil {
			return fmt.Errorf("load roster seed: %w", err)
		}
		if err := seed.Apply(ctx, backend.Roster); err != nil {
			return fmt.Errorf("apply roster seed: %w", err)
		}
		logger.Info("roster seeded", "path", cfg.RosterSeedPath, "teams", len(seed.Teams))
	}

	// Snapshot cache
	var cache projection.Store = projection.NewInMemoryStore()
	if cfg.RedisEnabled {
		rdb, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")
		cache = projection.NewRedisStore(rdb)
		checks["redis"] = infra.RedisChecker{Client: rdb}
	}

	hub := infra.NewWSHub(logger)
	rec := metrics.NewRecorder()

	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()
	poller := infra.NewOutboxPoller(backend.Outbox, producer, rec, logger)

	r := app.NewRouter(app.RouterDeps{
		Backend:            backend,
		Cache:              cache,
		Hub:                hub,
		Metrics:            rec,
		Checks:             checks,
		Rules:              cfg.Rules(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             logger,
	})

	// No WriteTimeout: live viewers hold their websocket open for the whole match.
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("api server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return poller.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		hub.Shutdown(shutdownCtx)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server stopped gracefully")
		return nil
	})

	return g.Wait()
}
