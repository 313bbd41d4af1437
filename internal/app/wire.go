// Package app assembles the scoring service's stores, services and routes.
package app

import (
	"log/slog"
	"time"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/guard"
	"github.com/creasebook/scoring/internal/handler"
	"github.com/creasebook/scoring/internal/infra"
	"github.com/creasebook/scoring/internal/metrics"
	"github.com/creasebook/scoring/internal/projection"
	"github.com/creasebook/scoring/internal/repository"
	"github.com/creasebook/scoring/internal/roster"
	"github.com/creasebook/scoring/internal/service"
	"github.com/creasebook/scoring/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// idempotencyTTL bounds how long a scorer's Idempotency-Key is remembered.
const idempotencyTTL = 24 * time.Hour

// Backend is the persistence side of the service: the aggregate store, the
// roster it scores against and the outbox the poller drains.
type Backend struct {
	Store  store.AggregateStore
	Roster interface {
		roster.Directory
		roster.Writer
	}
	Outbox store.OutboxRelay
}

// NewPostgresBackend wires the pgx repositories behind the store and roster.
func NewPostgresBackend(pool *pgxpool.Pool) *Backend {
	outboxRepo := repository.NewOutboxRepository()
	pg := store.NewPostgres(
		pool,
		repository.NewMatchRepository(),
		repository.NewPerformanceRepository(),
		repository.NewDeliveryRepository(),
		outboxRepo,
	)
	return &Backend{
		Store:  pg,
		Roster: roster.NewPostgresDirectory(pool, repository.NewRosterRepository()),
		Outbox: pg,
	}
}

// NewMemoryBackend keeps everything in process.
func NewMemoryBackend() *Backend {
	mem := store.NewMemory()
	return &Backend{Store: mem, Roster: roster.NewMemoryDirectory(), Outbox: mem}
}

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Backend *Backend
	Cache   projection.Store
	Hub     *infra.WSHub
	Metrics *metrics.Recorder
	Checks  map[string]handler.Checker
	Rules   domain.Rules

	CORSAllowedOrigins string
	Logger             *slog.Logger
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger

	// Services
	matchSvc := service.NewMatchService(service.MatchServiceDeps{
		Store:   deps.Backend.Store,
		Roster:  deps.Backend.Roster,
		Cache:   deps.Cache,
		Hub:     deps.Hub,
		Metrics: deps.Metrics,
		Rules:   deps.Rules,
		Logger:  logger,
	})

	// Handlers
	matchHandler := handler.NewMatchHandler(matchSvc, guard.NewIdempotencyGuard(idempotencyTTL))
	streamHandler := handler.NewStreamHandler(matchSvc, deps.Hub, logger)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.Metrics(deps.Metrics))
	r.Use(handler.CORS(deps.CORSAllowedOrigins))
	r.Use(handler.JSONContentType)

	r.Get("/health", handler.HealthHandler(deps.Checks, logger))
	r.Handle("/metrics", deps.Metrics.Handler())
	r.Get("/standings", matchHandler.Standings)

	r.Route("/matches", func(r chi.Router) {
		r.Post("/", matchHandler.Schedule)
		r.Route("/{matchID}", func(r chi.Router) {
			r.Get("/", matchHandler.Get)
			r.Post("/live", matchHandler.SetLive)
			r.Post("/events", matchHandler.ApplyEvent)
			r.Get("/scorecard/{innings}", matchHandler.Scorecard)
			r.Get("/available", matchHandler.Available)
			r.Post("/reset", matchHandler.Reset)
			r.Get("/verify", matchHandler.Verify)
			r.Get("/ws", streamHandler.Stream)
		})
	})

	return r
}
