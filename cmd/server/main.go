package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/dinhcongdat866/moneytracker/internal/adapter/http"
	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/handler"
	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/middleware"
	"github.com/dinhcongdat866/moneytracker/internal/adapter/repository/memory"
	postgresRepo "github.com/dinhcongdat866/moneytracker/internal/adapter/repository/postgres"
	redisRepo "github.com/dinhcongdat866/moneytracker/internal/adapter/repository/redis"
	"github.com/dinhcongdat866/moneytracker/internal/adapter/ws"
	"github.com/dinhcongdat866/moneytracker/internal/backend"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/auth"
	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/config"
	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/eventpublisher"
	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/logger"
	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/metrics"
	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/postgres"
	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/redis"
)

const rateLimitSweep = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zerolog.TimeFieldFormat = time.RFC3339
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
	appLogger.Info().Msg("server stopped")
}

// app is the wired mock backend.
type app struct {
	handler   http.Handler
	publisher *eventpublisher.EventPublisher
	limiter   *middleware.RateLimiter
	hub       *ws.Hub
	bus       *redisRepo.ChangeBus
	closers   []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (*app, error) {
	a := &app{}
	var checks []handler.Check
	serviceOpts := []backend.Option{backend.WithLogger(logger)}

	var repo backend.TransactionRepository
	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		logger.Info().Msg("connected to postgres")

		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			a.close()
			return nil, err
		}
		if cfg.SeedData {
			seedCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
			err := postgresRepo.NewTxManager(pool).Seed(seedCtx, backend.SeedTransactions())
			cancel()
			if err != nil {
				a.close()
				return nil, fmt.Errorf("seed transactions: %w", err)
			}
		}

		repo = postgresRepo.NewTransactionRepository(pool)
		serviceOpts = append(serviceOpts, backend.WithRetrier(postgresRepo.NewRetrier(logger)))
		checks = append(checks, handler.Check{Name: "postgres", Ping: pool.Ping})
	default:
		var seed []domain.Transaction
		if cfg.SeedData {
			seed = backend.SeedTransactions()
		}
		repo = memory.NewTransactionRepository(seed)
	}

	var idempotency backend.IdempotencyStore = memory.NewIdempotencyStore()
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		logger.Info().Msg("connected to redis")

		idempotency = redisRepo.NewIdempotencyStore(client)
		a.bus = redisRepo.NewChangeBus(client, cfg.ChangeChannel, logger)
		checks = append(checks, handler.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
	}

	a.hub = ws.NewHub(logger)
	a.closers = append(a.closers, a.hub.Close)

	toHub := eventpublisher.SinkFunc(func(ctx context.Context, ev domain.ChangeEvent) error {
		a.hub.Publish(ctx, ev)
		m.ChangePublished(ev.Type)
		m.FeedClients.Set(float64(a.hub.ClientCount()))
		return nil
	})
	sinks := []eventpublisher.Sink{eventpublisher.NewLogSink(logger)}
	if a.bus != nil {
		// Every instance, this one included, relays bus traffic to its hub.
		sinks = append(sinks, a.bus)
	} else {
		sinks = append(sinks, toHub)
	}
	a.publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{Sinks: sinks, Logger: logger})
	if a.bus != nil {
		if err := a.bus.Subscribe(ctx, func(ctx context.Context, ev domain.ChangeEvent) {
			_ = toHub(ctx, ev)
		}); err != nil {
			a.close()
			return nil, err
		}
	}
	serviceOpts = append(serviceOpts, backend.WithPublisher(a.publisher))

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	var verifier ws.TokenVerifier
	if cfg.AuthRequired {
		verifier = jwtManager
	}

	if cfg.RateLimitRPS > 0 {
		a.limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(
			backend.NewTransactionService(repo, postgresRepo.NewULIDGenerator(), serviceOpts...),
		),
		DashboardHandler: handler.NewDashboardHandler(backend.NewDashboardService(repo)),
		AuthHandler:      handler.NewAuthHandler(jwtManager),
		HealthHandler:    handler.NewHealthHandler(checks...),
		ChangeFeed:       ws.NewHandler(a.hub, verifier, cfg.WSAllowedOrigins, logger),
		IdempotencyStore: idempotency,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		JWTManager:       jwtManager,
		AuthRequired:     cfg.AuthRequired,
		RateLimiter:      a.limiter,
		Logger:           logger,
	})

	return a, nil
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	a, err := newApp(ctx, cfg, logger, metrics.New(nil))
	if err != nil {
		return err
	}
	defer a.close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("port", cfg.HTTPPort).
			Str("storage", cfg.Storage).
			Bool("auth_required", cfg.AuthRequired).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := a.publisher.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if a.limiter != nil {
		g.Go(func() error {
			a.limiter.Run(gctx, rateLimitSweep, 10*time.Minute)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		a.hub.Close()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
