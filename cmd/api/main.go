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

	"tradesmarket/internal/adapters"
	"tradesmarket/internal/events"
	apphttp "tradesmarket/internal/http"
	"tradesmarket/internal/http/router"
	"tradesmarket/internal/professionals"
	"tradesmarket/internal/projects"
	"tradesmarket/internal/reviews"
	"tradesmarket/internal/scheduler"
	"tradesmarket/internal/scoring/complexity"
	"tradesmarket/internal/scoring/tradescore"
	"tradesmarket/platform/config"
	"tradesmarket/platform/db"
	"tradesmarket/platform/logger"
	"tradesmarket/platform/metrics"
	"tradesmarket/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	eventBus.Subscribe(events.ProjectAnalyzed{}.EventName(), events.HandlerFunc(recordAnalysis))

	rescoreClient, closeScheduler := initRescoreScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	vocabulary, err := loadVocabulary(cfg)
	if err != nil {
		log.Error("failed to load scoring vocabulary", "error", err)
		panic("failed to load scoring vocabulary: " + err.Error())
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	professionalsModule := professionals.NewModule(pool, tradescore.Default(), val, log)
	professionalsModule.RegisterHandlers(eventBus)
	if rescoreClient != nil {
		professionalsModule.Service().SetRescoreScheduler(rescoreClient)
	}

	// Anti-Corruption Layer: projects and reviews read professionals through adapters
	matchReader := adapters.NewProfessionalMatchReader(professionalsModule.Repository())
	projectsModule := projects.NewModule(pool, complexity.NewAnalyzer(vocabulary), matchReader, eventBus, val, log)

	ownerReader := adapters.NewProfessionalOwnerReader(professionalsModule.Repository())
	reviewsModule := reviews.NewModule(pool, projectsModule.Service(), ownerReader, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			professionalsModule,
			projectsModule,
			reviewsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func recordAnalysis(_ context.Context, event events.Event) error {
	if e, ok := event.(events.ProjectAnalyzed); ok {
		metrics.ProjectAnalysesTotal.WithLabelValues(e.RiskLevel).Inc()
	}
	return nil
}

func loadVocabulary(cfg config.ScoringConfig) (complexity.Vocabulary, error) {
	path := cfg.GetScoringVocabularyFile()
	if path == "" {
		return complexity.DefaultVocabulary(), nil
	}
	return complexity.LoadVocabulary(path)
}

func initRescoreScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; bulk rescoring runs inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize rescore scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
