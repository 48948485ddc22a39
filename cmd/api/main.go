package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/folio-track/folio_api/internal/config"
	"github.com/folio-track/folio_api/internal/identity"
	"github.com/folio-track/folio_api/internal/infra"
	"github.com/folio-track/folio_api/internal/logging"
	"github.com/folio-track/folio_api/internal/portfolio"
	"github.com/folio-track/folio_api/internal/routes"
	"github.com/folio-track/folio_api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.AppName, cfg.LogLevel)

	// run returns only after every opened client is closed.
	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited cleanly")
}

func run(cfg config.Config, logger *slog.Logger) error {
	deps, cleanup, err := setup(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv, err := server.New(deps)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// setup opens the backends selected by cfg and returns the route
// dependencies with a cleanup that closes them in reverse order. On error
// everything opened so far is already closed.
func setup(ctx context.Context, cfg config.Config, logger *slog.Logger) (deps routes.Deps, cleanup func(), err error) {
	var closers []func()
	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		closers = nil
	}
	defer func() {
		if err != nil {
			cleanup()
		}
	}()

	deps = routes.Deps{Cfg: cfg, Logger: logger, Checks: map[string]routes.HealthCheck{}}

	var fb *infra.Firebase
	if cfg.UsesFirebase() {
		fb = infra.NewFirebase(cfg.CredentialsFile, cfg.ProjectID)
		if _, err := fb.App(ctx); err != nil {
			return deps, cleanup, fmt.Errorf("init firebase: %w", err)
		}
		closers = append(closers, func() {
			if err := fb.Close(); err != nil {
				logger.Warn("close firestore", "error", err)
			}
		})
		logger.Info("firebase initialized", "credentials", cfg.CredentialsFile)
	}

	switch cfg.Verifier {
	case config.VerifierFirebase:
		if _, err := fb.Auth(ctx); err != nil {
			return deps, cleanup, fmt.Errorf("init firebase auth: %w", err)
		}
		deps.Tokens = identity.NewFirebaseTokenVerifier(fb)
	case config.VerifierHS256:
		logger.Warn("using local hs256 token verifier")
		deps.Tokens = identity.NewHS256TokenVerifier(cfg.HS256Secret)
	default:
		return deps, cleanup, fmt.Errorf("unknown token verifier %q", cfg.Verifier)
	}

	switch cfg.StoreBackend {
	case config.StoreFirestore:
		if _, err := fb.Firestore(ctx); err != nil {
			return deps, cleanup, fmt.Errorf("init firestore: %w", err)
		}
		deps.Entries = portfolio.NewFirestoreRepository(fb)
	case config.StorePostgres:
		db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return deps, cleanup, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, db.Close)
		deps.Entries = portfolio.NewPostgresRepository(db)
		deps.Checks["postgres"] = db.Ping
	case config.StoreMemory:
		logger.Warn("using in-memory entry store; data is lost on exit")
		deps.Entries = portfolio.NewMemoryRepository()
	default:
		return deps, cleanup, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return deps, cleanup, fmt.Errorf("connect redis: %w", err)
	}
	if cache != nil {
		closers = append(closers, func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		})
		deps.Cache = cache
		deps.Checks["redis"] = func(ctx context.Context) error { return cache.Ping(ctx).Err() }
	}

	return deps, cleanup, nil
}
