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

	httpadapter "soulboard/internal/adapter/http"
	"soulboard/internal/adapter/logpub"
	"soulboard/internal/adapter/memory"
	natspub "soulboard/internal/adapter/nats"
	"soulboard/internal/adapter/postgres"
	"soulboard/internal/adapter/usecase"
	"soulboard/internal/config"
	"soulboard/internal/config/configs"
	"soulboard/internal/core/domain"
	"soulboard/internal/core/port"
	"soulboard/internal/db"
)

// main is the entry point of the soulboard settlement service. It loads
// configuration, builds the storage and publisher adapters, optionally seeds
// demo data, then serves HTTP until a termination signal arrives.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		return
	}

	var logger *slog.Logger
	{
		var handler slog.Handler
		level := cfg.Log.SlogLevel()
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		default:
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler).With(slog.String("env", cfg.Env))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage error", slog.Any("error", err))
		return
	}
	defer closeStore()

	var publisher port.EventPublisher = logpub.New(logger, slog.LevelInfo)
	if cfg.NATS.Enabled {
		pub, nc, err := natspub.Connect(ctx, cfg.NATS, logger)
		if err != nil {
			logger.Error("nats connection error", slog.Any("error", err))
			return
		}
		defer nc.Close()
		publisher = pub
		logger.Info("publishing events to nats",
			slog.String("stream", cfg.NATS.Stream),
			slog.String("subjects", natspub.SubjectFilter(cfg.NATS.SubjectPrefix)))
	}

	operator := domain.Principal(cfg.Settlement.Operator)
	svc := usecase.NewMarketplaceUseCase(store, publisher, logger, usecase.Options{
		Operator:             operator,
		GuardRepeatedPayouts: cfg.Settlement.GuardRepeatedPayouts,
	})

	if cfg.Settlement.SeedDemo {
		if _, err = db.Seed(ctx, svc, operator, logger); err != nil {
			logger.Error("seed error", slog.Any("error", err))
			return
		}
	}

	handler := httpadapter.NewHandler(svc, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err = <-serveErr:
		logger.Error("server error", slog.Any("error", err))
		return
	case <-ctx.Done():
		exitCode = 0
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer stop()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		exitCode = 1
	} else {
		logger.Info("server gracefully stopped")
	}
}

// openStore builds the configured storage driver. The returned func releases
// its resources.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (port.Store, func(), error) {
	driver, err := cfg.Storage.Normalized()
	if err != nil {
		return nil, nil, err
	}
	if driver == configs.StorageMemory {
		logger.Warn("using in-memory storage, state is lost on exit")
		return memory.NewStore(), func() {}, nil
	}

	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String(), logger); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection: %w", err)
	}
	return postgres.NewStore(pool), pool.Close, nil
}
