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

	"github.com/Sternrassler/edu-cache/pkg/app"
	"github.com/Sternrassler/edu-cache/pkg/config"
	"github.com/Sternrassler/edu-cache/pkg/logging"
	"github.com/Sternrassler/edu-cache/pkg/source"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cache-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.LoggerConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var src app.Source
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			MaxRetries: -1, // reads retry in source.Redis
		})
		defer redisClient.Close()

		r := source.NewRedis(redisClient, cfg.Redis.KeyPrefix)
		if err := r.Ping(ctx); err != nil {
			logger.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
			return err
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
		src = r
	}

	a, err := app.New(*cfg, src, logger)
	if err != nil {
		return err
	}
	if err := a.Initialize(ctx); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Application shutdown failed")
		}
	}()

	report := a.InitializeCache(ctx)
	logger.Info().
		Int("total", report.Total).
		Int("completed", report.Completed).
		Int("failed", report.Failed).
		Msg("Startup preload finished")

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(a, logging.NewLogger(logger, "server")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Starting cache server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("Server failed")
			return err
		}
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
