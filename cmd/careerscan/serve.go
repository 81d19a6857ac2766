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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/user/careerscan/internal/adapter/postgres"
	redis_adapter "github.com/user/careerscan/internal/adapter/redis"
	"github.com/user/careerscan/internal/delivery/http/handler"
	"github.com/user/careerscan/internal/delivery/http/router"
	"github.com/user/careerscan/internal/usecase"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the search HTTP API backed by PostgreSQL and Redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd)
		},
	}
	cmd.Flags().String("port", "", "HTTP listen port")
	return cmd
}

func serve(cmd *cobra.Command) error {
	// --- Configuration ---
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.ServerPort = port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Database Connections ---

	// PostgreSQL
	dbpool, err := pgxpool.New(ctx, cfg.PostgresDSN())
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	defer dbpool.Close()
	if err := postgres.EnsureSchema(ctx, dbpool); err != nil {
		return err
	}
	slog.Info("PostgreSQL connection pool established")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("unable to connect to Redis: %w", err)
	}
	slog.Info("Redis connection established")

	// --- Browser ---
	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	defer renderer.Close()

	// --- Repositories ---
	runRepo := redis_adapter.NewRunRepo(rdb, cfg.ResultTTL())
	jobRecordRepo := postgres.NewJobRecordRepo(dbpool)
	failedURLRepo := postgres.NewFailedURLRepo(dbpool)

	// --- Use Cases ---
	fetcher := usecase.NewBatchFetcher(renderer, usecase.WithConcurrency(cfg.BatchSize))
	searches := usecase.NewSearchManager(fetcher, usecase.SearchSettings{
		BatchSize:         cfg.BatchSize,
		ExclusionPatterns: cfg.ExclusionPatterns,
		MaxRunDuration:    cfg.MaxRunDuration(),
	}, runRepo, jobRecordRepo, failedURLRepo, slog.Default())
	defer searches.Close()

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(searches, map[string]handler.HealthCheck{
		"postgres": dbpool.Ping,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not listen on port %s: %w", cfg.ServerPort, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
