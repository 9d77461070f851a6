package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"plum/internal/backend"
	"plum/internal/config"
	"plum/internal/db"
	"plum/internal/jobs"
	"plum/internal/logger"
	"plum/internal/metrics"
	"plum/internal/onboarding"
	"plum/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	logger.Init(cfg)

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		fatal("failed to load YAML config", err)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer database.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		fatal("failed to run migrations", err)
	}
	slog.Info("migrations completed successfully")

	metrics.Init(database)

	backendClient := backend.NewClient(cfg.BackendURL, cfg.BackendAPIKey, cfg.BackendTimeout)

	storage := server.NewStorage(cfg)
	var tourStore onboarding.Storage = db.NewFlagStorage(database)
	if storage != nil {
		slog.Info("using Redis for sessions and onboarding state")
		tourStore = storage
	}
	tours := onboarding.NewTracker(tourStore, yamlCfg, 0)

	srv := server.New(cfg, storage)
	if err := srv.RegisterRoutes(ctx, server.Deps{
		DB:      database,
		Backend: backendClient,
		Tours:   tours,
		YAML:    yamlCfg,
	}); err != nil {
		fatal("failed to register routes", err)
	}

	if cfg.StatsRefreshInterval > 0 {
		refresher := jobs.NewKeywordStatsRefresher(database, backendClient, yamlCfg.Counting, yamlCfg.Posts.Limit, cfg.StatsRefreshInterval)
		go refresher.Start(ctx)
	}

	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	cancel()
	if err := srv.Shutdown(); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	slog.Info("server exited")
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
