// cmd/ballast/main.go
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tidecraft/ballast/internal/config"
	"github.com/tidecraft/ballast/internal/emulator"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg := config.Default()
	configPath := os.Getenv("BALLAST_CONFIG")
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			logger.Fatal("failed to load config", zap.String("path", configPath), zap.Error(err))
		}
		cfg = loaded
	}
	config.LoadFromEnv(cfg)

	var store emulator.Store
	switch cfg.Store.Driver {
	case "", "memory":
		store = emulator.NewMemoryStore()
		logger.Info("using in-memory properties store")

	case "postgres":
		db, err := sql.Open("postgres", cfg.Store.DSN)
		if err != nil {
			logger.Fatal("failed to open database", zap.Error(err))
		}
		pg := emulator.NewPostgresStore(db, logger)
		if err := pg.Migrate(context.Background()); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
		store = pg
		logger.Info("using postgres properties store")

	default:
		logger.Fatal("invalid store driver", zap.String("driver", cfg.Store.Driver))
	}

	server, err := emulator.NewServer(cfg, logger, store)
	if err != nil {
		logger.Fatal("failed to create server", zap.Error(err))
	}

	// Reload account keys when the config file changes.
	if configPath != "" {
		watcher, err := config.Watch(configPath, logger, server.ApplyConfig)
		if err != nil {
			logger.Warn("config watching disabled", zap.Error(err))
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
		os.Exit(0)
	}()

	if err := server.Start(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
