package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"StudentShowcase/internal/config"
	"StudentShowcase/internal/infrastructure/storage"
	"StudentShowcase/internal/logging"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	if err := run(cfg, logger); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if !cfg.Remote.Valid() {
		logger.Info("remote store not configured, skipping seeding")
		return nil
	}
	cfg.Remote.Migrate = true

	stores, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Warn("close storage", "error", err)
		}
	}()

	added, err := storage.SeedStories(ctx, stores.Admin, logger)
	if err != nil {
		return err
	}
	logger.Info("seeding completed", "added", added)
	return nil
}
