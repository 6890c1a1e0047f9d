package main

import (
	"context"
	"os"

	"kanban-backend/internal/config"
	"kanban-backend/internal/logger"
	"kanban-backend/internal/storage"
)

// migrate creates the task table if it is missing. Opening the store is
// enough; running it against an existing database changes nothing.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Error(ctx, err, "load config")
		os.Exit(1)
	}
	if err := cfg.ApplyLogging(); err != nil {
		logger.Error(ctx, err, "configure logging")
		os.Exit(1)
	}
	if cfg.Storage.Driver == storage.DriverMemory {
		logger.Warn(ctx, "memory storage has no schema to create")
		return
	}

	store, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		logger.Error(ctx, err, "open database", "driver", cfg.Storage.Driver)
		os.Exit(1)
	}
	defer store.Close()

	logger.Info(ctx, "schema ready", "driver", cfg.Storage.Driver)
}
