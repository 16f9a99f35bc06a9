package cmd

import (
	"context"
	"fmt"

	"library-manager/core/config"
	"library-manager/core/database"
	"library-manager/core/logger"
	"library-manager/core/storage"
	"library-manager/feature/library"
	"library-manager/feature/migration"

	"go.uber.org/zap"
)

// environment is what the one-shot commands need to reach the library.
type environment struct {
	cfg       *config.Config
	log       *zap.Logger
	repo      *library.Repository
	migration *migration.Service
}

// openEnvironment loads configuration and connects to the library database and
// cover storage. Unlike the server, commands fail when the database is down.
func openEnvironment(ctx context.Context) (*environment, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := library.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to prepare library schema: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}

	svc, _, err := migration.Setup(ctx, migration.Options{
		DB:      db,
		Storage: client,
		Bucket:  cfg.Storage.Bucket,
		Config:  cfg.Migration,
		Logger:  l,
	})
	if err != nil {
		return nil, err
	}

	return &environment{cfg: cfg, log: l, repo: library.NewRepository(db), migration: svc}, nil
}
