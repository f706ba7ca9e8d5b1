package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpattn/bookmarks/internal/cache"
	"github.com/rpattn/bookmarks/internal/collection"
	"github.com/rpattn/bookmarks/internal/config"
	"github.com/rpattn/bookmarks/internal/db"
	"github.com/rpattn/bookmarks/internal/ingestion"
	"github.com/rpattn/bookmarks/internal/logging"
	"github.com/rpattn/bookmarks/internal/query"
	"github.com/rpattn/bookmarks/internal/repository"
)

// app holds the wired services shared by the subcommands.
type app struct {
	cfg        config.Config
	logger     *slog.Logger
	conn       *db.Connection
	repo       repository.ItemRepository
	cache      cache.Store
	engine     *query.Engine
	collection *collection.Service
	ingestion  *ingestion.Service
}

func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return config.Config{}, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	switch cfg.Storage.Driver {
	case "memory":
		a.repo = repository.NewMemoryItemRepository()
	default:
		conn, err := db.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.conn = conn
		a.repo = repository.NewPostgresItemRepository(db.New(conn.Pool))
	}

	store, err := cache.New(ctx, cfg.Cache.Options())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.cache = store

	a.engine = query.NewEngine(query.WithCategoryField(cfg.Query.CategoryField))
	a.collection = collection.NewService(a.repo, a.cache, a.engine, cfg.Storage.Collections, logger)
	a.ingestion = ingestion.NewService(a.collection, logger)

	if cfg.Storage.Driver == "memory" && cfg.Storage.SeedFile != "" {
		if err := a.seed(ctx, cfg.Storage.SeedFile); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

// seed loads a dataset file into the collection named after the file.
func (a *app) seed(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	summary, err := a.ingestion.Import(ctx, ingestion.Request{
		Collection: name,
		FileName:   path,
		Data:       file,
	})
	if err != nil {
		return fmt.Errorf("failed to seed %q: %w", name, err)
	}
	a.logger.Info("seeded collection", slog.String("collection", name), slog.Int("rows", summary.ImportedRows))
	return nil
}

func (a *app) Close() {
	if closer, ok := a.cache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("failed to close cache", slog.Any("error", err))
		}
	}
	if a.conn != nil {
		a.conn.Close()
	}
}
