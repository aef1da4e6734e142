package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gorilla/mux"

	"financas/internal/category"
	"financas/internal/dashboard"
	"financas/internal/extract"
	"financas/internal/server"
	"financas/pkg/config"
)

// Dependencies wires the application graph.
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger
	Server *server.Server
}

func buildDependencies() (*Dependencies, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	registry, err := dashboard.ScanDataDir(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("scan data dir: %w", err)
	}
	logger.Info("documents discovered",
		slog.Int("months", len(registry)),
		slog.String("dir", cfg.Data.Dir),
	)

	if err := os.MkdirAll(cfg.Data.ConfigDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	store := category.NewStore(cfg.Data.ConfigDir)

	svc := dashboard.NewService(registry, &extract.Adapter{}, store, logger)

	router := mux.NewRouter()
	dashboard.NewHandler(svc, store, logger).Register(router)

	return &Dependencies{
		Config: cfg,
		Logger: logger,
		Server: server.New(cfg, router, logger),
	}, nil
}
