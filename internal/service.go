package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"stashview/internal/backpack"
	"stashview/internal/index"
	"stashview/internal/mcpserver"
	"stashview/internal/render"
	"stashview/internal/stashservice"
)

// NewService builds a stash service from configuration: sprite atlas,
// renderer, and backpack key set.
func NewService(cfg *Config, logger *slog.Logger) (*stashservice.Service, error) {
	atlas, err := render.LoadAtlas(cfg.Render.AssetsDir)
	if err != nil {
		return nil, fmt.Errorf("load atlas: %w", err)
	}
	loc, err := cfg.Render.Location()
	if err != nil {
		return nil, err
	}
	renderer := render.New(atlas, render.Options{
		SlotSize: cfg.Render.SlotSize,
		Columns:  cfg.Render.Columns,
		Location: loc,
	})
	keys := backpack.Keys{
		Contents:    cfg.Keys.Contents,
		AccessLog:   cfg.Keys.AccessLog,
		SearchDepth: cfg.Keys.SearchDepth,
	}
	return stashservice.New(keys, renderer, logger), nil
}

// RunMCP syncs the index once and serves the MCP tools over stdio.
// Logs go to stderr; stdout belongs to the MCP transport.
func RunMCP(_ context.Context, cfg *Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	svc, err := NewService(cfg, logger)
	if err != nil {
		return err
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	if !cfg.Sources.Empty() {
		sources, err := sourceMap(cfg)
		if err != nil {
			return err
		}
		if err := index.Sync(db, svc, sources, logger); err != nil {
			logger.Warn("initial sync failed", slog.String("error", err.Error()))
		}
	}

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(db).ServeStdio()
}
