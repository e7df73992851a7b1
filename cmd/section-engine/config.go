// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/pdiddy/section-engine/internal/blueprint"
	"github.com/pdiddy/section-engine/internal/content"
	"github.com/pdiddy/section-engine/internal/image"
	"github.com/pdiddy/section-engine/internal/logging"
	"github.com/pdiddy/section-engine/internal/panel"
	"github.com/pdiddy/section-engine/internal/permission"
	"github.com/pdiddy/section-engine/internal/section"
	"github.com/pdiddy/section-engine/internal/tmpl"
	"github.com/pdiddy/section-engine/pkg/types"
)

// loadConfig unmarshals the viper configuration and fills in defaults.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := cfgViper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg.WithDefaults(), nil
}

// app holds the opened content index and the section service built on it.
type app struct {
	cfg     types.Config
	store   *content.Store
	service *section.Service
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := content.NewStore(cfg.IndexDir)
	if err != nil {
		return nil, err
	}

	bps := blueprint.NewLoader(cfg.BlueprintsDir)
	pnl := panel.New(cfg.Panel)
	deps := section.Deps{
		Store:       store,
		Permissions: permission.NewEvaluator(cfg.Roles, bps, cfg.Panel.Home, cfg.Panel.Error),
		Renderer:    tmpl.NewRenderer(store),
		Images:      image.NewResolver(store, pnl),
		Blueprints:  bps,
		Panel:       pnl,
	}

	return &app{
		cfg:     cfg,
		store:   store,
		service: section.NewService(deps, cfg.Panel.Language),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// commandContext returns a context carrying the global logger.
func commandContext() context.Context {
	return logging.WithContext(context.Background(), logging.Logger())
}
