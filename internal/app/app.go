package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/filtergrid/internal/config"
	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/specialistvlad/filtergrid/internal/engine"
	"github.com/specialistvlad/filtergrid/internal/metrics"
	"github.com/specialistvlad/filtergrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	ctx        context.Context
	config     *Config
	registry   *registry.Registry
	engine     *engine.Engine
	metrics    *metrics.Registry
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. It panics if the schema cannot be loaded or fails
// validation, since both are startup errors.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var paths []string
	if cfg.ManifestsPath != "" {
		paths = append(paths, cfg.ManifestsPath)
	}
	model, err := loader.Load(ctx, paths...)
	if err != nil {
		panic(fmt.Errorf("failed to load schema: %w", err))
	}
	logger.Debug("Schema loaded.", "node_types", len(model.NodeTypes), "attribute_types", len(model.AttributeTypes))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	reg.PopulateFromModel(model)
	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	m := metrics.NewRegistry()
	return &App{
		outW:     outW,
		logger:   logger,
		ctx:      ctx,
		config:   cfg,
		registry: reg,
		engine:   engine.New(reg, engine.WithMetrics(m)),
		metrics:  m,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Engine returns the engine holding the loaded graph.
func (a *App) Engine() *engine.Engine {
	return a.engine
}
