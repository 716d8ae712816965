package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/artifactgraphgo/internal/config"
	"github.com/vk/artifactgraphgo/internal/ctxlog"
	"github.com/vk/artifactgraphgo/internal/engine"
	"github.com/vk/artifactgraphgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle. One App carries one compiled graph; it can run it any number
// of times.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	engine *engine.Engine

	health *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry,
// with the graph loaded, validated, and compiled against the registered
// handlers.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load all configuration into the format-agnostic model first.
	model, err := loader.Load(ctx, cfg.GraphPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Graph configuration loaded.",
		"artifacts", len(model.Artifacts), "builders", len(model.Builders), "conditions", len(model.Conditions))

	// Create and populate the registry with Go handlers.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	// Validate the graph against the registered handlers.
	if err := reg.Validate(ctx, model); err != nil {
		// This is a programmer error (mismatch between code and config), so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	compiled, err := reg.Compile(ctx, model)
	if err != nil {
		panic(fmt.Errorf("failed to compile graph: %w", err))
	}
	logger.Debug("Graph compiled.",
		"builders", len(compiled.Builders), "conditions", len(compiled.Conditions))

	eng, err := engine.New(compiled.Builders,
		engine.WithDefinitions(compiled.Definitions),
		engine.WithConditions(compiled.Conditions...),
		engine.WithConcurrency(cfg.WorkerCount),
	)
	if err != nil {
		panic(fmt.Errorf("failed to assemble engine: %w", err))
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		engine: eng,
	}
}

// Engine returns the application's engine. This is primarily for testing.
func (a *App) Engine() *engine.Engine {
	return a.engine
}
