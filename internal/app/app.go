package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/layerconf/internal/config"
	"github.com/vk/layerconf/internal/ctxlog"
	"github.com/vk/layerconf/internal/engine"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: one configuration load followed by one resolution.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	engine *engine.Engine
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a loaded
// engine, or the fatal load error.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	eng, err := engine.Load(ctx, loader, appConfig.ConfigPath, appConfig.Profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and merged.", "root", appConfig.ConfigPath, "profiles", appConfig.Profiles)

	return &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		engine: eng,
	}, nil
}

// Engine returns the application's loaded engine. This is primarily for testing.
func (a *App) Engine() *engine.Engine {
	return a.engine
}
