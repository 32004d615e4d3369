package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/specialistvlad/stepsolver/internal/ctxlog"
	"github.com/specialistvlad/stepsolver/internal/loader"
	"github.com/specialistvlad/stepsolver/internal/solution"
)

// SystemLoader reads system definitions from paths.
type SystemLoader interface {
	Load(ctx context.Context, paths ...string) (*loader.System, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	system *loader.System
	runID  string
}

// NewApp loads the configured system files. Results are written to outW and
// logs to logW.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config, l SystemLoader) (*App, error) {
	runID := uuid.NewString()
	ctx = ctxlog.With(ctxlog.WithLogger(ctx, newLogger(cfg, logW)), "run_id", runID)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Logger configured successfully.")

	system, err := l.Load(ctx, cfg.SystemPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load system: %w", err)
	}
	logger.Debug("System loaded.", "files", len(system.Sources), "equations", len(system.Equations))

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		system: system,
		runID:  runID,
	}, nil
}

// RunID identifies this App in its logs and reports.
func (a *App) RunID() string {
	return a.runID
}

// System returns the loaded system definition.
func (a *App) System() *loader.System {
	return a.system
}

// Solution builds a solution from the loaded system and applies its renames
// to both the equations and the parameters.
func (a *App) Solution(ctx context.Context) (*solution.Solution, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	steps, err := a.system.Steps()
	if err != nil {
		return nil, err
	}
	s := solution.New(steps, a.system.Parameters)

	if len(a.system.Rename) > 0 && len(steps) > 0 {
		if _, err := s.TranslateVariables(ctx, a.system.Rename); err != nil {
			return nil, fmt.Errorf("renaming variables: %w", err)
		}
	}
	if len(a.system.Rename) > 0 && len(a.system.Parameters) > 0 {
		if _, err := s.TranslateParameters(ctx, a.system.Rename); err != nil {
			return nil, fmt.Errorf("renaming parameters: %w", err)
		}
	}
	return s, nil
}
