// Package app wires the configuration engine into a runnable host
// application: logger, compiled-in modules, resource roots, and the CLI's
// view of a run.
package app

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/vk/evalforge/internal/builder"
	"github.com/vk/evalforge/internal/ctxlog"
	"github.com/vk/evalforge/internal/engine"
	"github.com/vk/evalforge/internal/fsutil"
	"github.com/vk/evalforge/internal/resources"
	"github.com/vk/evalforge/internal/typeref"
)

// embeddedResources carries the compiled-in default manifests. It is
// always the first resource root, so any host-supplied root overrides it.
//
//go:embed resources
var embeddedResources embed.FS

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	engine *engine.Engine
}

// NewApp constructs a fully wired application: isolated logger, registered
// modules, resource roots, and an engine with its defaults loaded.
// Additional modules extend the compiled-in set; passing none uses the
// core modules alone.
func NewApp(outW io.Writer, cfg *Config, extra ...engine.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	types := typeref.NewCatalog()
	builders := builder.NewCatalog()
	mods := append(append([]engine.Module{}, coreModules...), extra...)
	for _, mod := range mods {
		mod.Register(types, builders)
	}
	logger.Debug("Modules registered.", "count", len(mods), "builders", builders.Names())

	roots := []fs.FS{mustSubFS(embeddedResources, "resources")}
	for _, dir := range cfg.ResourceRoots {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("resource root %s: %w", dir, err)
		}
		roots = append(roots, os.DirFS(dir))
	}
	loc := resources.NewFSLocator(roots...)

	eng, err := engine.New(ctx, types, builders, loc)
	if err != nil {
		return nil, fmt.Errorf("construct engine: %w", err)
	}
	logger.Debug("Engine constructed, builder defaults loaded.")

	return &App{outW: outW, logger: logger, config: cfg, engine: eng}, nil
}

// Engine returns the application's engine. This is primarily for testing.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Run loads the configured script and reports the environment it produced.
// A directory path runs every script found under it, in sorted order, each
// in its own isolated run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	scripts, err := a.resolveScripts()
	if err != nil {
		return err
	}

	for _, path := range scripts {
		env, err := a.engine.Load(ctx, path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}

		a.logger.Info("Script run complete.", "script", path, "tasks", len(env.Tasks))
		fmt.Fprintf(a.outW, "Loaded %d task(s) from %s\n", len(env.Tasks), path)
		for i, t := range env.Tasks {
			fmt.Fprintf(a.outW, "  %d. %s\n", i+1, t.Name())
		}
		if env.Result != nil {
			fmt.Fprintf(a.outW, "Result: %v\n", env.Result)
		}
	}
	return nil
}

// resolveScripts expands the configured path into the list of script files
// to run.
func (a *App) resolveScripts() ([]string, error) {
	info, err := os.Stat(a.config.ScriptPath)
	if err != nil {
		return nil, fmt.Errorf("script path %s: %w", a.config.ScriptPath, err)
	}
	if !info.IsDir() {
		return []string{a.config.ScriptPath}, nil
	}
	scripts, err := fsutil.FindFilesByExtension(a.config.ScriptPath, ".hcl", ".go")
	if err != nil {
		return nil, fmt.Errorf("scan script directory %s: %w", a.config.ScriptPath, err)
	}
	if len(scripts) == 0 {
		a.logger.Warn("No scripts found at the specified path.", "path", a.config.ScriptPath)
	}
	return scripts, nil
}

func mustSubFS(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
