// Package engine is the facade external callers use: it owns the builder
// registry and named-builder catalog for the process lifetime, routes
// script sources to the right frontend, and packages each run's declared
// tasks into an environment.
package engine

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vk/evalforge/internal/builder"
	"github.com/vk/evalforge/internal/catalog"
	"github.com/vk/evalforge/internal/ctxlog"
	"github.com/vk/evalforge/internal/goscript"
	"github.com/vk/evalforge/internal/hclscript"
	"github.com/vk/evalforge/internal/registry"
	"github.com/vk/evalforge/internal/resources"
	"github.com/vk/evalforge/internal/runscope"
	"github.com/vk/evalforge/internal/script"
	"github.com/vk/evalforge/internal/task"
	"github.com/vk/evalforge/internal/typeref"
)

// Module is a compiled-in bundle of types and builders. The host registers
// its modules once, before constructing the engine.
type Module interface {
	Register(types *typeref.Catalog, builders *builder.Catalog)
}

// Engine loads and executes configuration scripts. It is safe for
// concurrent Load calls: the registry guards its own state and every run
// gets an isolated task scope.
type Engine struct {
	types    *typeref.Catalog
	builders *builder.Catalog
	registry *registry.Registry
	catalog  *catalog.Catalog
	runner   *script.Runner

	goFrontend  script.Frontend
	hclFrontend script.Frontend
}

// New wires an engine over the host's catalogs and resource space, and
// merges the defaults manifests into the registry. It must complete before
// the engine is shared.
func New(ctx context.Context, types *typeref.Catalog, builders *builder.Catalog, loc resources.Locator) (*Engine, error) {
	reg := registry.New(types, builders)
	if err := reg.LoadDefaults(ctx, loc); err != nil {
		return nil, fmt.Errorf("load builder defaults: %w", err)
	}
	return &Engine{
		types:       types,
		builders:    builders,
		registry:    reg,
		catalog:     catalog.New(loc, builders),
		runner:      script.NewRunner(),
		goFrontend:  goscript.NewFrontend(),
		hclFrontend: hclscript.NewFrontend(),
	}, nil
}

// Load reads, compiles and executes a script file and returns the
// environment it produced.
func (e *Engine) Load(ctx context.Context, path string) (*script.Environment, error) {
	ctxlog.FromContext(ctx).Debug("Loading script file.", "path", path)
	src, err := script.FileSource(path)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, src)
}

// LoadReader executes a script from a stream. The name selects the
// frontend by extension and labels diagnostics.
func (e *Engine) LoadReader(ctx context.Context, name string, r io.Reader) (*script.Environment, error) {
	ctxlog.FromContext(ctx).Debug("Loading script stream.", "name", name)
	src, err := script.ReaderSource(name, r)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, src)
}

func (e *Engine) run(ctx context.Context, src *script.Source) (*script.Environment, error) {
	prog, err := e.frontendFor(src.Name).Compile(src)
	if err != nil {
		return nil, err
	}
	return e.runner.Execute(ctx, &script.Compiled{Source: src, Program: prog}, e)
}

// frontendFor picks the scripting surface by file extension: .hcl is the
// declarative surface, everything else is a Go-syntax script.
func (e *Engine) frontendFor(name string) script.Frontend {
	if strings.EqualFold(filepath.Ext(name), ".hcl") {
		return e.hclFrontend
	}
	return e.goFrontend
}

// RegisterBuilder maps a target type name to a builder spec. Last write
// wins, matching the registry's one-to-one mapping contract.
func (e *Engine) RegisterBuilder(typeName string, spec *builder.Spec) error {
	return e.registry.Register(typeName, spec)
}

// GetBuilderForType resolves the builder for a target type name. Absence
// is a normal outcome, not an error.
func (e *Engine) GetBuilderForType(ctx context.Context, typeName string) (*builder.Spec, bool) {
	return e.registry.Resolve(ctx, typeName)
}

// GetBuilder resolves a builder by its short name via the named-builder
// catalog.
func (e *Engine) GetBuilder(ctx context.Context, name string) (*builder.Spec, error) {
	return e.catalog.Find(ctx, name)
}

// RegisterTask reports a task to the run in progress on this context.
// Outside a run it does nothing, so task-producing code may be invoked
// from any call path.
func (e *Engine) RegisterTask(ctx context.Context, t task.Task) {
	runscope.Register(ctx, t)
}

// --- script.Host ---

// BindBuilder implements the script-facing registration: both the type and
// the builder are referred to by name.
func (e *Engine) BindBuilder(typeName, builderName string) error {
	spec, ok := e.builders.Lookup(builderName)
	if !ok {
		return fmt.Errorf("%w: builder %q is not registered", registry.ErrInvalidArgument, builderName)
	}
	return e.registry.Register(typeName, spec)
}

// BuilderForType implements script.Host.
func (e *Engine) BuilderForType(ctx context.Context, typeName string) (*builder.Spec, bool) {
	return e.GetBuilderForType(ctx, typeName)
}

// NamedBuilder implements script.Host.
func (e *Engine) NamedBuilder(ctx context.Context, name string) (*builder.Spec, error) {
	return e.GetBuilder(ctx, name)
}

// Build implements script.Host: named-builder lookup, construction, and
// automatic task registration for products that are tasks.
func (e *Engine) Build(ctx context.Context, name string, cfg builder.Config) (any, error) {
	spec, err := e.catalog.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, fmt.Errorf("no builder named %q", name)
	}
	return e.build(ctx, spec, cfg)
}

// BuildFor implements script.Host: type-resolved construction.
func (e *Engine) BuildFor(ctx context.Context, typeName string, cfg builder.Config) (any, error) {
	spec, ok := e.registry.Resolve(ctx, typeName)
	if !ok {
		return nil, fmt.Errorf("no builder for type %q", typeName)
	}
	return e.build(ctx, spec, cfg)
}

func (e *Engine) build(ctx context.Context, spec *builder.Spec, cfg builder.Config) (any, error) {
	product, err := spec.New().Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("builder %s: %w", spec.Name, err)
	}
	if t, ok := product.(task.Task); ok {
		e.RegisterTask(ctx, t)
	}
	return product, nil
}
