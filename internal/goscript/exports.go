package goscript

import (
	"context"
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"

	"github.com/vk/evalforge/internal/builder"
	"github.com/vk/evalforge/internal/script"
	"github.com/vk/evalforge/internal/task"
)

// evalPkg is the import path scripts use to reach the engine. The doubled
// last segment is yaegi's package-path/package-name convention.
const evalPkg = "eval/eval"

// hostExports builds the "eval" package for one run. Every callback closes
// over the run's context, so task registrations land in the right scope.
func hostExports(ctx context.Context, host script.Host) interp.Exports {
	return interp.Exports{
		evalPkg: {
			// RegisterTask declares a task by name.
			"RegisterTask": reflect.ValueOf(func(name string) {
				host.RegisterTask(ctx, task.Named{TaskName: name})
			}),
			// RegisterBuilder maps a target type name to a builder name.
			"RegisterBuilder": reflect.ValueOf(func(typeName, builderName string) error {
				return host.BindBuilder(typeName, builderName)
			}),
			// Build constructs via a named builder; task products are
			// registered with the run automatically.
			"Build": reflect.ValueOf(func(name string, cfg map[string]any) (any, error) {
				return host.Build(ctx, name, builder.Config(cfg))
			}),
			// BuildFor constructs via type-based builder resolution.
			"BuildFor": reflect.ValueOf(func(typeName string, cfg map[string]any) (any, error) {
				return host.BuildFor(ctx, typeName, builder.Config(cfg))
			}),
			// BuilderForType reports the builder resolved for a type name.
			"BuilderForType": reflect.ValueOf(func(typeName string) (string, bool) {
				spec, ok := host.BuilderForType(ctx, typeName)
				if !ok {
					return "", false
				}
				return spec.Name, true
			}),
			// NamedBuilder reports the builder behind a short name, or ""
			// when the name is unknown.
			"NamedBuilder": reflect.ValueOf(func(name string) (string, error) {
				spec, err := host.NamedBuilder(ctx, name)
				if err != nil {
					return "", err
				}
				if spec == nil {
					return "", nil
				}
				return spec.Name, nil
			}),
		},
	}
}

// noHostExports provides the same symbols with stub bindings, enough for
// the compile-time import check. Calling them is a bug.
func noHostExports() interp.Exports {
	return interp.Exports{
		evalPkg: {
			"RegisterTask":    reflect.ValueOf(func(string) { panic(errCompileOnly) }),
			"RegisterBuilder": reflect.ValueOf(func(string, string) error { panic(errCompileOnly) }),
			"Build":           reflect.ValueOf(func(string, map[string]any) (any, error) { panic(errCompileOnly) }),
			"BuildFor":        reflect.ValueOf(func(string, map[string]any) (any, error) { panic(errCompileOnly) }),
			"BuilderForType":  reflect.ValueOf(func(string) (string, bool) { panic(errCompileOnly) }),
			"NamedBuilder":    reflect.ValueOf(func(string) (string, error) { panic(errCompileOnly) }),
		},
	}
}

var errCompileOnly = fmt.Errorf("eval symbols are not bound outside a run")
