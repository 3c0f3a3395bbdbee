// Package script defines the seam between the configuration engine and the
// scripting technology used to author configuration.
//
// A Frontend compiles an opaque Source into a Program; a Program drives the
// engine back through the Host callback surface. Everything the engine
// knows about scripting fits in these three interfaces, so frontends can be
// swapped without touching builder resolution or task accumulation.
package script

import (
	"context"

	"github.com/vk/evalforge/internal/builder"
	"github.com/vk/evalforge/internal/task"
)

// Host is the callback surface a running script drives. The engine
// implements it; frontends forward script actions through it.
type Host interface {
	// RegisterTask reports a task to the enclosing run. Outside a run it
	// is a no-op.
	RegisterTask(ctx context.Context, t task.Task)

	// BindBuilder maps a target type name to a builder name.
	BindBuilder(typeName, builderName string) error

	// BuilderForType resolves the builder for a target type name. Absence
	// is a normal outcome.
	BuilderForType(ctx context.Context, typeName string) (*builder.Spec, bool)

	// NamedBuilder resolves a builder by short name. (nil, nil) means no
	// such name; an error means the name's manifest is broken.
	NamedBuilder(ctx context.Context, name string) (*builder.Spec, error)

	// Build resolves a named builder, constructs its product with the
	// given config, and registers the product with the run when it is a
	// task.
	Build(ctx context.Context, name string, cfg builder.Config) (any, error)

	// BuildFor is Build with type-based resolution instead of a name.
	BuildFor(ctx context.Context, typeName string, cfg builder.Config) (any, error)
}

// Program is a compiled script, ready to execute against a Host. Run is
// synchronous and single-pass; its return value becomes the environment's
// result.
type Program interface {
	Run(ctx context.Context, host Host) (any, error)
}

// Frontend compiles sources for one scripting surface.
type Frontend interface {
	Compile(src *Source) (Program, error)
}

// Environment is the immutable product of one successful run: the tasks
// the script declared, in declaration order, and its return value.
type Environment struct {
	Tasks  []task.Task
	Result any
}
