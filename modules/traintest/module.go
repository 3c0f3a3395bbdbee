// Package traintest provides the train-test evaluation task. Scripts
// usually reach it through the "trainTest" named builder declared in the
// embedded manifest.
package traintest

import (
	"fmt"
	"reflect"

	"github.com/vk/evalforge/internal/builder"
	"github.com/vk/evalforge/internal/typeref"
)

// Type and builder names as they appear in scripts and manifests.
const (
	TypeName    = "traintest.Task"
	BuilderName = "traintest.Builder"
)

// Task describes one train-test evaluation over a data source. The engine
// only collects it; running the evaluation belongs to the caller.
type Task struct {
	name       string
	source     string
	partitions int
	holdout    float64
}

// Name implements task.Task.
func (t *Task) Name() string { return t.name }

// Source returns the name of the data source to evaluate against.
func (t *Task) Source() string { return t.source }

// Partitions returns the crossfold partition count.
func (t *Task) Partitions() int { return t.partitions }

// Holdout returns the per-user holdout fraction.
func (t *Task) Holdout() float64 { return t.holdout }

// Builder builds train-test tasks from script config.
type Builder struct{}

// Build implements builder.Builder.
func (b *Builder) Build(cfg builder.Config) (any, error) {
	name, ok := cfg.String("name")
	if !ok || name == "" {
		return nil, fmt.Errorf("train-test task needs a name")
	}
	source, ok := cfg.String("source")
	if !ok || source == "" {
		return nil, fmt.Errorf("train-test task %q needs a source", name)
	}
	partitions := 5
	if p, ok := cfg.Int("partitions"); ok {
		if p < 1 {
			return nil, fmt.Errorf("train-test task %q: partitions must be positive, got %d", name, p)
		}
		partitions = p
	}
	holdout := 0.2
	if h, ok := cfg.Float("holdout"); ok {
		if h <= 0 || h >= 1 {
			return nil, fmt.Errorf("train-test task %q: holdout must be in (0, 1), got %v", name, h)
		}
		holdout = h
	}
	return &Task{name: name, source: source, partitions: partitions, holdout: holdout}, nil
}

// Module registers the package's types and builders with the engine.
type Module struct{}

// Register implements engine.Module.
func (m *Module) Register(types *typeref.Catalog, builders *builder.Catalog) {
	builders.MustRegister(&builder.Spec{
		Name:    BuilderName,
		Product: reflect.TypeOf(&Task{}),
		New:     func() builder.Builder { return &Builder{} },
	})
	types.MustRegister(&typeref.Info{
		Name:           TypeName,
		GoType:         reflect.TypeOf(&Task{}),
		DefaultBuilder: BuilderName,
	})
}
