package goscript

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/evalforge/internal/builder"
	"github.com/vk/evalforge/internal/script"
	"github.com/vk/evalforge/internal/task"
)

// fakeHost records every callback the script makes.
type fakeHost struct {
	tasks    []string
	bindings map[string]string
	builds   []string
	buildErr error
}

func newFakeHost() *fakeHost {
	return &fakeHost{bindings: map[string]string{}}
}

func (h *fakeHost) RegisterTask(_ context.Context, t task.Task) {
	h.tasks = append(h.tasks, t.Name())
}

func (h *fakeHost) BindBuilder(typeName, builderName string) error {
	h.bindings[typeName] = builderName
	return nil
}

func (h *fakeHost) BuilderForType(_ context.Context, typeName string) (*builder.Spec, bool) {
	name, ok := h.bindings[typeName]
	if !ok {
		return nil, false
	}
	return &builder.Spec{Name: name}, true
}

func (h *fakeHost) NamedBuilder(context.Context, string) (*builder.Spec, error) {
	return nil, nil
}

func (h *fakeHost) Build(_ context.Context, name string, _ builder.Config) (any, error) {
	h.builds = append(h.builds, name)
	return nil, h.buildErr
}

func (h *fakeHost) BuildFor(context.Context, string, builder.Config) (any, error) {
	return nil, nil
}

func TestCompile(t *testing.T) {
	f := NewFrontend()

	t.Run("valid script compiles", func(t *testing.T) {
		_, err := f.Compile(&script.Source{Name: "ok.go", Data: []byte(`
package main

import "eval"

func Configure() {
	eval.RegisterTask("noop")
}
`)})
		require.NoError(t, err)
	})

	t.Run("syntax error is a compile error", func(t *testing.T) {
		_, err := f.Compile(&script.Source{Name: "bad.go", Data: []byte(`
package main

func Configure( {
`)})
		require.Error(t, err)
		var cErr *script.CompileError
		require.ErrorAs(t, err, &cErr)
		assert.Equal(t, "bad.go", cErr.Source)
	})
}

func TestRunDrivesHost(t *testing.T) {
	f := NewFrontend()
	prog, err := f.Compile(&script.Source{Name: "drive.go", Data: []byte(`
package main

import "eval"

func Configure() (any, error) {
	eval.RegisterTask("alpha")
	eval.RegisterTask("beta")
	if err := eval.RegisterBuilder("pkg.Thing", "pkg.ThingBuilder"); err != nil {
		return nil, err
	}
	name, ok := eval.BuilderForType("pkg.Thing")
	if !ok {
		return nil, nil
	}
	return name, nil
}
`)})
	require.NoError(t, err)

	host := newFakeHost()
	result, err := prog.Run(context.Background(), host)
	require.NoError(t, err)
	assert.Equal(t, "pkg.ThingBuilder", result)
	assert.Equal(t, []string{"alpha", "beta"}, host.tasks)
	assert.Equal(t, map[string]string{"pkg.Thing": "pkg.ThingBuilder"}, host.bindings)
}

func TestRunBuildCallback(t *testing.T) {
	f := NewFrontend()
	prog, err := f.Compile(&script.Source{Name: "build.go", Data: []byte(`
package main

import "eval"

func Configure() error {
	_, err := eval.Build("trainTest", map[string]any{"source": "ml-100k"})
	return err
}
`)})
	require.NoError(t, err)

	host := newFakeHost()
	_, err = prog.Run(context.Background(), host)
	require.NoError(t, err)
	assert.Equal(t, []string{"trainTest"}, host.builds)
}

func TestRunScriptErrorPropagates(t *testing.T) {
	f := NewFrontend()
	prog, err := f.Compile(&script.Source{Name: "fail.go", Data: []byte(`
package main

import "errors"

func Configure() error {
	return errors.New("configuration rejected")
}
`)})
	require.NoError(t, err)

	_, err = prog.Run(context.Background(), newFakeHost())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration rejected")
}

func TestRunMissingEntrypoint(t *testing.T) {
	f := NewFrontend()
	prog, err := f.Compile(&script.Source{Name: "noentry.go", Data: []byte(`
package main

func somethingElse() {}
`)})
	require.NoError(t, err)

	_, err = prog.Run(context.Background(), newFakeHost())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Configure")
}

func TestRunsDoNotShareInterpreterState(t *testing.T) {
	f := NewFrontend()
	prog, err := f.Compile(&script.Source{Name: "counter.go", Data: []byte(`
package main

var count int

func Configure() any {
	count++
	return count
}
`)})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		result, err := prog.Run(context.Background(), newFakeHost())
		require.NoError(t, err)
		assert.Equal(t, 1, result)
	}
}

func TestCallEntrypointShapes(t *testing.T) {
	boom := errors.New("boom")

	t.Run("value and error", func(t *testing.T) {
		v, err := callEntrypoint(reflect.ValueOf(func() (any, error) { return "r", nil }))
		require.NoError(t, err)
		assert.Equal(t, "r", v)

		_, err = callEntrypoint(reflect.ValueOf(func() (any, error) { return nil, boom }))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("single value", func(t *testing.T) {
		v, err := callEntrypoint(reflect.ValueOf(func() any { return 7 }))
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("single error", func(t *testing.T) {
		v, err := callEntrypoint(reflect.ValueOf(func() error { return nil }))
		require.NoError(t, err)
		assert.Nil(t, v)

		_, err = callEntrypoint(reflect.ValueOf(func() error { return boom }))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("no return", func(t *testing.T) {
		v, err := callEntrypoint(reflect.ValueOf(func() {}))
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("rejects arguments", func(t *testing.T) {
		_, err := callEntrypoint(reflect.ValueOf(func(int) {}))
		assert.Error(t, err)
	})

	t.Run("rejects non-functions", func(t *testing.T) {
		_, err := callEntrypoint(reflect.ValueOf(42))
		assert.Error(t, err)
	})
}
