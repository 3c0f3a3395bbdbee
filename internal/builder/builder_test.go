package builder

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct{ size int }

type widgetBuilder struct{}

func (widgetBuilder) Build(cfg Config) (any, error) {
	size, _ := cfg.Int("size")
	return &widget{size: size}, nil
}

func widgetSpec(name string) *Spec {
	return &Spec{
		Name:    name,
		Product: reflect.TypeOf(&widget{}),
		New:     func() Builder { return widgetBuilder{} },
	}
}

func TestSpecValidate(t *testing.T) {
	require.NoError(t, widgetSpec("w").Validate())

	var nilSpec *Spec
	assert.Error(t, nilSpec.Validate())
	assert.Error(t, (&Spec{}).Validate())
	assert.Error(t, (&Spec{Name: "x"}).Validate())
	assert.Error(t, (&Spec{Name: "x", Product: reflect.TypeOf(&widget{})}).Validate())
}

func TestSpecCanBuild(t *testing.T) {
	spec := widgetSpec("w")
	assert.True(t, spec.CanBuild(reflect.TypeOf(&widget{})))
	assert.True(t, spec.CanBuild(reflect.TypeOf((*any)(nil)).Elem()))
	assert.False(t, spec.CanBuild(reflect.TypeOf("")))
	assert.False(t, spec.CanBuild(nil))
}

func TestCatalog(t *testing.T) {
	t.Run("register and lookup", func(t *testing.T) {
		c := NewCatalog()
		require.NoError(t, c.Register(widgetSpec("w")))
		spec, ok := c.Lookup("w")
		require.True(t, ok)
		assert.Equal(t, "w", spec.Name)

		_, ok = c.Lookup("missing")
		assert.False(t, ok)
	})

	t.Run("re-registration overwrites", func(t *testing.T) {
		c := NewCatalog()
		first := widgetSpec("w")
		second := widgetSpec("w")
		require.NoError(t, c.Register(first))
		require.NoError(t, c.Register(second))
		spec, ok := c.Lookup("w")
		require.True(t, ok)
		assert.Same(t, second, spec)
	})

	t.Run("rejects incomplete specs", func(t *testing.T) {
		c := NewCatalog()
		assert.Error(t, c.Register(nil))
		assert.Error(t, c.Register(&Spec{Name: "broken"}))
	})

	t.Run("names are sorted", func(t *testing.T) {
		c := NewCatalog()
		require.NoError(t, c.Register(widgetSpec("zeta")))
		require.NoError(t, c.Register(widgetSpec("alpha")))
		assert.Equal(t, []string{"alpha", "zeta"}, c.Names())
	})
}

func TestConfigAccessors(t *testing.T) {
	cfg := Config{
		"s":     "text",
		"i":     7,
		"i64":   int64(8),
		"f":     2.5,
		"fInt":  float64(9),
		"wrong": struct{}{},
	}

	s, ok := cfg.String("s")
	assert.True(t, ok)
	assert.Equal(t, "text", s)
	_, ok = cfg.String("missing")
	assert.False(t, ok)
	_, ok = cfg.String("i")
	assert.False(t, ok)

	i, ok := cfg.Int("i")
	assert.True(t, ok)
	assert.Equal(t, 7, i)
	i, ok = cfg.Int("i64")
	assert.True(t, ok)
	assert.Equal(t, 8, i)
	i, ok = cfg.Int("fInt")
	assert.True(t, ok)
	assert.Equal(t, 9, i)
	_, ok = cfg.Int("f")
	assert.False(t, ok)
	_, ok = cfg.Int("wrong")
	assert.False(t, ok)

	f, ok := cfg.Float("f")
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)
	f, ok = cfg.Float("i")
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)
	_, ok = cfg.Float("s")
	assert.False(t, ok)
}
