// Package builder defines the factory contract used to construct the
// objects configuration scripts ask for, and the catalog that maps stable
// builder names to those factories.
//
// The catalog is the engine's substitute for loading classes by name: hosts
// register every builder they ship under a fully-qualified name once at
// startup, and all later resolution is a table lookup.
package builder

import (
	"fmt"
	"reflect"
)

// Config carries the script-supplied settings for one Build call. Keys are
// builder-defined; the engine treats the map as opaque.
type Config map[string]any

// Builder constructs a configured instance of its product type.
type Builder interface {
	Build(cfg Config) (any, error)
}

// Spec describes one loadable builder: its stable name, the type of the
// values it produces, and a factory for fresh Builder instances.
type Spec struct {
	Name    string
	Product reflect.Type
	New     func() Builder
}

// Validate reports whether the spec satisfies the builder contract.
func (s *Spec) Validate() error {
	if s == nil {
		return fmt.Errorf("builder spec is nil")
	}
	if s.Name == "" {
		return fmt.Errorf("builder spec has no name")
	}
	if s.Product == nil {
		return fmt.Errorf("builder %q declares no product type", s.Name)
	}
	if s.New == nil {
		return fmt.Errorf("builder %q has no factory", s.Name)
	}
	return nil
}

// CanBuild reports whether the builder's product is assignable to the
// given target type. This is the capability contract: a builder "for" a
// type must produce values that type can hold.
func (s *Spec) CanBuild(target reflect.Type) bool {
	if s == nil || s.Product == nil || target == nil {
		return false
	}
	return s.Product.AssignableTo(target)
}
