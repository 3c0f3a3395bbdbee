// Package typeref maps fully-qualified type names to runtime type handles.
//
// It is the engine's type-loading collaborator: instead of resolving names
// through reflection at every call, hosts register each constructible type
// once, optionally with a default-builder marker naming the builder to fall
// back on when no explicit mapping exists.
package typeref

import (
	"fmt"
	"reflect"
	"sync"
)

// Info describes one loadable type.
type Info struct {
	// Name is the stable fully-qualified identifier scripts and manifests
	// use to refer to the type.
	Name string

	// GoType is the runtime type instances must be assignable to.
	GoType reflect.Type

	// DefaultBuilder optionally names the builder to use when no explicit
	// registration covers this type. Empty means no marker.
	DefaultBuilder string
}

// Validate reports whether the info is complete enough to register.
func (i *Info) Validate() error {
	if i == nil {
		return fmt.Errorf("type info is nil")
	}
	if i.Name == "" {
		return fmt.Errorf("type info has no name")
	}
	if i.GoType == nil {
		return fmt.Errorf("type %q has no runtime type", i.Name)
	}
	return nil
}

// Catalog maintains the known types, keyed by name.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]*Info
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]*Info)}
}

// Register installs a type. Re-registering a name overwrites the previous
// entry.
func (c *Catalog) Register(info *Info) error {
	if err := info.Validate(); err != nil {
		return fmt.Errorf("register type: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[info.Name] = info
	return nil
}

// MustRegister panics if registration fails. Intended for compiled-in
// modules whose types are static.
func (c *Catalog) MustRegister(info *Info) {
	if err := c.Register(info); err != nil {
		panic(err)
	}
}

// Lookup returns the type registered under name, if any.
func (c *Catalog) Lookup(name string) (*Info, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.types[name]
	return info, ok
}
