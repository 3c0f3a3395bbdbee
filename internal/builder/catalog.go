package builder

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog maintains the known builder specs, keyed by name.
type Catalog struct {
	mu    sync.RWMutex
	specs map[string]*Spec
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{specs: make(map[string]*Spec)}
}

// Register installs a builder spec. Re-registering a name overwrites the
// previous spec.
func (c *Catalog) Register(s *Spec) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("register builder: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.specs[s.Name] = s
	return nil
}

// MustRegister panics if registration fails. Intended for compiled-in
// modules whose specs are static.
func (c *Catalog) MustRegister(s *Spec) {
	if err := c.Register(s); err != nil {
		panic(err)
	}
}

// Lookup returns the spec registered under name, if any.
func (c *Catalog) Lookup(name string) (*Spec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.specs[name]
	return s, ok
}

// Names returns the registered builder names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.specs))
	for name := range c.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
