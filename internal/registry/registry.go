// Package registry resolves the builder responsible for constructing a
// given target type.
//
// Resolution is layered: an explicit registration wins, then the type's own
// default-builder marker, then nothing. "Nothing" is a normal outcome,
// since plenty of types are built by hand, so Resolve reports absence
// rather than failing.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vk/evalforge/internal/builder"
	"github.com/vk/evalforge/internal/ctxlog"
	"github.com/vk/evalforge/internal/manifest"
	"github.com/vk/evalforge/internal/resources"
	"github.com/vk/evalforge/internal/typeref"
)

// ErrInvalidArgument marks a programming error in direct API use, such as
// registering a nil builder. It fails fast and is never retried.
var ErrInvalidArgument = errors.New("invalid argument")

// Registry holds the explicit type-to-builder mappings and the catalogs
// used to resolve names into runtime handles.
type Registry struct {
	types    *typeref.Catalog
	builders *builder.Catalog

	mu       sync.RWMutex
	explicit map[string]*builder.Spec
}

// New creates an empty registry backed by the host's type and builder
// catalogs.
func New(types *typeref.Catalog, builders *builder.Catalog) *Registry {
	return &Registry{
		types:    types,
		builders: builders,
		explicit: make(map[string]*builder.Spec),
	}
}

// Register maps a target type name to a builder spec. The mapping is
// one-to-one: registering again for the same type overwrites the previous
// builder. When the type is known to the catalog, the spec must be capable
// of producing it.
func (r *Registry) Register(typeName string, spec *builder.Spec) error {
	if typeName == "" {
		return fmt.Errorf("%w: type name is empty", ErrInvalidArgument)
	}
	if spec == nil {
		return fmt.Errorf("%w: builder spec is nil for type %s", ErrInvalidArgument, typeName)
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if info, ok := r.types.Lookup(typeName); ok && !spec.CanBuild(info.GoType) {
		return fmt.Errorf("%w: builder %s cannot produce %s", ErrInvalidArgument, spec.Name, typeName)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.explicit[typeName] = spec
	return nil
}

// Resolve finds the builder for a target type name. Explicit registrations
// take precedence; otherwise the type's default-builder marker is consulted.
// The second return is false when no builder could be found.
func (r *Registry) Resolve(ctx context.Context, typeName string) (*builder.Spec, bool) {
	r.mu.RLock()
	spec, ok := r.explicit[typeName]
	r.mu.RUnlock()
	if ok {
		return spec, true
	}

	info, ok := r.types.Lookup(typeName)
	if !ok || info.DefaultBuilder == "" {
		return nil, false
	}
	spec, ok = r.builders.Lookup(info.DefaultBuilder)
	if !ok {
		// The marker is a hint attached to the type, not something the
		// script author wrote, so an unresolvable one degrades to absent.
		ctxlog.FromContext(ctx).Warn("Default builder marker names an unknown builder.",
			"type", typeName, "builder", info.DefaultBuilder)
		return nil, false
	}
	if !spec.CanBuild(info.GoType) {
		ctxlog.FromContext(ctx).Warn("Default builder cannot produce its own type, ignoring marker.",
			"type", typeName, "builder", info.DefaultBuilder)
		return nil, false
	}
	return spec, true
}

// LoadDefaults merges every defaults manifest visible through the locator
// into the registry. Manifests are applied in discovery order, so a later
// root's entry overrides an earlier one for the same type. Entries naming
// unknown types or builders are logged and skipped; the call only fails
// when a discovered manifest cannot be read.
//
// LoadDefaults runs once at engine construction, before the registry is
// shared with callers.
func (r *Registry) LoadDefaults(ctx context.Context, loc resources.Locator) error {
	logger := ctxlog.FromContext(ctx)
	streams, err := loc.OpenAll(manifest.DefaultsPath)
	if err != nil {
		return fmt.Errorf("discover defaults manifests: %w", err)
	}
	logger.Debug("Loading builder defaults.", "path", manifest.DefaultsPath, "manifests", len(streams))

	merged := make(map[string]string)
	var order []string
	for _, stream := range streams {
		entries, err := manifest.Parse(stream)
		stream.Close()
		if err != nil {
			return fmt.Errorf("read defaults manifest %s: %w", manifest.DefaultsPath, err)
		}
		for _, e := range entries {
			if _, seen := merged[e.Key]; !seen {
				order = append(order, e.Key)
			}
			merged[e.Key] = e.Value
		}
	}

	for _, typeName := range order {
		builderName := merged[typeName]
		info, ok := r.types.Lookup(typeName)
		if !ok {
			logger.Warn("Defaults manifest names an unknown type, skipping.", "type", typeName)
			continue
		}
		spec, ok := r.builders.Lookup(builderName)
		if !ok {
			logger.Error("Defaults manifest names an unknown builder, skipping.", "type", typeName, "builder", builderName)
			continue
		}
		if !spec.CanBuild(info.GoType) {
			logger.Error("Builder cannot produce the target type, skipping.", "type", typeName, "builder", builderName)
			continue
		}
		logger.Debug("Registering default builder.", "type", typeName, "builder", builderName)
		if err := r.Register(typeName, spec); err != nil {
			return err
		}
	}
	return nil
}
