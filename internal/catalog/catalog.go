// Package catalog resolves builders by their human-assigned short names,
// independently of type-based resolution.
//
// Each name maps to a manifest resource at a deterministic path. A missing
// manifest is the normal "no such named builder" answer; a manifest that
// exists but is broken is a configuration error the host must hear about.
// The asymmetry is deliberate: a name someone bothered to declare must not
// fail silently.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/vk/evalforge/internal/builder"
	"github.com/vk/evalforge/internal/ctxlog"
	"github.com/vk/evalforge/internal/manifest"
	"github.com/vk/evalforge/internal/resources"
)

// Catalog looks up builders by name through the host's resource space.
type Catalog struct {
	loc      resources.Locator
	builders *builder.Catalog
}

// New creates a catalog over the given resource locator and builder
// registrations.
func New(loc resources.Locator, builders *builder.Catalog) *Catalog {
	return &Catalog{loc: loc, builders: builders}
}

// Find resolves a builder by short name. It returns (nil, nil) when no
// manifest exists for the name, and a *manifest.Error when a manifest
// exists but cannot be used. Lookups are re-attempted on every call;
// there is no negative caching.
func (c *Catalog) Find(ctx context.Context, name string) (*builder.Spec, error) {
	logger := ctxlog.FromContext(ctx)
	path := manifest.NamedPath(name)
	logger.Debug("Looking up named builder.", "name", name, "path", path)

	stream, err := c.loc.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Named builder manifest not found.", "name", name, "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("read named builder manifest %s: %w", path, err)
	}
	defer stream.Close()

	entries, err := manifest.Parse(stream)
	if err != nil {
		return nil, &manifest.Error{Path: path, Reason: "unreadable manifest", Err: err}
	}

	builderName := ""
	for _, e := range entries {
		if e.Key == manifest.BuilderKey {
			builderName = e.Value
		}
	}
	if builderName == "" {
		return nil, &manifest.Error{Path: path, Reason: fmt.Sprintf("missing %q entry", manifest.BuilderKey)}
	}

	spec, ok := c.builders.Lookup(builderName)
	if !ok {
		return nil, &manifest.Error{Path: path, Reason: fmt.Sprintf("builder %q is not registered", builderName)}
	}
	if err := spec.Validate(); err != nil {
		return nil, &manifest.Error{Path: path, Reason: "registered builder is incomplete", Err: err}
	}
	return spec, nil
}
