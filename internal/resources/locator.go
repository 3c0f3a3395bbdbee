// Package resources gives the engine a narrow view of the host's resource
// space: logical paths resolved against an ordered list of roots. Roots are
// plain fs.FS values, so compiled-in defaults (embed.FS) and on-disk
// directories (os.DirFS) compose freely.
package resources

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// Locator resolves logical resource paths to byte streams.
type Locator interface {
	// Open returns the resource from the first root that has it, or an
	// error wrapping fs.ErrNotExist when no root does.
	Open(path string) (io.ReadCloser, error)

	// OpenAll returns the resource from every root that has it, in root
	// order. The order is the discovery order callers merge in: later
	// streams override earlier ones on key collisions. A path present in
	// no root yields an empty slice, not an error.
	OpenAll(path string) ([]io.ReadCloser, error)
}

// FSLocator is a Locator over an ordered list of fs.FS roots.
type FSLocator struct {
	roots []fs.FS
}

// NewFSLocator builds a locator from the given roots, earliest first.
func NewFSLocator(roots ...fs.FS) *FSLocator {
	return &FSLocator{roots: roots}
}

// Open implements Locator.
func (l *FSLocator) Open(path string) (io.ReadCloser, error) {
	for _, root := range l.roots {
		f, err := root.Open(path)
		if err == nil {
			return f, nil
		}
		if !isNotExist(err) {
			return nil, fmt.Errorf("open resource %s: %w", path, err)
		}
	}
	return nil, fmt.Errorf("resource %s: %w", path, fs.ErrNotExist)
}

// OpenAll implements Locator.
func (l *FSLocator) OpenAll(path string) ([]io.ReadCloser, error) {
	var streams []io.ReadCloser
	for _, root := range l.roots {
		f, err := root.Open(path)
		if err != nil {
			if isNotExist(err) {
				continue
			}
			closeAll(streams)
			return nil, fmt.Errorf("open resource %s: %w", path, err)
		}
		streams = append(streams, f)
	}
	return streams, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func closeAll(streams []io.ReadCloser) {
	for _, s := range streams {
		s.Close()
	}
}
