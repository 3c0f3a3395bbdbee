// Package manifest parses the engine's builder manifests and fixes their
// logical locations in the resource space.
//
// Manifests use a line-oriented key=value format. The type-keyed defaults
// manifest maps target type names to builder names and may exist in several
// resource roots at once; the name-keyed manifests each describe a single
// named builder.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	// DefaultsPath is the logical path of the type-keyed defaults
	// manifest. Every resource root may carry one; they are merged in
	// discovery order.
	DefaultsPath = "evalforge/builders.properties"

	// methodDir is the directory holding name-keyed builder manifests.
	methodDir = "evalforge/methods"

	// BuilderKey is the single key a name-keyed manifest must define.
	BuilderKey = "builder"
)

// NamedPath returns the logical path of the manifest describing the named
// builder.
func NamedPath(name string) string {
	return methodDir + "/" + name + ".properties"
}

// Entry is one key=value line of a manifest, in file order.
type Entry struct {
	Key   string
	Value string
}

// Error marks a manifest that exists but cannot be used: unreadable,
// unparseable, or naming something the host never registered. It is the
// hard half of the catalog's soft/hard split.
type Error struct {
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("manifest %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("manifest %s: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Parse reads a properties-format manifest. Blank lines and lines starting
// with '#' or '!' are ignored; the first '=' or ':' splits key from value.
// Entries keep file order; a duplicated key produces two entries and the
// caller decides who wins.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "!") {
			continue
		}
		idx := strings.IndexAny(text, "=:")
		if idx <= 0 {
			return nil, fmt.Errorf("line %d: not a key=value pair: %q", line, text)
		}
		key := strings.TrimSpace(text[:idx])
		value := strings.TrimSpace(text[idx+1:])
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", line)
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
