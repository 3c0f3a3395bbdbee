package script

import (
	"fmt"
	"io"
	"os"
)

// Source is a piece of script text plus a name for diagnostics. The engine
// treats the text as opaque; only frontends interpret it.
type Source struct {
	Name string
	Data []byte
}

// FileSource reads a script from disk.
func FileSource(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	return &Source{Name: path, Data: data}, nil
}

// ReaderSource drains a script from a stream. The name is only used in
// diagnostics.
func ReaderSource(name string, r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", name, err)
	}
	return &Source{Name: name, Data: data}, nil
}
