// Package csvdata provides the CSV-backed data source built into the
// engine, the kind of object configuration scripts construct through
// builder resolution rather than declare as a task.
package csvdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"reflect"

	"github.com/vk/evalforge/internal/builder"
	"github.com/vk/evalforge/internal/typeref"
)

// Type and builder names as they appear in scripts and manifests.
const (
	TypeName    = "csvdata.DataSource"
	BuilderName = "csvdata.DataSourceBuilder"
)

// DataSource is the abstract input side of an evaluation pipeline.
type DataSource interface {
	Name() string
	Read() ([][]string, error)
}

// CSVDataSource reads delimited rating data from a file.
type CSVDataSource struct {
	name      string
	path      string
	delimiter rune
}

// Name returns the source's configured name.
func (s *CSVDataSource) Name() string { return s.name }

// Path returns the backing file path.
func (s *CSVDataSource) Path() string { return s.path }

// Read loads every record from the backing file.
func (s *CSVDataSource) Read() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open data source %s: %w", s.name, err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = s.delimiter
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read data source %s: %w", s.name, err)
	}
	return records, nil
}

// DataSourceBuilder builds CSVDataSource values from script config.
type DataSourceBuilder struct{}

// Build implements builder.Builder.
func (b *DataSourceBuilder) Build(cfg builder.Config) (any, error) {
	name, ok := cfg.String("name")
	if !ok || name == "" {
		return nil, fmt.Errorf("data source needs a name")
	}
	path, ok := cfg.String("file")
	if !ok || path == "" {
		return nil, fmt.Errorf("data source %q needs a file", name)
	}
	delimiter := ','
	if d, ok := cfg.String("delimiter"); ok {
		runes := []rune(d)
		if len(runes) != 1 {
			return nil, fmt.Errorf("data source %q: delimiter must be a single character", name)
		}
		delimiter = runes[0]
	}
	return &CSVDataSource{name: name, path: path, delimiter: delimiter}, nil
}

// Module registers the package's types and builders with the engine.
type Module struct{}

// Register implements engine.Module.
func (m *Module) Register(types *typeref.Catalog, builders *builder.Catalog) {
	builders.MustRegister(&builder.Spec{
		Name:    BuilderName,
		Product: reflect.TypeOf(&CSVDataSource{}),
		New:     func() builder.Builder { return &DataSourceBuilder{} },
	})
	types.MustRegister(&typeref.Info{
		Name:           TypeName,
		GoType:         reflect.TypeOf((*DataSource)(nil)).Elem(),
		DefaultBuilder: BuilderName,
	})
}
