// Package output provides the report task, which summarizes a run's other
// tasks to a file. Scripts reach it through the "report" named builder or
// type-based resolution; both land on the same builder.
package output

import (
	"fmt"
	"reflect"

	"github.com/vk/evalforge/internal/builder"
	"github.com/vk/evalforge/internal/typeref"
)

// Type and builder names as they appear in scripts and manifests.
const (
	TypeName    = "output.ReportTask"
	BuilderName = "output.ReportBuilder"
)

// Format names the supported report encodings.
const (
	FormatText = "text"
	FormatCSV  = "csv"
)

// ReportTask describes a summary report over the run's results.
type ReportTask struct {
	name   string
	file   string
	format string
}

// Name implements task.Task.
func (t *ReportTask) Name() string { return t.name }

// File returns the output path the report should be written to.
func (t *ReportTask) File() string { return t.file }

// Format returns the report encoding.
func (t *ReportTask) Format() string { return t.format }

// ReportBuilder builds report tasks from script config.
type ReportBuilder struct{}

// Build implements builder.Builder.
func (b *ReportBuilder) Build(cfg builder.Config) (any, error) {
	name, ok := cfg.String("name")
	if !ok || name == "" {
		return nil, fmt.Errorf("report task needs a name")
	}
	file, ok := cfg.String("file")
	if !ok || file == "" {
		return nil, fmt.Errorf("report task %q needs an output file", name)
	}
	format := FormatText
	if f, ok := cfg.String("format"); ok {
		switch f {
		case FormatText, FormatCSV:
			format = f
		default:
			return nil, fmt.Errorf("report task %q: unsupported format %q", name, f)
		}
	}
	return &ReportTask{name: name, file: file, format: format}, nil
}

// Module registers the package's types and builders with the engine.
type Module struct{}

// Register implements engine.Module.
func (m *Module) Register(types *typeref.Catalog, builders *builder.Catalog) {
	builders.MustRegister(&builder.Spec{
		Name:    BuilderName,
		Product: reflect.TypeOf(&ReportTask{}),
		New:     func() builder.Builder { return &ReportBuilder{} },
	})
	types.MustRegister(&typeref.Info{
		Name:           TypeName,
		GoType:         reflect.TypeOf(&ReportTask{}),
		DefaultBuilder: BuilderName,
	})
}
