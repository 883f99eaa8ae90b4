package render

import (
	"fmt"
	"io"
	"time"

	"github.com/goblinsan/gh-project-fields/pkg/types"
)

// Schema is a point-in-time snapshot of a project's field configuration,
// suitable for diffing or re-importing elsewhere.
type Schema struct {
	Project SchemaProject `json:"project" yaml:"project"`
}

// SchemaProject carries the project identity and its fields.
type SchemaProject struct {
	Number     int           `json:"number" yaml:"number"`
	Owner      string        `json:"owner" yaml:"owner"`
	ExportedAt time.Time     `json:"exported_at" yaml:"exported_at"`
	Fields     []types.Field `json:"fields" yaml:"fields"`
}

// NewSchema builds a snapshot stamped with the current time.
func NewSchema(owner string, number int, fields []types.Field) Schema {
	return Schema{Project: SchemaProject{
		Number:     number,
		Owner:      owner,
		ExportedAt: time.Now().UTC(),
		Fields:     fields,
	}}
}

// WriteSchema renders a schema snapshot as JSON, YAML, or Markdown.
func WriteSchema(w io.Writer, schema Schema, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, schema)
	case FormatYAML:
		return writeYAML(w, schema)
	case FormatMarkdown:
		return writeSchemaMarkdown(w, schema)
	default:
		return fmt.Errorf("unsupported schema format %q (want json, yaml, or markdown)", format)
	}
}

func writeSchemaMarkdown(w io.Writer, schema Schema) error {
	p := schema.Project
	fmt.Fprintf(w, "# Project Schema: %s/project-%d\n\n", p.Owner, p.Number)
	fmt.Fprintf(w, "Exported: %s\n\n", p.ExportedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "## Fields (%d total)\n\n", len(p.Fields))

	for _, f := range p.Fields {
		fmt.Fprintf(w, "### %s\n\n", f.Name)
		fmt.Fprintf(w, "- **ID**: `%s`\n", f.ID)
		fmt.Fprintf(w, "- **Type**: %s\n", f.DataType)

		if len(f.Options) > 0 {
			fmt.Fprintln(w, "- **Options**:")
			for _, opt := range f.Options {
				fmt.Fprintf(w, "  - `%s` (%s)\n", opt.Name, opt.ID)
			}
		}
		if len(f.ActiveIterations) > 0 || len(f.CompletedIterations) > 0 {
			fmt.Fprintln(w, "- **Iterations**:")
			for _, it := range f.ActiveIterations {
				fmt.Fprintf(w, "  - `%s` (%s)\n", it.Title, it.ID)
			}
			for _, it := range f.CompletedIterations {
				fmt.Fprintf(w, "  - `%s` (%s, completed)\n", it.Title, it.ID)
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}
