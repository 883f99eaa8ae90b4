// Package render formats engine output (fields, items, batch reports,
// sub-issue listings) for humans and machines. The engine itself never
// formats anything; it hands structures to this package.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/goblinsan/gh-project-fields/pkg/types"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatCSV, FormatYAML, FormatMarkdown:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q (want table, json, csv, yaml, or markdown)", s)
	}
}

// Fields writes a project's field list in the requested format.
func Fields(w io.Writer, fields []types.Field, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, fields)
	case FormatYAML:
		return writeYAML(w, fields)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"id", "name", "data_type", "options_or_iterations"}); err != nil {
			return err
		}
		for _, f := range fields {
			if err := cw.Write([]string{f.ID, f.Name, string(f.DataType), fieldConfig(f, ";")}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tTYPE\tOPTIONS/ITERATIONS")
		for _, f := range fields {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Name, f.DataType, fieldConfig(f, ","))
		}
		return tw.Flush()
	}
}

// fieldConfig flattens a field's options or iteration titles for one-line
// display.
func fieldConfig(f types.Field, sep string) string {
	var names []string
	for _, opt := range f.Options {
		names = append(names, opt.Name)
	}
	for _, it := range f.ActiveIterations {
		names = append(names, it.Title)
	}
	for _, it := range f.CompletedIterations {
		names = append(names, it.Title)
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, sep)
}

// Items writes a project's item list in the requested format.
func Items(w io.Writer, items []types.Item, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, items)
	case FormatYAML:
		return writeYAML(w, items)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"id", "type", "title", "number", "url", "state", "assignees", "field_values"}); err != nil {
			return err
		}
		for _, item := range items {
			number := ""
			if item.Number > 0 {
				number = fmt.Sprintf("%d", item.Number)
			}
			if err := cw.Write([]string{
				item.ID, item.Type, item.Title, number, item.URL, item.State,
				strings.Join(item.Assignees, ";"), flattenValues(item.FieldValues),
			}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTYPE\tTITLE\t#\tSTATE\tASSIGNEES")
		for _, item := range items {
			number := "-"
			if item.Number > 0 {
				number = fmt.Sprintf("%d", item.Number)
			}
			state := item.State
			if state == "" {
				state = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				item.ID, item.Type, truncate(item.Title, 50), number, state,
				strings.Join(item.Assignees, ","))
		}
		return tw.Flush()
	}
}

// SubIssues writes a sub-issue listing in the requested format.
func SubIssues(w io.Writer, subs []types.SubIssue, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, subs)
	case FormatYAML:
		return writeYAML(w, subs)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"number", "title", "state", "url", "assignees", "labels"}); err != nil {
			return err
		}
		for _, s := range subs {
			if err := cw.Write([]string{
				fmt.Sprintf("%d", s.Number), s.Title, s.State, s.URL,
				strings.Join(s.Assignees, ";"), strings.Join(s.Labels, ";"),
			}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NUM\tTITLE\tSTATE\tASSIGNEES\tLABELS")
		for _, s := range subs {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
				s.Number, truncate(s.Title, 50), s.State,
				strings.Join(s.Assignees, ","), strings.Join(s.Labels, ","))
		}
		return tw.Flush()
	}
}

func flattenValues(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+":"+values[k])
	}
	return strings.Join(pairs, ";")
}

// truncate shortens s to max runes, never splitting a multi-byte rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(v)
}
