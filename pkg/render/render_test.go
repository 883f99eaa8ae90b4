package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/goblinsan/gh-project-fields/pkg/types"
)

var sampleFields = []types.Field{
	{
		ID:       "F1",
		Name:     "Status",
		DataType: types.FieldTypeSingleSelect,
		Options: []types.Option{
			{ID: "OPT1", Name: "Todo"},
			{ID: "OPT2", Name: "Done"},
		},
	},
	{ID: "F2", Name: "Estimate", DataType: types.FieldTypeNumber},
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "json", "csv", "yaml", "markdown"} {
		f, err := ParseFormat(s)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", s, err)
		}
		if string(f) != s {
			t.Errorf("%q: got %s", s, f)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFields_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := Fields(&buf, sampleFields, FormatTable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Status") || !strings.Contains(out, "SINGLE_SELECT") {
		t.Errorf("missing field row: %s", out)
	}
	if !strings.Contains(out, "Todo,Done") {
		t.Errorf("expected options joined with commas: %s", out)
	}
	// Fields with no options show a placeholder.
	if !strings.Contains(out, "-") {
		t.Errorf("expected placeholder for optionless field: %s", out)
	}
}

func TestFields_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Fields(&buf, sampleFields, FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded []types.Field
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Name != "Status" {
		t.Errorf("unexpected decoded fields: %+v", decoded)
	}
}

func TestFields_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Fields(&buf, sampleFields, FormatCSV); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "id,name,data_type,options_or_iterations" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Todo;Done") {
		t.Errorf("expected options joined with semicolons: %s", lines[1])
	}
}

func TestItems_Table(t *testing.T) {
	items := []types.Item{
		{ID: "PVTI_1", Type: "Issue", Title: "Fix the thing", Number: 12, State: "OPEN", Assignees: []string{"octocat"}},
		{ID: "PVTI_2", Type: "DraftIssue", Title: "An idea"},
	}
	var buf bytes.Buffer
	if err := Items(&buf, items, FormatTable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Fix the thing") || !strings.Contains(out, "octocat") {
		t.Errorf("missing item row: %s", out)
	}
	// Draft issues have no number or state.
	if !strings.Contains(out, "An idea") {
		t.Errorf("missing draft row: %s", out)
	}
}

func TestItems_CSV_FieldValuesSorted(t *testing.T) {
	items := []types.Item{
		{ID: "PVTI_1", Type: "Issue", Title: "t", FieldValues: map[string]string{
			"Status": "Done", "Estimate": "3",
		}},
	}
	var buf bytes.Buffer
	if err := Items(&buf, items, FormatCSV); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Estimate:3;Status:Done") {
		t.Errorf("expected field values flattened in sorted key order: %s", buf.String())
	}
}

func TestSubIssues_Table(t *testing.T) {
	subs := []types.SubIssue{
		{Number: 7, Title: "Child task", State: "OPEN", Labels: []string{"bug"}},
	}
	var buf bytes.Buffer
	if err := SubIssues(&buf, subs, FormatTable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Child task") || !strings.Contains(out, "bug") {
		t.Errorf("missing sub-issue row: %s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 50); got != "short" {
		t.Errorf("expected unchanged, got %q", got)
	}
	long := strings.Repeat("x", 60)
	got := truncate(long, 50)
	if len(got) != 50 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected 50-char truncation with ellipsis, got %q (%d)", got, len(got))
	}
}

func TestTruncate_MultiByte(t *testing.T) {
	long := strings.Repeat("日", 60)
	got := truncate(long, 50)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 50 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected 50-rune truncation with ellipsis, got %q (%d runes)",
			got, utf8.RuneCountInString(got))
	}
}

func TestWriteSchema_Markdown(t *testing.T) {
	schema := NewSchema("acme", 5, sampleFields)
	var buf bytes.Buffer
	if err := WriteSchema(&buf, schema, FormatMarkdown); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "# Project Schema: acme/project-5") {
		t.Errorf("missing title: %s", out)
	}
	if !strings.Contains(out, "## Fields (2 total)") {
		t.Errorf("missing field count: %s", out)
	}
	if !strings.Contains(out, "- `Todo` (OPT1)") {
		t.Errorf("missing option line: %s", out)
	}
}

func TestWriteSchema_JSON(t *testing.T) {
	schema := NewSchema("acme", 5, sampleFields)
	var buf bytes.Buffer
	if err := WriteSchema(&buf, schema, FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded Schema
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if decoded.Project.Owner != "acme" || decoded.Project.Number != 5 {
		t.Errorf("unexpected project identity: %+v", decoded.Project)
	}
	if len(decoded.Project.Fields) != 2 {
		t.Errorf("expected 2 fields, got %d", len(decoded.Project.Fields))
	}
}

func TestWriteSchema_UnsupportedFormat(t *testing.T) {
	schema := NewSchema("acme", 5, nil)
	var buf bytes.Buffer
	if err := WriteSchema(&buf, schema, FormatCSV); err == nil {
		t.Error("expected error for csv schema format")
	}
}
