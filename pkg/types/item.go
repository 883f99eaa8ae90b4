package types

// Item is a project board row wrapping an issue, pull request, or draft
// entry. Items are referenced by ID, never mutated structurally.
type Item struct {
	ID          string            `json:"id" yaml:"id"`
	Type        string            `json:"type" yaml:"type"` // ISSUE, PULL_REQUEST, DRAFT_ISSUE
	Title       string            `json:"title" yaml:"title"`
	URL         string            `json:"url,omitempty" yaml:"url,omitempty"`
	Number      int               `json:"number,omitempty" yaml:"number,omitempty"`
	State       string            `json:"state,omitempty" yaml:"state,omitempty"`
	Assignees   []string          `json:"assignees,omitempty" yaml:"assignees,omitempty"`
	FieldValues map[string]string `json:"field_values,omitempty" yaml:"field_values,omitempty"`
}

// BulkRow is one (item, field, value) triple parsed from tabular input.
// Line is the 1-based line number of the source file, kept so failures can
// be traced back for a targeted re-run.
type BulkRow struct {
	Line      int
	ItemID    string
	FieldName string
	Value     string
}

// SubIssue is a child issue in a parent/sub-issue relationship.
type SubIssue struct {
	Number    int      `json:"number" yaml:"number"`
	Title     string   `json:"title" yaml:"title"`
	State     string   `json:"state" yaml:"state"`
	URL       string   `json:"url,omitempty" yaml:"url,omitempty"`
	Assignees []string `json:"assignees,omitempty" yaml:"assignees,omitempty"`
	Labels    []string `json:"labels,omitempty" yaml:"labels,omitempty"`
	// SubIssueCount is the number of nested children, used by the
	// hierarchy view.
	SubIssueCount int `json:"sub_issue_count,omitempty" yaml:"sub_issue_count,omitempty"`
}
