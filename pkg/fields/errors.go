package fields

import "fmt"

// NotFoundError reports that a project, field, option, iteration, or item
// did not resolve to a platform identifier. Never retried.
type NotFoundError struct {
	Kind string // "project", "field", "option", "iteration"
	Name string
	// Scope names the container searched, e.g. the owning field for an
	// option or "owner/number" for a project.
	Scope string
}

func (e *NotFoundError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("%s %q not found in %s", e.Kind, e.Name, e.Scope)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// ValidationError reports malformed input for a NUMBER or DATE field.
// Raised before any remote call; never consumes retry budget.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q for field %q: %s", e.Value, e.Field, e.Reason)
}

// UnsupportedFieldTypeError reports a field data type the dispatcher does
// not recognize. The dispatcher fails closed on these instead of guessing a
// mutation shape, so a server-added type can never be coerced to TEXT.
type UnsupportedFieldTypeError struct {
	Field    string
	DataType string
}

func (e *UnsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("field %q has unsupported data type %q", e.Field, e.DataType)
}
