package fields

import (
	"context"
	"regexp"
	"strconv"

	"github.com/goblinsan/gh-project-fields/pkg/types"
)

var (
	numberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	datePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Mutator validates a raw string value against a field's data type and
// dispatches the correct typed update mutation. Validation always happens
// before any remote call; a mismatched value never reaches the transport.
type Mutator struct {
	client Client
}

// NewMutator creates a mutator on top of a remote client.
func NewMutator(client Client) *Mutator {
	return &Mutator{client: client}
}

// SetField sets one item field to the value parsed from raw. Exactly one
// remote mutation is issued on success; on validation or resolution
// failure, none.
func (m *Mutator) SetField(ctx context.Context, projectID, itemID string, field types.Field, raw string) error {
	value, err := BuildValue(field, raw)
	if err != nil {
		return err
	}
	return m.client.UpdateItemField(ctx, projectID, itemID, field.ID, value)
}

// ClearField issues the distinct clear-value mutation. No value validation
// is involved; the mutation is keyed by identifiers only.
func (m *Mutator) ClearField(ctx context.Context, projectID, itemID string, field types.Field) error {
	return m.client.ClearItemField(ctx, projectID, itemID, field.ID)
}

// BuildValue converts a raw string into the typed value variant demanded by
// the field's data type. The switch is exhaustive over the known types;
// anything else fails closed with UnsupportedFieldTypeError rather than
// being coerced to text.
func BuildValue(field types.Field, raw string) (types.FieldValue, error) {
	switch field.DataType {
	case types.FieldTypeText:
		return types.TextValue(raw), nil

	case types.FieldTypeNumber:
		if !numberPattern.MatchString(raw) {
			return types.FieldValue{}, &ValidationError{Field: field.Name, Value: raw, Reason: "not a number"}
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.FieldValue{}, &ValidationError{Field: field.Name, Value: raw, Reason: err.Error()}
		}
		return types.NumberValue(n), nil

	case types.FieldTypeDate:
		if !datePattern.MatchString(raw) {
			return types.FieldValue{}, &ValidationError{Field: field.Name, Value: raw, Reason: "expected YYYY-MM-DD"}
		}
		return types.DateValue(raw), nil

	case types.FieldTypeSingleSelect:
		optionID, err := ResolveOption(field, raw)
		if err != nil {
			return types.FieldValue{}, err
		}
		return types.SingleSelectValue(optionID), nil

	case types.FieldTypeIteration:
		iterationID, err := ResolveOption(field, raw)
		if err != nil {
			return types.FieldValue{}, err
		}
		return types.IterationValue(iterationID), nil

	default:
		return types.FieldValue{}, &UnsupportedFieldTypeError{Field: field.Name, DataType: string(field.DataType)}
	}
}
