package types

// FieldDataType is the data type of a project field. The set is closed: the
// mutation dispatcher refuses any value not listed here rather than guessing.
type FieldDataType string

const (
	FieldTypeText         FieldDataType = "TEXT"
	FieldTypeNumber       FieldDataType = "NUMBER"
	FieldTypeDate         FieldDataType = "DATE"
	FieldTypeSingleSelect FieldDataType = "SINGLE_SELECT"
	FieldTypeIteration    FieldDataType = "ITERATION"
)

// Field is a custom field of a GitHub Project V2 board, with the
// type-specific configuration needed to resolve values by name.
type Field struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	DataType FieldDataType `json:"data_type" yaml:"data_type"`

	// Options is populated for SINGLE_SELECT fields only.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`
	// ActiveIterations and CompletedIterations are populated for ITERATION
	// fields only. Titles are the addressable key when setting values.
	ActiveIterations    []Iteration `json:"active_iterations,omitempty" yaml:"active_iterations,omitempty"`
	CompletedIterations []Iteration `json:"completed_iterations,omitempty" yaml:"completed_iterations,omitempty"`
}

// Option is a named choice within a SINGLE_SELECT field.
type Option struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Iteration is a dated sprint/cycle within an ITERATION field.
type Iteration struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	StartDate string `json:"start_date" yaml:"start_date"`
	Duration  int    `json:"duration" yaml:"duration"`
}

// FieldValueKind discriminates the populated variant of a FieldValue.
type FieldValueKind int

const (
	ValueText FieldValueKind = iota
	ValueNumber
	ValueDate
	ValueSingleSelect
	ValueIteration
)

// FieldValue is the typed payload of an item field update. Exactly one
// variant is meaningful, selected by Kind and matching the owning field's
// DataType.
type FieldValue struct {
	Kind FieldValueKind

	Text     string
	Number   float64
	Date     string // YYYY-MM-DD
	OptionID string // SINGLE_SELECT option node ID
	// IterationID is the iteration node ID for ITERATION fields.
	IterationID string
}

// TextValue builds a TEXT field value.
func TextValue(s string) FieldValue { return FieldValue{Kind: ValueText, Text: s} }

// NumberValue builds a NUMBER field value.
func NumberValue(n float64) FieldValue { return FieldValue{Kind: ValueNumber, Number: n} }

// DateValue builds a DATE field value.
func DateValue(d string) FieldValue { return FieldValue{Kind: ValueDate, Date: d} }

// SingleSelectValue builds a SINGLE_SELECT field value from an option ID.
func SingleSelectValue(optionID string) FieldValue {
	return FieldValue{Kind: ValueSingleSelect, OptionID: optionID}
}

// IterationValue builds an ITERATION field value from an iteration ID.
func IterationValue(iterationID string) FieldValue {
	return FieldValue{Kind: ValueIteration, IterationID: iterationID}
}
