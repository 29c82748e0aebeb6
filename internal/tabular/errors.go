package tabular

import (
	"fmt"
	"strings"
)

// SchemaError reports that a required input column or table is absent or of
// the wrong fundamental type. It is fatal for the affected operation or view
// but must not abort independent views.
type SchemaError struct {
	Table  string
	Column string
	Reason string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("[SCHEMA] table %q column %q: %s", e.Table, e.Column, e.Reason)
	}
	return fmt.Sprintf("[SCHEMA] table %q: %s", e.Table, e.Reason)
}

// NewSchemaError creates a schema error for a table and optional column.
func NewSchemaError(table, column, reason string) *SchemaError {
	return &SchemaError{Table: table, Column: column, Reason: reason}
}

// CardinalityError reports that a join would duplicate rows unexpectedly:
// the joined-in side carries duplicate keys where uniqueness was assumed.
type CardinalityError struct {
	Table string
	On    string
	Keys  []string
}

// Error implements the error interface.
func (e *CardinalityError) Error() string {
	return fmt.Sprintf("[CARDINALITY] table %q has duplicate keys on %q: %s",
		e.Table, e.On, strings.Join(e.Keys, ", "))
}

// NewCardinalityError creates a cardinality error naming the offending keys.
func NewCardinalityError(table, on string, keys []string) *CardinalityError {
	return &CardinalityError{Table: table, On: on, Keys: keys}
}
