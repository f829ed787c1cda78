package schema

import (
	"fmt"
	"strings"
)

// SchemaError is fatal for the whole batch. Nothing is emitted when a
// required canonical field cannot be resolved from any recognized column.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: required fields missing: %s", strings.Join(e.Missing, ", "))
}

// TimeFormatError is per-record and non-fatal. The record is defaulted or
// dropped and counted in the batch diagnostics.
type TimeFormatError struct {
	Literal string
}

func (e *TimeFormatError) Error() string {
	return fmt.Sprintf("schema: unrecognized time literal %q", e.Literal)
}
