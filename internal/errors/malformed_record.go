package errors

import "fmt"

// MalformedRecordError reports a persisted or imported row that is
// missing a required field, so normalization cannot proceed for it.
type MalformedRecordError struct {
	Field string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: missing required field %q", e.Field)
}

func NewMalformedRecord(field string) *MalformedRecordError {
	return &MalformedRecordError{Field: field}
}
