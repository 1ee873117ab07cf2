package parser

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the export contains nothing but whitespace.
var ErrEmptyInput = errors.New("ride history is empty")

// MalformedDateError means a record's date cell could not be read as a date.
// It aborts the whole conversion.
type MalformedDateError struct {
	Record int    // zero-based record index
	Text   string // the date cell as found
	Err    error
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("record %d: malformed date %q: %v", e.Record+1, e.Text, e.Err)
}

func (e *MalformedDateError) Unwrap() error {
	return e.Err
}
