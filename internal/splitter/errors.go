package splitter

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the input has no header line.
	ErrEmptyInput = errors.New("empty input")

	// ErrMissingColumn is returned when an indexed column is absent from the header.
	ErrMissingColumn = errors.New("missing column")

	// ErrDuplicateColumn is returned when the header names a column twice.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrUnmappedValue is returned when a mapped column holds a label the mapper does not know.
	ErrUnmappedValue = errors.New("unmapped value")

	// ErrInvalidZoneSize is returned for a zone size <= 0.
	ErrInvalidZoneSize = errors.New("invalid zone size")
)

// RowError reports a malformed input row.
type RowError struct {
	// Line is the 1-based line number in the input.
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
