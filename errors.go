package zonescan

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery is returned for a query that fails validation.
	// It is returned before any I/O.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidMatriculation is returned for a matriculation number that cannot be parsed.
	ErrInvalidMatriculation = errors.New("invalid matriculation number")

	// ErrClosed is returned when using a closed Engine.
	ErrClosed = errors.New("engine closed")
)

// QueryError describes which query field is invalid.
//
// errors.Is(err, ErrInvalidQuery) holds for every QueryError.
type QueryError struct {
	Field  string
	Value  any
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query: %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *QueryError) Unwrap() error { return ErrInvalidQuery }

// ConfigError describes which config field is invalid.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }
