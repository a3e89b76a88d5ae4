package dogefolio

import (
	"errors"
	"fmt"
)

// NetworkError reports a transport failure or a non 200 HTTP status.
type NetworkError struct {
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("cannot http GET %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("cannot http GET %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SchemaError reports a response that is missing an expected field or holds a malformed one.
type SchemaError struct {
	Source string // what was being decoded, e.g. "ticker/price"
	Field  string // empty when the whole document is invalid
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s response: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("invalid %s response: field %q: %v", e.Source, e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// DegradedModeError is returned when both the primary and the fallback news sources failed.
type DegradedModeError struct {
	Primary  error
	Fallback error
}

func (e *DegradedModeError) Error() string {
	return fmt.Sprintf("news unavailable: primary source: %v; fallback source: %v", e.Primary, e.Fallback)
}

func (e *DegradedModeError) Unwrap() []error { return []error{e.Primary, e.Fallback} }

// IsNetwork reports whether err, or any error it wraps, is a *NetworkError.
func IsNetwork(err error) bool {
	var n *NetworkError
	return errors.As(err, &n)
}

// IsSchema reports whether err, or any error it wraps, is a *SchemaError.
func IsSchema(err error) bool {
	var s *SchemaError
	return errors.As(err, &s)
}
