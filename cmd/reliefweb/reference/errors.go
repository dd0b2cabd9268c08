package reference

import "fmt"

// FetchError is returned when a reference list is available neither from
// the local cache nor from the remote source.
type FetchError struct {
	Kind   Kind
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s from %s: %v", e.Kind, e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a reference payload does not have the
// {"data": [{"id": ..., "fields": {"name": ...}}]} shape.
type ParseError struct {
	Kind   Kind
	Source string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s payload from %s: %s: %v", e.Kind, e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed %s payload from %s: %s", e.Kind, e.Source, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
