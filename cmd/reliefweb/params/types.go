// types.go
package params

import (
	"fmt"
	"strings"
	"time"
)

// Operator combines several values or conditions on the server side.
type Operator string

const (
	OperatorAnd Operator = "AND"
	OperatorOr  Operator = "OR"
)

func (o Operator) valid() bool {
	return o == OperatorAnd || o == OperatorOr
}

// Preset selects how the API sorts and shapes the returned items.
type Preset string

const (
	PresetLatest   Preset = "latest"
	PresetAnalysis Preset = "analysis"
	PresetMinimal  Preset = "minimal"
)

func (p Preset) valid() bool {
	switch p {
	case PresetLatest, PresetAnalysis, PresetMinimal:
		return true
	}
	return false
}

// Field names with a restricted set of allowed values.
const (
	FieldCountry        = "country"
	FieldPrimaryCountry = "primary_country"
	FieldDisasterType   = "disaster_type" // reports endpoint
	FieldPrimaryType    = "primary_type"  // disasters endpoint
	FieldDateCreated    = "date.created"
)

// Value is the value of a Condition. It is one of Text, List or Range.
type Value interface {
	isValue()
}

// Text matches a single value.
type Text string

// List matches several values combined by the condition's operator.
type List []string

// Range matches an interval of instants. At least one bound is set.
type Range struct {
	From *time.Time
	To   *time.Time
}

func (Text) isValue()  {}
func (List) isValue()  {}
func (Range) isValue() {}

// Since returns a Range open on the right.
func Since(t time.Time) Range {
	return Range{From: &t}
}

// Between returns a Range with both bounds set.
func Between(from, to time.Time) Range {
	return Range{From: &from, To: &to}
}

// formatInstant renders t as an ISO-8601 instant at second precision. A
// literal '+' in the offset is sent percent-encoded, '-' and 'Z' are left alone.
func formatInstant(t time.Time) string {
	return strings.ReplaceAll(t.Truncate(time.Second).Format(time.RFC3339), "+", "%2B")
}

// ValidationError reports a value rejected while building a request object.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q for field %q: %s", e.Value, e.Field, e.Reason)
}

func invalid(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// joinFragments joins query string fragments with '&', skipping empty ones.
func joinFragments(fragments ...string) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, "&")
}
