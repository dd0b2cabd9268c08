package params

import (
	"errors"
	"strconv"

	"golang.org/x/exp/slices"
)

// Filter is a flat list of conditions combined by one operator. Build it
// with NewFilter; a literal Filter is only checked by Validate.
type Filter struct {
	Operator   Operator
	Conditions []Condition
}

// NewFilter creates a validated Filter. An empty operator defaults to AND.
func NewFilter(operator Operator, conditions ...Condition) (*Filter, error) {
	if operator == "" {
		operator = OperatorAnd
	}
	f := &Filter{
		Operator:   operator,
		Conditions: slices.Clone(conditions),
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the operator and every condition.
func (f *Filter) Validate() error {
	if f.Operator != "" && !f.Operator.valid() {
		return invalid("filter.operator", string(f.Operator), "operator must be AND or OR")
	}
	if len(f.Conditions) == 0 {
		return invalid("filter.conditions", "", "filter needs at least one condition")
	}
	for i, c := range f.Conditions {
		if err := c.Validate(); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				verr.Field = "filter.conditions[" + strconv.Itoa(i) + "]." + verr.Field
			}
			return err
		}
	}
	return nil
}

// Encode renders the operator followed by every condition at its index.
func (f *Filter) Encode() string {
	op := f.Operator
	if op == "" {
		op = OperatorAnd
	}
	parts := []string{"filter[operator]=" + string(op)}
	for i, c := range f.Conditions {
		parts = append(parts, c.EncodeAt(i))
	}
	return joinFragments(parts...)
}

// Fields selects which fields of the items the API returns.
type Fields struct {
	Include []string
	Exclude []string
}

// NewFields creates a Fields projection. Overlaps between the two lists are
// left to the server.
func NewFields(include, exclude []string) *Fields {
	return &Fields{
		Include: slices.Clone(include),
		Exclude: slices.Clone(exclude),
	}
}

// Encode renders the include entries followed by the exclude entries.
func (f *Fields) Encode() string {
	parts := make([]string, 0, len(f.Include)+len(f.Exclude))
	for _, field := range f.Include {
		parts = append(parts, "fields[include][]="+field)
	}
	for _, field := range f.Exclude {
		parts = append(parts, "fields[exclude][]="+field)
	}
	return joinFragments(parts...)
}
