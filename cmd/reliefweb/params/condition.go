package params

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Condition is a single field-level filter predicate.
//
// Conditions only ever hold a Value, never another Filter: the API grammar
// supported here is one flat level of conditions under one operator.
type Condition struct {
	Field    string
	Value    Value
	Negate   bool
	Operator Operator // combines List values, ignored for Text and Range
}

// NewCondition creates a validated Condition. List values get the OR
// operator unless one is set later with WithOperator.
func NewCondition(field string, value Value) (Condition, error) {
	c := Condition{Field: field, Value: cloneValue(value)}
	if _, ok := c.Value.(List); ok {
		c.Operator = OperatorOr
	}
	if err := c.Validate(); err != nil {
		return Condition{}, err
	}
	return c, nil
}

// Negated returns a copy of the condition that excludes matching items.
func (c Condition) Negated() Condition {
	c.Negate = true
	return c
}

// WithOperator returns a copy of the condition using op to combine its values.
func (c Condition) WithOperator(op Operator) (Condition, error) {
	c.Operator = op
	if err := c.Validate(); err != nil {
		return Condition{}, err
	}
	return c, nil
}

// Validate checks the field name, the value shape and the operator.
func (c Condition) Validate() error {
	if c.Field == "" {
		return invalid("filter.field", c.Field, "condition field is required")
	}
	if c.Operator != "" && !c.Operator.valid() {
		return invalid(c.Field, string(c.Operator), "operator must be AND or OR")
	}

	switch v := c.Value.(type) {
	case Text:
		if v == "" {
			return invalid(c.Field, "", "condition value is required")
		}
	case List:
		if len(v) == 0 {
			return invalid(c.Field, "", "condition value list is empty")
		}
		for _, item := range v {
			if item == "" {
				return invalid(c.Field, "", "condition value list contains an empty value")
			}
		}
	case Range:
		if v.From == nil && v.To == nil {
			return invalid(c.Field, "", "range needs a from or a to bound")
		}
		if v.From != nil && v.To != nil && v.To.Before(*v.From) {
			return invalid(c.Field, formatInstant(*v.To), "range ends before it starts")
		}
	case nil:
		return invalid(c.Field, "", "condition value is required")
	default:
		return invalid(c.Field, fmt.Sprintf("%v", v), "unsupported value type")
	}
	return nil
}

// Encode renders the condition as the only condition of a request, using
// the bare filter[...] keys.
func (c Condition) Encode() string {
	return c.encode("filter")
}

// EncodeAt renders the condition as the i-th condition of a Filter.
func (c Condition) EncodeAt(i int) string {
	return c.encode(fmt.Sprintf("filter[conditions][%d]", i))
}

func (c Condition) encode(prefix string) string {
	parts := []string{prefix + "[field]=" + c.Field}

	switch v := c.Value.(type) {
	case Text:
		parts = append(parts, prefix+"[value]="+string(v))
	case List:
		for _, item := range v {
			parts = append(parts, prefix+"[value]="+item)
		}
		// The API requires the operator next to every list value.
		op := c.Operator
		if op == "" {
			op = OperatorOr
		}
		parts = append(parts, prefix+"[operator]="+string(op))
	case Range:
		if v.From != nil {
			parts = append(parts, prefix+"[value][from]="+formatInstant(*v.From))
		}
		if v.To != nil {
			parts = append(parts, prefix+"[value][to]="+formatInstant(*v.To))
		}
	}

	if c.Negate {
		parts = append(parts, prefix+"[negate]=true")
	}
	return joinFragments(parts...)
}

func cloneValue(v Value) Value {
	switch v := v.(type) {
	case List:
		return List(slices.Clone(v))
	case Range:
		out := Range{}
		if v.From != nil {
			from := *v.From
			out.From = &from
		}
		if v.To != nil {
			to := *v.To
			out.To = &to
		}
		return out
	}
	return v
}
