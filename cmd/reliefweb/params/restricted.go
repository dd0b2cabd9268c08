package params

import (
	"fmt"

	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/reference"
)

// Restrict checks that every value is a member of allowed.
func Restrict(field string, allowed reference.Set, values ...string) error {
	for _, v := range values {
		if !allowed.Contains(v) {
			return invalid(field, v, fmt.Sprintf("not in the list of %d allowed values", allowed.Len()))
		}
	}
	return nil
}

// NewCountryCondition creates a primary_country condition whose value,
// a Text or a List, must only hold known country names.
func NewCountryCondition(countries reference.Set, value Value) (Condition, error) {
	return NewRestrictedCondition(FieldPrimaryCountry, countries, value)
}

// NewDisasterTypeCondition creates a disaster type condition. field is
// FieldDisasterType for the reports endpoint and FieldPrimaryType for the
// disasters endpoint.
func NewDisasterTypeCondition(types reference.Set, field string, value Value) (Condition, error) {
	if field != FieldDisasterType && field != FieldPrimaryType {
		return Condition{}, invalid("filter.field", field, "disaster type field must be disaster_type or primary_type")
	}
	return NewRestrictedCondition(field, types, value)
}

// NewRestrictedCondition creates a condition on field after checking the
// value against allowed. The value keeps its shape: a one-item List stays a
// List and is encoded with its operator.
func NewRestrictedCondition(field string, allowed reference.Set, value Value) (Condition, error) {
	switch v := value.(type) {
	case Text:
		if err := Restrict(field, allowed, string(v)); err != nil {
			return Condition{}, err
		}
	case List:
		if len(v) == 0 {
			return Condition{}, invalid(field, "", "at least one value is required")
		}
		if err := Restrict(field, allowed, v...); err != nil {
			return Condition{}, err
		}
	case nil:
		return Condition{}, invalid(field, "", "at least one value is required")
	default:
		return Condition{}, invalid(field, fmt.Sprintf("%v", v), "value must be a string or a list of strings")
	}
	return NewCondition(field, value)
}
