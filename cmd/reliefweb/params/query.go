package params

import "golang.org/x/exp/slices"

// Query is a free-text search, optionally restricted to some fields.
type Query struct {
	Value    string
	Fields   []string
	Operator Operator // combines the words of Value, OR when empty
}

// NewQuery creates a validated Query. An empty operator defaults to OR.
func NewQuery(value string, operator Operator, fields ...string) (*Query, error) {
	if operator == "" {
		operator = OperatorOr
	}
	q := &Query{
		Value:    value,
		Fields:   slices.Clone(fields),
		Operator: operator,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Validate checks that the query has a value and a known operator.
func (q *Query) Validate() error {
	if q.Value == "" {
		return invalid("query.value", q.Value, "query value is required")
	}
	if q.Operator != "" && !q.Operator.valid() {
		return invalid("query.operator", string(q.Operator), "operator must be AND or OR")
	}
	return nil
}

// Encode renders the query as query string fragments. The operator is only
// sent when it differs from the server default.
func (q *Query) Encode() string {
	parts := []string{"query[value]=" + q.Value}
	for _, field := range q.Fields {
		parts = append(parts, "query[fields][]="+field)
	}
	if q.Operator != "" && q.Operator != OperatorOr {
		parts = append(parts, "query[operator]="+string(q.Operator))
	}
	return joinFragments(parts...)
}
