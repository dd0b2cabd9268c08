package api

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/exp/slices"

	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/params"
	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/reference"
)

// ParametersRequest is the JSON description of a search request.
type ParametersRequest struct {
	AppName string         `json:"appname,omitempty"`
	Limit   int            `json:"limit,omitempty"`
	Preset  string         `json:"preset,omitempty"`
	Query   *QueryRequest  `json:"query,omitempty"`
	Filter  *FilterRequest `json:"filter,omitempty"`
	Fields  *FieldsRequest `json:"fields,omitempty"`
}

type QueryRequest struct {
	Value    string   `json:"value"`
	Fields   []string `json:"fields,omitempty"`
	Operator string   `json:"operator,omitempty"`
}

type FilterRequest struct {
	Operator   string             `json:"operator,omitempty"`
	Conditions []ConditionRequest `json:"conditions"`
}

// ConditionRequest describes one condition. Value holds a string or a list
// of strings; From/To describe a date range instead.
type ConditionRequest struct {
	Field    string       `json:"field"`
	Value    StringOrList `json:"value"`
	From     *time.Time   `json:"from,omitempty"`
	To       *time.Time   `json:"to,omitempty"`
	Negate   bool         `json:"negate,omitempty"`
	Operator string       `json:"operator,omitempty"`
}

type FieldsRequest struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// StringOrList decodes a JSON string or an array of strings. IsList
// records which of the two was sent, so a one-item array stays a list.
type StringOrList struct {
	Items  []string
	IsList bool
}

// Strings builds a StringOrList from repeated flag values: one value is a
// plain string, several are a list.
func Strings(items []string) StringOrList {
	return StringOrList{Items: items, IsList: len(items) > 1}
}

func (s *StringOrList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = StringOrList{}
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = StringOrList{Items: []string{one}}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("value must be a string or a list of strings")
	}
	*s = StringOrList{Items: many, IsList: true}
	return nil
}

func (s StringOrList) MarshalJSON() ([]byte, error) {
	if s.IsList {
		return json.Marshal(s.Items)
	}
	if len(s.Items) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(s.Items[0])
}

// Empty reports whether no value was given.
func (s StringOrList) Empty() bool {
	return !s.IsList && len(s.Items) == 0
}

// Value converts s to a params.Value, nil when nothing was given.
func (s StringOrList) Value() params.Value {
	switch {
	case s.IsList:
		return params.List(slices.Clone(s.Items))
	case len(s.Items) == 0:
		return nil
	default:
		return params.Text(s.Items[0])
	}
}

// ToParameters validates the request against refs and builds Parameters.
// Conditions on country and disaster type fields are checked against the
// reference lists; defaultApp is used when no appname is given.
func (r *ParametersRequest) ToParameters(refs *reference.ReferenceSet, defaultApp string) (*params.Parameters, error) {
	appName := r.AppName
	if appName == "" {
		appName = defaultApp
	}

	opts := []params.Option{}
	if r.Limit != 0 {
		opts = append(opts, params.WithLimit(r.Limit))
	}
	if r.Preset != "" {
		opts = append(opts, params.WithPreset(params.Preset(r.Preset)))
	}

	if r.Query != nil {
		q, err := params.NewQuery(r.Query.Value, params.Operator(r.Query.Operator), r.Query.Fields...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, params.WithQuery(q))
	}

	if r.Filter != nil {
		conditions := make([]params.Condition, 0, len(r.Filter.Conditions))
		for _, cr := range r.Filter.Conditions {
			c, err := cr.toCondition(refs)
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, c)
		}
		f, err := params.NewFilter(params.Operator(r.Filter.Operator), conditions...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, params.WithFilter(f))
	}

	if r.Fields != nil {
		opts = append(opts, params.WithFields(params.NewFields(r.Fields.Include, r.Fields.Exclude)))
	}

	return params.NewParameters(appName, opts...)
}

func (cr ConditionRequest) toCondition(refs *reference.ReferenceSet) (params.Condition, error) {
	var (
		c   params.Condition
		err error
	)

	switch {
	case cr.From != nil || cr.To != nil:
		if !cr.Value.Empty() {
			return params.Condition{}, &params.ValidationError{Field: cr.Field, Reason: "a condition has either a value or a date range"}
		}
		c, err = params.NewCondition(cr.Field, params.Range{From: cr.From, To: cr.To})
	case cr.Field == params.FieldPrimaryCountry || cr.Field == params.FieldCountry:
		c, err = params.NewRestrictedCondition(cr.Field, refs.Countries, cr.Value.Value())
	case cr.Field == params.FieldDisasterType || cr.Field == params.FieldPrimaryType:
		c, err = params.NewDisasterTypeCondition(refs.DisasterTypes, cr.Field, cr.Value.Value())
	default:
		c, err = params.NewCondition(cr.Field, cr.Value.Value())
	}
	if err != nil {
		return params.Condition{}, err
	}

	if cr.Operator != "" {
		if c, err = c.WithOperator(params.Operator(cr.Operator)); err != nil {
			return params.Condition{}, err
		}
	}
	if cr.Negate {
		c = c.Negated()
	}
	return c, nil
}
