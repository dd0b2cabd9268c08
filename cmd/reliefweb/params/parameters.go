package params

import "strconv"

// DefaultLimit is the number of items requested when no limit is given.
const DefaultLimit = 10

// Parameters is the root of a search request. Encode produces the query
// string appended after '?' to an endpoint URL.
//
// Build Parameters with NewParameters. Encode does not validate, so a
// literal Parameters{} encodes to "appname=&limit=0&preset="; call Validate
// on values that did not come from the constructors.
type Parameters struct {
	AppName string
	Limit   int
	Preset  Preset
	Query   *Query
	Filter  *Filter
	Fields  *Fields
}

// Option configures Parameters in NewParameters.
type Option func(*Parameters)

// WithLimit sets the maximum number of returned items.
func WithLimit(limit int) Option {
	return func(p *Parameters) {
		p.Limit = limit
	}
}

// WithPreset sets the presentation preset.
func WithPreset(preset Preset) Option {
	return func(p *Parameters) {
		p.Preset = preset
	}
}

// WithQuery sets the free-text query.
func WithQuery(q *Query) Option {
	return func(p *Parameters) {
		p.Query = q
	}
}

// WithFilter sets the condition filter.
func WithFilter(f *Filter) Option {
	return func(p *Parameters) {
		p.Filter = f
	}
}

// WithFields sets the field projection.
func WithFields(f *Fields) Option {
	return func(p *Parameters) {
		p.Fields = f
	}
}

// NewParameters creates validated Parameters for appName. Limit defaults to
// DefaultLimit and the preset to minimal.
func NewParameters(appName string, opts ...Option) (*Parameters, error) {
	p := &Parameters{
		AppName: appName,
		Limit:   DefaultLimit,
		Preset:  PresetMinimal,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the request as a whole, including its children.
func (p *Parameters) Validate() error {
	if p.AppName == "" {
		return invalid("appname", p.AppName, "appname is required")
	}
	if p.Limit <= 0 {
		return invalid("limit", strconv.Itoa(p.Limit), "limit must be a positive integer")
	}
	if !p.Preset.valid() {
		return invalid("preset", string(p.Preset), "preset must be latest, analysis or minimal")
	}
	if p.Query != nil {
		if err := p.Query.Validate(); err != nil {
			return err
		}
	}
	if p.Filter != nil {
		if err := p.Filter.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Encode renders the request as a query string without a leading '?'.
//
// Fragments are always emitted in the same order: base parameters, query,
// filter, fields. A filter holding a single condition is sent as that bare
// condition, which the API treats the same as a one-element filter.
func (p *Parameters) Encode() string {
	parts := []string{
		"appname=" + p.AppName,
		"limit=" + strconv.Itoa(p.Limit),
		"preset=" + string(p.Preset),
	}
	if p.Query != nil {
		parts = append(parts, p.Query.Encode())
	}
	if p.Filter != nil {
		if len(p.Filter.Conditions) == 1 {
			parts = append(parts, p.Filter.Conditions[0].Encode())
		} else {
			parts = append(parts, p.Filter.Encode())
		}
	}
	if p.Fields != nil {
		parts = append(parts, p.Fields.Encode())
	}
	return joinFragments(parts...)
}

// String implements fmt.Stringer.
func (p *Parameters) String() string {
	return p.Encode()
}
