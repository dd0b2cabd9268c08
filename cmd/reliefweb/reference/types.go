// types.go
package reference

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Kind selects one of the reference lists.
type Kind int

const (
	Countries Kind = iota
	DisasterTypes
)

func (k Kind) String() string {
	switch k {
	case Countries:
		return "countries"
	case DisasterTypes:
		return "disaster-types"
	default:
		return "unknown"
	}
}

// fileName is the cache artifact of the kind inside the cache directory.
func (k Kind) fileName() string {
	switch k {
	case Countries:
		return "country_list.json"
	case DisasterTypes:
		return "disaster_types.json"
	default:
		return "unknown.json"
	}
}

// Config configures a Loader.
type Config struct {
	CacheDir         string
	CountriesURL     string
	DisasterTypesURL string
	HTTPClient       *http.Client
}

// DefaultConfig returns the public ReliefWeb reference endpoints below
// apiURL, e.g. "https://api.reliefweb.int/v1".
func DefaultConfig(apiURL, appName, cacheDir string) Config {
	return Config{
		CacheDir:         cacheDir,
		CountriesURL:     fmt.Sprintf("%s/countries?appname=%s&profile=list&preset=latest&slim=1&limit=1000", apiURL, appName),
		DisasterTypesURL: fmt.Sprintf("%s/references/disaster-types?appname=%s", apiURL, appName),
	}
}

// Set is a read-only set of reference names.
type Set struct {
	names map[string]struct{}
}

// NewSet builds a Set from names. Duplicates are collapsed.
func NewSet(names ...string) Set {
	s := Set{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is a member of the set.
func (s Set) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names.
func (s Set) Len() int {
	return len(s.names)
}

// Names returns the names in sorted order.
func (s Set) Names() []string {
	names := maps.Keys(s.names)
	slices.Sort(names)
	return names
}

// DisasterTypeIndex maps disaster type ids to names and back. Some endpoints
// reference types by id, others by name.
type DisasterTypeIndex struct {
	IDToName map[string]string
	NameToID map[string]string
}

// Names returns the disaster type names as a Set.
func (d *DisasterTypeIndex) Names() Set {
	return NewSet(maps.Keys(d.NameToID)...)
}

// ReferenceSet holds every reference list needed to validate requests. It
// is loaded once by the caller and shared read-only.
type ReferenceSet struct {
	Countries     Set
	DisasterTypes Set
	DisasterIndex *DisasterTypeIndex
}

// ID is a reference item identifier. The API sends ids as strings or numbers.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// payload is the shape of the reference responses and of the cache files.
type payload struct {
	Data *[]item `json:"data"`
}

type item struct {
	ID     *ID         `json:"id"`
	Fields *itemFields `json:"fields"`
}

type itemFields struct {
	Name *string `json:"name"`
}
