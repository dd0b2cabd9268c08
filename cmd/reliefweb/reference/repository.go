// repository.go
package reference

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func (l *Loader) cachePath(kind Kind) string {
	return filepath.Join(l.cacheDir, kind.fileName())
}

// loadFromDisk returns the cached raw payload of kind, or os.ErrNotExist
// when nothing was cached yet.
func (l *Loader) loadFromDisk(kind Kind) ([]byte, error) {
	data, err := os.ReadFile(l.cachePath(kind))
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (l *Loader) saveToDisk(kind Kind, data []byte) error {
	if err := os.MkdirAll(l.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(l.cachePath(kind), data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// parse validates the payload shape and returns its items. Every item must
// carry fields.name; disaster types must also carry an id.
func parse(kind Kind, source string, data []byte) ([]item, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &ParseError{Kind: kind, Source: source, Reason: "invalid JSON", Err: err}
	}
	if p.Data == nil {
		return nil, &ParseError{Kind: kind, Source: source, Reason: `missing "data"`}
	}

	for i, it := range *p.Data {
		if it.Fields == nil {
			return nil, &ParseError{Kind: kind, Source: source, Reason: fmt.Sprintf(`item %d: missing "fields"`, i)}
		}
		if it.Fields.Name == nil {
			return nil, &ParseError{Kind: kind, Source: source, Reason: fmt.Sprintf(`item %d: missing "fields.name"`, i)}
		}
		if kind == DisasterTypes && it.ID == nil {
			return nil, &ParseError{Kind: kind, Source: source, Reason: fmt.Sprintf(`item %d: missing "id"`, i)}
		}
	}
	return *p.Data, nil
}

func names(items []item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, *it.Fields.Name)
	}
	return out
}

func indexDisasterTypes(items []item) *DisasterTypeIndex {
	idx := &DisasterTypeIndex{
		IDToName: make(map[string]string, len(items)),
		NameToID: make(map[string]string, len(items)),
	}
	for _, it := range items {
		id, name := string(*it.ID), *it.Fields.Name
		idx.IDToName[id] = name
		idx.NameToID[name] = id
	}
	return idx
}
