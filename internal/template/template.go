// Package template loads the modality-identification template and resolves
// raw DICOM modality tags against it.
//
// A template maps each canonical modality name to the set of raw tag strings
// that identify it, for example:
//
//	{"CT": ["CT", "ComputedTomography"], "MRI": ["MR", "MagneticResonance"]}
//
// Templates are written in JSON or YAML (JSON parses as a YAML subset).
// A loaded Template is immutable and safe for concurrent use.
package template

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unknown is the sentinel modality returned for tags no template identifier
// matches. An unmatched tag is a normal outcome, not an error.
const Unknown = "UNKNOWN"

// Template is the immutable modality-identification mapping loaded from a
// template file.
type Template struct {
	modalities map[string][]string // canonical name -> identifiers as loaded
	index      map[string]string   // lowercased identifier -> canonical name
}

// Load parses the template file at path and validates it.
// Returns *FormatError when the file cannot be read or is not a well-formed
// mapping, and *ConflictError when one identifier claims two modalities.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}

	var modalities map[string][]string
	if err := yaml.Unmarshal(data, &modalities); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	if len(modalities) == 0 {
		return nil, &FormatError{Path: path, Err: fmt.Errorf("template defines no modalities")}
	}

	// Iterate canonical names in sorted order so validation errors are
	// deterministic regardless of map iteration order.
	names := make([]string, 0, len(modalities))
	for name := range modalities {
		names = append(names, name)
	}
	sort.Strings(names)

	index := make(map[string]string)
	for _, name := range names {
		identifiers := modalities[name]
		if len(identifiers) == 0 {
			return nil, &FormatError{Path: path, Err: fmt.Errorf("modality %q has no identifiers", name)}
		}
		for _, id := range identifiers {
			id = strings.TrimSpace(id)
			if id == "" {
				return nil, &FormatError{Path: path, Err: fmt.Errorf("modality %q has an empty identifier", name)}
			}
			key := strings.ToLower(id)
			if existing, ok := index[key]; ok && existing != name {
				return nil, &ConflictError{Identifier: id, First: existing, Second: name}
			}
			index[key] = name
		}
	}

	return &Template{modalities: modalities, index: index}, nil
}

// Resolve looks up a raw modality tag case-insensitively and returns the
// canonical modality name, or Unknown when no identifier matches. Resolve is
// total: it never fails.
func (t *Template) Resolve(tag string) string {
	if name, ok := t.index[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return name
	}
	return Unknown
}

// Modalities returns the canonical modality names in sorted order.
func (t *Template) Modalities() []string {
	names := make([]string, 0, len(t.modalities))
	for name := range t.modalities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Identifiers returns the identifier list for a canonical modality name.
func (t *Template) Identifiers(name string) []string {
	return t.modalities[name]
}
