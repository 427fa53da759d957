package reconcile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"lore-sync/core/lore"
	"lore-sync/core/remote"

	"gopkg.in/yaml.v3"
)

// Registry holds the mapping spec of every category.
type Registry struct {
	specs map[lore.Category]MappingSpec
}

// DefaultRegistry returns the built-in mappings.
func DefaultRegistry() *Registry {
	return &Registry{specs: DefaultSpecs()}
}

// NewRegistry builds a registry from explicit specs after validating them.
func NewRegistry(specs ...MappingSpec) (*Registry, error) {
	r := &Registry{specs: make(map[lore.Category]MappingSpec, len(specs))}
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		r.specs[s.Category] = s
	}
	return r, nil
}

// Spec returns a copy of the mapping of c.
func (r *Registry) Spec(c lore.Category) (MappingSpec, error) {
	s, ok := r.specs[c]
	if !ok {
		return MappingSpec{}, fmt.Errorf("%w: no mapping for %q", lore.ErrUnknownCategory, c)
	}
	return s.Clone(), nil
}

// overrideEntry is one property of a mapping file: {Prop: {json: path, type: t}}.
type overrideEntry struct {
	JSON     string `yaml:"json"`
	Type     string `yaml:"type"`
	Required *bool  `yaml:"required"`
}

// LoadRegistry merges <dir>/<category>.yaml|.yml|.json over the defaults.
// An empty dir or missing files keep the defaults.
func LoadRegistry(dir string) (*Registry, error) {
	r := DefaultRegistry()
	if dir == "" {
		return r, nil
	}
	for _, c := range lore.AllCategories {
		overrides, path, err := readOverrides(dir, c)
		if err != nil {
			return nil, err
		}
		if overrides == nil {
			continue
		}
		spec, err := applyOverrides(r.specs[c], overrides)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		r.specs[c] = spec
	}
	return r, nil
}

func readOverrides(dir string, c lore.Category) (map[string]overrideEntry, string, error) {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(dir, string(c)+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, fmt.Errorf("failed to read mapping %s: %w", path, err)
		}
		// YAML is a superset of JSON, so one decoder serves both formats.
		var out map[string]overrideEntry
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, path, fmt.Errorf("failed to parse mapping %s: %w", path, err)
		}
		return out, path, nil
	}
	return nil, "", nil
}

// applyOverrides replaces path and type of known properties and appends new ones
// in name order. A changed type drops custom codecs of the default field.
func applyOverrides(spec MappingSpec, overrides map[string]overrideEntry) (MappingSpec, error) {
	spec = spec.Clone()
	index := make(map[string]int, len(spec.Fields))
	for i, f := range spec.Fields {
		index[f.Property] = i
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		o := overrides[name]
		t, ok := remote.ParsePropertyType(o.Type)
		if !ok {
			return spec, fmt.Errorf("property %q: unknown type %q", name, o.Type)
		}
		if o.JSON == "" {
			return spec, fmt.Errorf("property %q: json path is required", name)
		}

		if i, exists := index[name]; exists {
			f := spec.Fields[i]
			if f.Type != t {
				f.Forward, f.Reverse = nil, nil
			}
			f.Path, f.Type = o.JSON, t
			if o.Required != nil {
				f.Required = *o.Required
			}
			spec.Fields[i] = f
			continue
		}

		f := FieldMapping{Path: o.JSON, Property: name, Type: t, Required: t == remote.TypeTitle}
		if o.Required != nil {
			f.Required = *o.Required
		}
		// A new title replaces the old one; a table has a single title property.
		if t == remote.TypeTitle {
			for i := range spec.Fields {
				if spec.Fields[i].Type == remote.TypeTitle {
					spec.Fields = append(spec.Fields[:i], spec.Fields[i+1:]...)
					break
				}
			}
		}
		spec.Fields = append(spec.Fields, f)
		index = make(map[string]int, len(spec.Fields))
		for i, f := range spec.Fields {
			index[f.Property] = i
		}
	}
	return spec, spec.Validate()
}

// TableMap resolves the remote table of each category.
type TableMap map[lore.Category]string

// TablesFromConfig builds a TableMap from the remote configuration.
func TablesFromConfig(t remote.Tables) TableMap {
	m := TableMap{}
	for name, id := range t.ByCategory() {
		if id != "" {
			m[lore.Category(name)] = id
		}
	}
	return m
}

// Lookup returns the table id of c.
func (m TableMap) Lookup(c lore.Category) (string, error) {
	id, ok := m[c]
	if !ok || id == "" {
		return "", fmt.Errorf("%s: %w", c, ErrNoTable)
	}
	return id, nil
}
