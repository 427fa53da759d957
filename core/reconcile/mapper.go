package reconcile

import (
	"lore-sync/core/lore"
	"lore-sync/core/normalize"
	"lore-sync/core/remote"
)

// Mapper converts between local records and remote properties of one category.
type Mapper struct {
	spec     MappingSpec
	excluded map[string]bool
	rename   map[string]string
}

// NewMapper creates a mapper for spec.
func NewMapper(spec MappingSpec) *Mapper {
	return &Mapper{spec: spec, excluded: map[string]bool{}, rename: map[string]string{}}
}

// Spec returns the mapping the mapper was built from.
func (m *Mapper) Spec() MappingSpec {
	return m.spec
}

// WithSchema returns a mapper that honours a schema report: conflicting or missing
// properties are excluded and the title is written to the table's existing title property.
func (m *Mapper) WithSchema(report *SchemaReport) *Mapper {
	out := &Mapper{spec: m.spec, excluded: map[string]bool{}, rename: map[string]string{}}
	for k := range m.excluded {
		out.excluded[k] = true
	}
	for k, v := range m.rename {
		out.rename[k] = v
	}
	if report == nil {
		return out
	}
	for _, p := range report.Excluded {
		out.excluded[p] = true
	}
	if title, ok := m.spec.Title(); ok && report.TitleProperty != "" && report.TitleProperty != title.Property {
		out.rename[title.Property] = report.TitleProperty
	}
	return out
}

// Excluded reports whether writes to property are suppressed.
func (m *Mapper) Excluded(property string) bool {
	return m.excluded[property]
}

// WritesTitle reports whether props carries the mapped title.
func (m *Mapper) WritesTitle(props map[string]remote.Value) bool {
	title, ok := m.spec.Title()
	if !ok {
		return true
	}
	_, has := props[m.property(title)]
	return has
}

// property is the remote name a field is written to.
func (m *Mapper) property(f FieldMapping) string {
	if p, ok := m.rename[f.Property]; ok {
		return p
	}
	return f.Property
}

// ToRemote converts a record into remote properties. Unmapped local fields are dropped.
func (m *Mapper) ToRemote(rec lore.Record) (map[string]remote.Value, error) {
	out := make(map[string]remote.Value, len(m.spec.Fields))
	for _, f := range m.spec.Fields {
		v := rec.Get(f.Path)
		if v == nil {
			v = f.Default
		}
		val, ok := f.encode(v)
		if !ok {
			if f.Required {
				return nil, &MappingError{
					Category:   m.spec.Category,
					Identifier: rec.Identifier(),
					Field:      f.Path,
					Reason:     "required value is missing",
				}
			}
			continue
		}
		if m.excluded[f.Property] {
			continue
		}
		val.Type = f.Type
		out[m.property(f)] = val
	}
	return out, nil
}

// ToLocal converts a remote row into a record holding the mapped fields and the row identity.
func (m *Mapper) ToLocal(row remote.Row) (lore.Record, error) {
	rec := lore.Record{}
	for _, f := range m.spec.Fields {
		v, ok := row.Properties[m.property(f)]
		if !ok {
			if f.Required {
				return nil, &MappingError{Category: m.spec.Category, Identifier: row.ID, Field: f.Property, Reason: "property missing on remote row"}
			}
			continue
		}
		local := f.decode(v)
		if local == nil {
			if f.Required {
				return nil, &MappingError{Category: m.spec.Category, Identifier: row.ID, Field: f.Property, Reason: "remote value is empty"}
			}
			continue
		}
		rec.Set(f.Path, local)
	}
	if row.ID != "" {
		rec.SetRemoteID(row.ID)
	}
	return rec, nil
}

// NameOf returns the cleaned title of a row.
func (m *Mapper) NameOf(row remote.Row) string {
	title, ok := m.spec.Title()
	if !ok {
		return ""
	}
	return normalize.CleanText(row.Properties[m.property(title)].Text)
}

// Diff returns the properties of local whose value differs from row.
// Properties absent from local are never cleared.
func (m *Mapper) Diff(local map[string]remote.Value, row remote.Row) map[string]remote.Value {
	diff := map[string]remote.Value{}
	for name, v := range local {
		current, ok := row.Properties[name]
		if !ok {
			current = remote.Value{Type: v.Type}
		}
		if !v.Equal(current) {
			diff[name] = v
		}
	}
	return diff
}

// Merge copies the mapped, non-empty values of src into dst and reports whether dst changed.
func (m *Mapper) Merge(dst, src lore.Record) bool {
	changed := false
	for _, f := range m.spec.Fields {
		v := src.Get(f.Path)
		if v == nil {
			continue
		}
		if lore.Equal(dst.Get(f.Path), v) {
			continue
		}
		dst.Set(f.Path, v)
		changed = true
	}
	return changed
}

// withRowTitle redirects the title to whatever title property the rows carry.
// Pulls use it instead of a schema round trip.
func (m *Mapper) withRowTitle(rows []remote.Row) *Mapper {
	title, ok := m.spec.Title()
	if !ok || len(rows) == 0 {
		return m
	}
	if v, has := rows[0].Properties[m.property(title)]; has && v.Type == remote.TypeTitle {
		return m
	}
	for name, v := range rows[0].Properties {
		if v.Type == remote.TypeTitle {
			return m.WithSchema(&SchemaReport{TitleProperty: name})
		}
	}
	return m
}
