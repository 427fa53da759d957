package reconcile

import (
	"fmt"
	"strings"

	"lore-sync/core/lore"
	"lore-sync/core/normalize"
	"lore-sync/core/remote"
	"lore-sync/core/utils"
)

// ForwardFunc converts a local value into a remote value. ok=false omits the property.
type ForwardFunc func(v any) (remote.Value, bool)

// ReverseFunc converts a remote value into a local value. Nil leaves the local field as is.
type ReverseFunc func(v remote.Value) any

// FieldMapping binds one local path to one remote property.
type FieldMapping struct {
	// Path is the dot path inside the local record ("appearance.notes").
	Path string

	// Property is the remote property name ("Appearance").
	Property string

	// Type is the remote property type.
	Type remote.PropertyType

	// Required fields without a value or Default make the record unmappable.
	Required bool

	// Default is used when the local value is missing.
	Default any

	// Forward overrides the default local-to-remote coercion.
	Forward ForwardFunc

	// Reverse overrides the default remote-to-local coercion.
	Reverse ReverseFunc
}

func (f FieldMapping) encode(v any) (remote.Value, bool) {
	if f.Forward != nil {
		return f.Forward(v)
	}
	return Encode(f.Type, v)
}

func (f FieldMapping) decode(v remote.Value) any {
	if f.Reverse != nil {
		return f.Reverse(v)
	}
	return Decode(v)
}

// MappingSpec is the ordered field mapping of one category.
type MappingSpec struct {
	Category lore.Category
	Fields   []FieldMapping
}

// Title returns the title field of the mapping.
func (s MappingSpec) Title() (FieldMapping, bool) {
	for _, f := range s.Fields {
		if f.Type == remote.TypeTitle {
			return f, true
		}
	}
	return FieldMapping{}, false
}

// Schema is the remote schema the mapping expects.
func (s MappingSpec) Schema() remote.Schema {
	out := make(remote.Schema, len(s.Fields))
	for _, f := range s.Fields {
		out[f.Property] = f.Type
	}
	return out
}

// Validate checks that the mapping has exactly one title and no repeated properties.
func (s MappingSpec) Validate() error {
	titles := 0
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Path == "" || f.Property == "" {
			return fmt.Errorf("%s: mapping with empty path or property", s.Category)
		}
		if seen[f.Property] {
			return fmt.Errorf("%s: property %q mapped twice", s.Category, f.Property)
		}
		seen[f.Property] = true
		if _, ok := remote.ParsePropertyType(string(f.Type)); !ok {
			return fmt.Errorf("%s: property %q has unknown type %q", s.Category, f.Property, f.Type)
		}
		if f.Type == remote.TypeTitle {
			titles++
		}
	}
	if titles != 1 {
		return fmt.Errorf("%s: mapping needs exactly one title property, has %d", s.Category, titles)
	}
	return nil
}

// Clone copies the field slice.
func (s MappingSpec) Clone() MappingSpec {
	s.Fields = append([]FieldMapping(nil), s.Fields...)
	return s
}

// Encode is the default local-to-remote coercion for a property type.
// Nil and empty scalars are omitted; an explicit empty list clears a list property.
func Encode(t remote.PropertyType, v any) (remote.Value, bool) {
	if v == nil {
		return remote.Value{}, false
	}
	if _, isMap := v.(map[string]any); isMap {
		return remote.Value{}, false
	}

	switch t {
	case remote.TypeMultiSelect, remote.TypeRelation:
		items := make([]string, 0)
		for _, s := range utils.ToStringSlice(v) {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		return remote.ListValue(t, items), true
	case remote.TypeNumber:
		f, ok := utils.ToFloat(v)
		if !ok {
			return remote.Value{}, false
		}
		return remote.NumberValue(f), true
	case remote.TypeCheckbox:
		return remote.CheckboxValue(utils.ToBool(v)), true
	case remote.TypeSelect:
		items := utils.ToStringSlice(v)
		if len(items) == 0 || items[0] == "" {
			return remote.Value{}, false
		}
		return remote.TextValue(t, items[0]), true
	default:
		var s string
		switch list := v.(type) {
		case []any, []string:
			s = strings.Join(utils.ToStringSlice(list), ", ")
		default:
			s = utils.ToString(v)
		}
		if s == "" {
			return remote.Value{}, false
		}
		return remote.TextValue(t, s), true
	}
}

// Decode is the default remote-to-local coercion. Text is cleaned so repeated
// pulls converge; empty scalars decode to nil.
func Decode(v remote.Value) any {
	switch v.Type {
	case remote.TypeMultiSelect, remote.TypeRelation:
		out := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			if s := normalize.CleanText(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case remote.TypeNumber:
		if v.Number == nil {
			return nil
		}
		return *v.Number
	case remote.TypeCheckbox:
		return v.Bool
	default:
		s := normalize.CleanText(v.Text)
		if s == "" {
			return nil
		}
		return s
	}
}

// JoinLines stores a list of lines in one rich text property.
func JoinLines(v any) (remote.Value, bool) {
	if v == nil {
		return remote.Value{}, false
	}
	var lines []string
	for _, s := range utils.ToStringSlice(v) {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) == 0 {
		return remote.Value{}, false
	}
	return remote.TextValue(remote.TypeText, strings.Join(lines, "\n")), true
}

// SplitLines reverses JoinLines, cleaning every line.
func SplitLines(v remote.Value) any {
	if v.Text == "" {
		return nil
	}
	out := make([]any, 0)
	for _, line := range strings.Split(strings.ReplaceAll(v.Text, "\r\n", "\n"), "\n") {
		if s := normalize.CleanText(line); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
