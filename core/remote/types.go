package remote

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// PropertyType is the type of one remote column.
type PropertyType string

const (
	TypeTitle       PropertyType = "title"
	TypeText        PropertyType = "rich_text"
	TypeNumber      PropertyType = "number"
	TypeSelect      PropertyType = "select"
	TypeMultiSelect PropertyType = "multi_select"
	TypeRelation    PropertyType = "relation"
	TypeCheckbox    PropertyType = "checkbox"
)

// ParsePropertyType accepts the canonical names plus "text".
func ParsePropertyType(s string) (PropertyType, bool) {
	switch t := PropertyType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeTitle, TypeText, TypeNumber, TypeSelect, TypeMultiSelect, TypeRelation, TypeCheckbox:
		return t, true
	case "text":
		return TypeText, true
	default:
		return "", false
	}
}

// IsList reports whether values of t hold several items.
func (t PropertyType) IsList() bool {
	return t == TypeMultiSelect || t == TypeRelation
}

// Value is one typed property value.
// Text carries title, rich_text and select values; Items carries multi_select names and
// relation ids; Number is nil when empty.
type Value struct {
	Type   PropertyType
	Text   string
	Number *float64
	Items  []string
	Bool   bool
}

// TextValue builds a title, rich_text or select value.
func TextValue(t PropertyType, s string) Value {
	return Value{Type: t, Text: s}
}

// NumberValue builds a number value.
func NumberValue(f float64) Value {
	return Value{Type: TypeNumber, Number: &f}
}

// ListValue builds a multi_select or relation value.
func ListValue(t PropertyType, items []string) Value {
	return Value{Type: t, Items: items}
}

// CheckboxValue builds a checkbox value.
func CheckboxValue(b bool) Value {
	return Value{Type: TypeCheckbox, Bool: b}
}

// IsEmpty reports whether v carries no data.
func (v Value) IsEmpty() bool {
	switch v.Type {
	case TypeNumber:
		return v.Number == nil
	case TypeMultiSelect, TypeRelation:
		return len(v.Items) == 0
	case TypeCheckbox:
		return !v.Bool
	default:
		return v.Text == ""
	}
}

// Equal compares two values of the same property. List items compare as sets.
func (v Value) Equal(o Value) bool {
	if v.IsEmpty() && o.IsEmpty() {
		return true
	}
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case TypeNumber:
		return v.Number != nil && o.Number != nil && *v.Number == *o.Number
	case TypeMultiSelect, TypeRelation:
		return sameItems(v.Items, o.Items)
	case TypeCheckbox:
		return v.Bool == o.Bool
	default:
		return v.Text == o.Text
	}
}

// String renders v for logs.
func (v Value) String() string {
	switch v.Type {
	case TypeNumber:
		if v.Number == nil {
			return ""
		}
		return strconv.FormatFloat(*v.Number, 'f', -1, 64)
	case TypeMultiSelect, TypeRelation:
		return strings.Join(v.Items, ", ")
	case TypeCheckbox:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Text
	}
}

func sameItems(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// Row is one remote record.
type Row struct {
	ID         string
	LastEdited time.Time
	Properties map[string]Value
}

// Clone copies the property map so callers can mutate it.
func (r Row) Clone() Row {
	props := make(map[string]Value, len(r.Properties))
	for k, v := range r.Properties {
		if v.Items != nil {
			v.Items = append([]string(nil), v.Items...)
		}
		props[k] = v
	}
	r.Properties = props
	return r
}

// Schema maps property names to their types.
type Schema map[string]PropertyType

// TitleProperty returns the name of the title property, or "" when the table has none.
func (s Schema) TitleProperty() string {
	names := make([]string, 0, 1)
	for name, t := range s {
		if t == TypeTitle {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}

// Clone copies s.
func (s Schema) Clone() Schema {
	out := make(Schema, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
