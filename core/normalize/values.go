package normalize

import (
	"sort"
	"strings"

	"lore-sync/core/lore"
	"lore-sync/core/utils"
)

// origin is where a raw entry was found.
type origin struct {
	File     string
	Category lore.Category
	Group    string
}

func (o origin) source(withGroup bool) map[string]any {
	src := map[string]any{
		"file":     o.File,
		"category": string(o.Category),
	}
	if withGroup {
		var group any
		if o.Group != "" {
			group = o.Group
		}
		src["group"] = group
	}
	return src
}

// text cleans a scalar; empty values and non-scalars become nil.
func text(v any) any {
	if s, ok := CleanValue(v); ok {
		return s
	}
	return nil
}

// str is text as a plain string.
func str(v any) string {
	s, _ := CleanValue(v)
	return s
}

// list cleans a scalar or list into a JSON list; never nil.
func list(v any) []any {
	items := CleanList(v)
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

// optionalList is list with nil for no items.
func optionalList(v any) any {
	if l := list(v); len(l) > 0 {
		return l
	}
	return nil
}

// first returns the first value of m under keys that is neither nil nor "".
func first(m map[string]any, keys ...string) any {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

// flat renders any value as one line of text for note buckets.
func flat(v any) string {
	switch t := v.(type) {
	case map[string]any:
		parts := make([]string, 0, len(t))
		for _, k := range sortedKeys(t) {
			if s := flat(t[k]); s != "" {
				parts = append(parts, CleanText(k)+": "+s)
			}
		}
		return strings.Join(parts, "; ")
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flat(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return CleanText(utils.ToString(v))
	}
}

// note formats one "label: value" line, or "" when the value is empty.
func note(label string, v any) string {
	s := flat(v)
	if s == "" {
		return ""
	}
	return CleanText(label) + ": " + s
}

func isScalar(v any) bool {
	switch v.(type) {
	case map[string]any, []any, nil:
		return false
	default:
		return true
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}
