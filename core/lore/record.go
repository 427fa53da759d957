package lore

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// Well known record paths.
const (
	FieldID            = "id"
	FieldName          = "name"
	PathRemoteID       = "source.notion_page_id"
	PathRemoteIDAlias  = "source.remote_id"
	// PathSourceFile is relative to the store root so it is the same on every host.
	PathSourceFile     = "source.file"
	PathSourceCategory = "source.category"
)

// Record is one local lore entity as decoded from JSON.
type Record map[string]any

// Name returns the trimmed name field.
func (r Record) Name() string {
	s, _ := r[FieldName].(string)
	return strings.TrimSpace(s)
}

// Identifier returns the most human friendly handle for reports: name, then id.
func (r Record) Identifier() string {
	if n := r.Name(); n != "" {
		return n
	}
	if id, ok := r[FieldID].(string); ok {
		return id
	}
	return ""
}

// Get resolves a dot path. Missing segments yield nil.
func (r Record) Get(path string) any {
	var cur any = map[string]any(r)
	for _, key := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil
		}
		cur, ok = m[key]
		if !ok {
			return nil
		}
	}
	return cur
}

// Set writes value at a dot path, creating intermediate objects.
// A non-object value in the way is replaced.
func (r Record) Set(path string, value any) {
	keys := strings.Split(path, ".")
	cur := map[string]any(r)
	for _, key := range keys[:len(keys)-1] {
		next, ok := asMap(cur[key])
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	cur[keys[len(keys)-1]] = value
}

// Delete removes the value at a dot path if present.
func (r Record) Delete(path string) {
	keys := strings.Split(path, ".")
	cur := map[string]any(r)
	for _, key := range keys[:len(keys)-1] {
		next, ok := asMap(cur[key])
		if !ok {
			return
		}
		cur = next
	}
	delete(cur, keys[len(keys)-1])
}

// RemoteID returns the stamped remote identity, if any.
func (r Record) RemoteID() string {
	for _, p := range []string{PathRemoteID, PathRemoteIDAlias} {
		if s, ok := r.Get(p).(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// SetRemoteID stamps id under source.notion_page_id and drops the alias.
func (r Record) SetRemoteID(id string) {
	r.Set(PathRemoteID, id)
	r.Delete(PathRemoteIDAlias)
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return Record(cloneValue(map[string]any(r)).(map[string]any))
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case Record:
		return cloneValue(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Record:
		return map[string]any(t), true
	default:
		return nil, false
	}
}

// NormalizeName is the name form used for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

var (
	slugPattern     = regexp.MustCompile(`[^a-z0-9_]+`)
	fileNamePattern = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)
)

// Slug builds a stable record id from a name ("Ava the Bright" -> "ava_the_bright").
func Slug(name string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "unnamed"
	}
	return s
}

// SafeFileName strips characters that are awkward in file and object names.
func SafeFileName(name string) string {
	s := fileNamePattern.ReplaceAllString(strings.TrimSpace(name), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "unnamed"
	}
	return s
}

// Equal compares two decoded values by their JSON encoding, so []string and []any
// holding the same items are equal.
func Equal(a, b any) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// Marshal renders v the way every store writes JSON: two space indent, no HTML escaping.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
