package normalize

import (
	"fmt"

	"lore-sync/core/lore"
)

// magicRootKey is the top-level key of the mastery and abilities document.
const magicRootKey = "magic_Levels_of_mastery_and_abilities"

// magicDocument reads abilities_list under the mastery document, falling back to a
// plain list of named objects.
func magicDocument(doc any, o origin, _ Synonyms) ([]lore.Record, []string) {
	var (
		out      []lore.Record
		warnings []string
	)
	if m, ok := asObject(doc); ok {
		if root, ok := asObject(m[magicRootKey]); ok {
			items, _ := root["abilities_list"].([]any)
			for i, item := range items {
				var name, description any
				if body, isObject := asObject(item); isObject {
					name, description = body["name"], body["description"]
				} else {
					name = item
				}
				n := str(name)
				if n == "" {
					warnings = append(warnings, fmt.Sprintf("%s: ability %d: %v", o.File, i, errMissingName))
					continue
				}
				out = append(out, magicRecord(n, nil, nil, text(description), []any{}, o))
			}
		}
	}
	if len(out) > 0 {
		return out, warnings
	}

	items, ok := doc.([]any)
	if !ok {
		if len(warnings) == 0 {
			warnings = append(warnings, fmt.Sprintf("%s: no magic entries found", o.File))
		}
		return nil, warnings
	}
	for i, item := range items {
		body, isObject := asObject(item)
		if !isObject {
			warnings = append(warnings, fmt.Sprintf("%s: entry %d is not an object", o.File, i))
			continue
		}
		n := str(body["name"])
		if n == "" {
			warnings = append(warnings, fmt.Sprintf("%s: entry %d: %v", o.File, i, errMissingName))
			continue
		}
		out = append(out, magicRecord(n, text(body["type"]), text(body["school"]), text(body["description"]), list(body["domains"]), o))
	}
	return out, warnings
}

func magicRecord(name string, kind, school, description any, domains []any, o origin) lore.Record {
	return lore.Record{
		"id":          lore.Slug(name),
		"name":        name,
		"type":        kind,
		"school":      school,
		"description": description,
		"domains":     domains,
		"source":      o.source(false),
	}
}
