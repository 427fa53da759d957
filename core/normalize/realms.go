package normalize

import (
	"fmt"

	"lore-sync/core/lore"
)

var realmKeys = map[string]bool{
	"name": true, "description": true, "domains": true, "ruler": true, "sovereign": true,
	"god_king": true, "capital": true, "factions": true, "courts": true,
	"notable_locations": true, "landmarks": true,
}

// realmDocument accepts {realms: [..]}, {Realms: [..]}, a list or one realm object.
func realmDocument(doc any, o origin, syn Synonyms) ([]lore.Record, []string) {
	var (
		out      []lore.Record
		warnings []string
	)
	addAll := func(items []any) {
		for i, item := range items {
			m, ok := asObject(item)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("%s: entry %d is not an object", o.File, i))
				continue
			}
			rec, err := normalizeRealm(m, o, syn)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: entry %d: %v", o.File, i, err))
				continue
			}
			out = append(out, rec)
		}
	}

	switch t := doc.(type) {
	case map[string]any:
		if items, ok := first(t, "realms", "Realms").([]any); ok {
			addAll(items)
			break
		}
		rec, err := normalizeRealm(t, o, syn)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", o.File, err))
			break
		}
		out = append(out, rec)
	case []any:
		addAll(t)
	default:
		warnings = append(warnings, fmt.Sprintf("%s: unsupported document shape", o.File))
	}
	return out, warnings
}

func normalizeRealm(entry map[string]any, o origin, syn Synonyms) (lore.Record, error) {
	name := str(entry["name"])
	if name == "" {
		return nil, errMissingName
	}
	name = syn.Canonical(SectionName, name, true)

	var notes []string
	extra := map[string]any{}
	for _, k := range sortedKeys(entry) {
		if realmKeys[k] {
			continue
		}
		if !isScalar(entry[k]) {
			if entry[k] != nil {
				extra[k] = entry[k]
			}
			continue
		}
		if n := note(k, entry[k]); n != "" {
			notes = append(notes, n)
		}
	}
	var attrs any
	if len(extra) > 0 {
		attrs = extra
	}

	return lore.Record{
		"id":                lore.Slug(name),
		"name":              name,
		"description":       text(entry["description"]),
		"domains":           list(entry["domains"]),
		"ruler":             text(first(entry, "ruler", "sovereign", "god_king")),
		"capital":           text(entry["capital"]),
		"factions":          optionalList(first(entry, "factions", "courts")),
		"notable_locations": optionalList(first(entry, "notable_locations", "landmarks")),
		"notes":             optionalList(notes),
		"attributes":        attrs,
		"source":            o.source(false),
	}, nil
}
