package normalize

import (
	"fmt"

	"lore-sync/core/lore"
)

var creatureKeys = map[string]bool{
	"type": true, "kind": true, "species": true, "location": true, "habitat": true,
	"description": true, "abilities": true, "powers": true, "danger_level": true,
	"threat": true, "danger": true,
}

// creatureDocument accepts {creatures: {group: {name: {..}}}}, a flat {name: {..}} object
// or a list of objects carrying a name.
func creatureDocument(doc any, o origin, syn Synonyms) ([]lore.Record, []string) {
	var (
		out      []lore.Record
		warnings []string
	)
	addNamed := func(entries map[string]any, o origin) {
		for _, name := range sortedKeys(entries) {
			body, ok := asObject(entries[name])
			if !ok {
				warnings = append(warnings, fmt.Sprintf("%s: creature %q is not an object", o.File, name))
				continue
			}
			rec, err := normalizeCreature(name, body, o, syn)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: creature %q: %v", o.File, name, err))
				continue
			}
			out = append(out, rec)
		}
	}

	switch t := doc.(type) {
	case map[string]any:
		groups, grouped := asObject(t["creatures"])
		if !grouped {
			addNamed(t, o)
			break
		}
		for _, g := range sortedKeys(groups) {
			block, ok := asObject(groups[g])
			if !ok {
				warnings = append(warnings, fmt.Sprintf("%s: group %q is not an object", o.File, g))
				continue
			}
			inGroup := o
			inGroup.Group = g
			addNamed(block, inGroup)
		}
	case []any:
		for i, item := range t {
			body, ok := asObject(item)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("%s: entry %d is not an object", o.File, i))
				continue
			}
			rec, err := normalizeCreature(str(body["name"]), body, o, syn)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: entry %d: %v", o.File, i, err))
				continue
			}
			out = append(out, rec)
		}
	default:
		warnings = append(warnings, fmt.Sprintf("%s: unsupported document shape", o.File))
	}
	return out, warnings
}

func normalizeCreature(name string, raw map[string]any, o origin, syn Synonyms) (lore.Record, error) {
	display := CleanText(name)
	if display == "" {
		return nil, errMissingName
	}

	var kind, location any
	if s := str(first(raw, "type", "kind", "species")); s != "" {
		kind = syn.Canonical(SectionType, s, false)
	}
	if s := str(first(raw, "location", "habitat")); s != "" {
		location = syn.Canonical(SectionLocation, s, true)
	}

	attributes := map[string]any{}
	for _, k := range sortedKeys(raw) {
		if creatureKeys[k] || k == "name" {
			continue
		}
		if !isScalar(raw[k]) {
			if raw[k] != nil {
				attributes[k] = raw[k]
			}
			continue
		}
		if s := str(raw[k]); s != "" {
			attributes[k] = s
		}
	}
	var attrs any
	if len(attributes) > 0 {
		attrs = attributes
	}

	return lore.Record{
		"id":           lore.Slug(display),
		"name":         display,
		"kind":         kind,
		"location":     location,
		"description":  text(raw["description"]),
		"abilities":    list(first(raw, "abilities", "powers")),
		"danger_level": text(first(raw, "danger_level", "threat", "danger")),
		"attributes":   attrs,
		"source":       o.source(true),
	}, nil
}
