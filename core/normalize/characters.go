package normalize

import (
	"fmt"
	"strings"

	"lore-sync/core/lore"
)

var characterKeys = map[string]bool{
	"name": true, "title": true, "titles": true, "species": true, "gender": true, "age": true,
	"realm": true, "court": true, "affiliations": true, "domain": true, "domains": true,
	"role_in_cosmic_order": true, "role": true, "appearance": true, "personality": true,
	"lineage": true, "prophecy": true, "abilities": true, "relationships": true,
}

var appearanceKeys = map[string]bool{
	"height": true, "build": true, "skin": true, "hair": true, "eyes": true, "wings": true,
	"attire": true, "distinctive_features": true, "marks": true,
}

var lineageKeys = map[string]bool{
	"father": true, "mother": true, "siblings": true, "consorts": true, "essence": true,
	"type": true, "origin": true, "status": true, "role": true,
}

// characterDocument accepts {characters: {group: [..]}}, {characters: [..]}, a list or one object.
func characterDocument(doc any, o origin, syn Synonyms) ([]lore.Record, []string) {
	var (
		out      []lore.Record
		warnings []string
	)
	add := func(entry any, o origin, pos string) {
		m, ok := asObject(entry)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: %s is not an object", o.File, pos))
			return
		}
		rec, err := normalizeCharacter(m, o, syn)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %s: %v", o.File, pos, err))
			return
		}
		out = append(out, rec)
	}

	switch t := doc.(type) {
	case map[string]any:
		block, hasBlock := t["characters"]
		switch {
		case !hasBlock:
			add(t, o, "document")
		case isGroupMap(block):
			groups := block.(map[string]any)
			for _, g := range sortedKeys(groups) {
				items, ok := groups[g].([]any)
				if !ok {
					warnings = append(warnings, fmt.Sprintf("%s: group %q is not a list", o.File, g))
					continue
				}
				grouped := o
				grouped.Group = g
				for i, entry := range items {
					add(entry, grouped, fmt.Sprintf("%s[%d]", g, i))
				}
			}
		default:
			items, ok := block.([]any)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("%s: characters block is neither a list nor groups", o.File))
				break
			}
			for i, entry := range items {
				add(entry, o, fmt.Sprintf("entry %d", i))
			}
		}
	case []any:
		for i, entry := range t {
			add(entry, o, fmt.Sprintf("entry %d", i))
		}
	default:
		warnings = append(warnings, fmt.Sprintf("%s: unsupported document shape", o.File))
	}
	return out, warnings
}

func isGroupMap(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func normalizeCharacter(entry map[string]any, o origin, syn Synonyms) (lore.Record, error) {
	name := str(entry["name"])
	if name == "" {
		return nil, errMissingName
	}

	var species, realm, court any
	if s := str(entry["species"]); s != "" {
		species = syn.Canonical(SectionSpecies, s, false)
	}
	if s := str(entry["realm"]); s != "" {
		realm = syn.Canonical(SectionRealm, s, true)
	}
	if s := str(entry["court"]); s != "" {
		court = syn.Canonical(SectionCourt, s, true)
	}

	rec := lore.Record{
		"id":            lore.Slug(name),
		"name":          name,
		"titles":        list(first(entry, "title", "titles")),
		"species":       species,
		"gender":        text(entry["gender"]),
		"age":           text(entry["age"]),
		"realm":         realm,
		"court":         court,
		"affiliations":  optionalList(entry["affiliations"]),
		"domains":       list(first(entry, "domain", "domains")),
		"role":          text(first(entry, "role_in_cosmic_order", "role")),
		"appearance":    normalizeAppearance(entry["appearance"]),
		"personality":   normalizePersonality(entry["personality"]),
		"lineage":       normalizeLineage(entry["lineage"]),
		"prophecy":      normalizeProphecy(entry["prophecy"]),
		"abilities":     normalizeAbilities(entry["abilities"]),
		"relationships": normalizeRelationships(entry),
		"source":        o.source(true),
	}

	var notes []string
	for _, k := range sortedKeys(entry) {
		if characterKeys[k] || strings.HasPrefix(strings.ToLower(k), "relationship_") || !isScalar(entry[k]) {
			continue
		}
		if n := note(k, entry[k]); n != "" {
			notes = append(notes, n)
		}
	}
	rec["notes"] = optionalList(notes)
	return rec, nil
}

func normalizeAppearance(v any) map[string]any {
	out := map[string]any{}
	raw, ok := asObject(v)
	if !ok {
		if s := str(v); s != "" {
			out["notes"] = []any{s}
		}
		return out
	}
	var notes []string
	for _, k := range sortedKeys(raw) {
		key := CanonicalKey(k)
		if appearanceKeys[key] {
			out[key] = text(flat(raw[k]))
			continue
		}
		if n := note(k, raw[k]); n != "" {
			notes = append(notes, n)
		}
	}
	if len(notes) > 0 {
		out["notes"] = list(notes)
	}
	return out
}

func normalizePersonality(v any) map[string]any {
	out := map[string]any{}
	raw, ok := asObject(v)
	if !ok {
		return out
	}
	appendTo := func(key string, items []any) {
		existing, _ := out[key].([]any)
		out[key] = append(existing, items...)
	}
	var extra []any
	for _, k := range sortedKeys(raw) {
		switch key := CanonicalKey(k); key {
		case "traits", "flaws", "virtues":
			appendTo(key, list(raw[k]))
		case "strengths":
			appendTo("virtues", list(raw[k]))
		case "weaknesses":
			appendTo("flaws", list(raw[k]))
		case "temperament":
			out["temperament"] = text(flat(raw[k]))
		default:
			if n := note(strings.ReplaceAll(k, "_", " "), raw[k]); n != "" {
				extra = append(extra, n)
			}
		}
	}
	if len(extra) > 0 {
		appendTo("traits", extra)
	}
	return out
}

func normalizeLineage(v any) map[string]any {
	out := map[string]any{}
	raw, ok := asObject(v)
	if !ok {
		return out
	}
	var notes []string
	for _, k := range sortedKeys(raw) {
		key := CanonicalKey(k)
		switch {
		case lineageKeys[key]:
			if items, isList := raw[k].([]any); isList {
				out[key] = list(items)
			} else {
				out[key] = text(flat(raw[k]))
			}
		case key == "primordial" && !isScalar(raw[k]):
			if m, isMap := asObject(raw[k]); isMap {
				p := make(map[string]any, len(m))
				for pk, pv := range m {
					p[pk] = text(flat(pv))
				}
				out["primordial"] = p
				continue
			}
			fallthrough
		default:
			if n := note(k, raw[k]); n != "" {
				notes = append(notes, n)
			}
		}
	}
	if len(notes) > 0 {
		out["notes"] = list(notes)
	}
	return out
}

func normalizeProphecy(v any) map[string]any {
	out := map[string]any{}
	raw, ok := asObject(v)
	if !ok {
		return out
	}
	for _, k := range []string{"name", "description", "lore_fragment"} {
		if _, has := raw[k]; has {
			out[k] = text(flat(raw[k]))
		}
	}
	if _, has := raw["powers_foretold"]; has {
		out["powers_foretold"] = list(raw["powers_foretold"])
	}
	return out
}

// normalizeAbilities accepts {name: {description, application}}, {name: text} or a list.
func normalizeAbilities(v any) []any {
	out := []any{}
	switch t := v.(type) {
	case map[string]any:
		for _, name := range sortedKeys(t) {
			ability := map[string]any{"name": text(name)}
			if body, ok := asObject(t[name]); ok {
				ability["description"] = text(flat(body["description"]))
				ability["application"] = text(flat(body["application"]))
			} else {
				ability["description"] = text(flat(t[name]))
			}
			out = append(out, ability)
		}
	case []any:
		for _, item := range t {
			if m, ok := asObject(item); ok && m["name"] != nil {
				out = append(out, map[string]any{
					"name":        text(m["name"]),
					"description": text(flat(m["description"])),
					"application": text(flat(m["application"])),
				})
				continue
			}
			if s := flat(item); s != "" {
				out = append(out, map[string]any{"name": s})
			}
		}
	}
	return out
}

// normalizeRelationships merges the relationships object with top-level relationship_* keys.
func normalizeRelationships(entry map[string]any) map[string]any {
	out := map[string]any{}
	if rels, ok := asObject(entry["relationships"]); ok {
		for k, v := range rels {
			if key := CleanText(k); key != "" {
				out[key] = text(flat(v))
			}
		}
	}
	for k, v := range entry {
		if len(k) > len("relationship_") && strings.HasPrefix(strings.ToLower(k), "relationship_") {
			key := strings.ReplaceAll(CleanText(k[len("relationship_"):]), "_", " ")
			out[key] = text(flat(v))
		}
	}
	return out
}
