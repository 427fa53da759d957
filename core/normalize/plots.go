package normalize

import (
	"fmt"

	"lore-sync/core/lore"
)

// plotDocument reads {plots: {key: {plot_name, summary|description|overview, ..}}}.
func plotDocument(doc any, o origin, _ Synonyms) ([]lore.Record, []string) {
	m, _ := asObject(doc)
	plots, ok := asObject(m["plots"])
	if !ok {
		return nil, []string{fmt.Sprintf("%s: no plots object found", o.File)}
	}

	var (
		out      []lore.Record
		warnings []string
	)
	for _, key := range sortedKeys(plots) {
		body, _ := asObject(plots[key])
		name := str(body["plot_name"])
		if name == "" {
			name = CleanText(key)
		}
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("%s: plot %q: %v", o.File, key, errMissingName))
			continue
		}
		out = append(out, lore.Record{
			"id":      lore.Slug(name),
			"name":    name,
			"arc":     text(body["arc"]),
			"status":  text(body["status"]),
			"summary": plotSummary(body),
			"source":  o.source(false),
		})
	}
	return out, warnings
}

// plotSummary takes the first of summary, description and overview; a nested object
// contributes its description.
func plotSummary(body map[string]any) any {
	for _, k := range []string{"summary", "description", "overview"} {
		switch v := body[k].(type) {
		case map[string]any:
			if d := text(v["description"]); d != nil {
				return d
			}
		case string:
			return text(v)
		}
	}
	return nil
}
