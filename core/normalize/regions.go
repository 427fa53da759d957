package normalize

import "lore-sync/core/lore"

// Unassigned is the region of records without a region field.
const Unassigned = "unassigned"

// regionFields is the record field that places a record of each category on the map.
var regionFields = map[lore.Category]string{
	lore.Characters: "realm",
	lore.Creatures:  "location",
	lore.Realms:     "name",
}

// RegionKey returns the region a record is grouped under.
func RegionKey(c lore.Category, rec lore.Record) string {
	field, ok := regionFields[c]
	if !ok {
		return Unassigned
	}
	if s := str(rec.Get(field)); s != "" {
		return s
	}
	return Unassigned
}

// Index builds the _index.json projection of records.
func Index(c lore.Category, records []lore.Record) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		out = append(out, lore.IndexEntry(c, rec))
	}
	return out
}
