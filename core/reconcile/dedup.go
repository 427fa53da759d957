package reconcile

import (
	"sort"

	"lore-sync/core/lore"
	"lore-sync/core/remote"
)

// Resolution is the outcome of matching one local record against remote rows.
type Resolution struct {
	// Row is the matched row, nil when the record must be created.
	Row *remote.Row

	// ByName is true when the match came from the name index rather than a stamp.
	ByName bool

	// Warnings are problems found while matching; none of them block the record.
	Warnings []error
}

// DedupIndex matches local records to remote rows of one category.
// It is built from a single listing and kept current as rows are created or updated,
// so records sharing a name within one run resolve to the same row.
type DedupIndex struct {
	category lore.Category
	mapper   *Mapper
	byID     map[string]*remote.Row
	byName   map[string][]*remote.Row
}

// NewDedupIndex indexes rows by id and normalized title.
func NewDedupIndex(c lore.Category, mapper *Mapper, rows []remote.Row) *DedupIndex {
	idx := &DedupIndex{
		category: c,
		mapper:   mapper,
		byID:     make(map[string]*remote.Row, len(rows)),
		byName:   make(map[string][]*remote.Row, len(rows)),
	}
	for _, r := range rows {
		idx.Add(r)
	}
	return idx
}

// Len is the number of indexed rows.
func (d *DedupIndex) Len() int {
	return len(d.byID)
}

// Add indexes a row, replacing any row with the same id.
func (d *DedupIndex) Add(row remote.Row) {
	if old, ok := d.byID[row.ID]; ok {
		d.unlinkName(old)
	}
	r := row.Clone()
	d.byID[r.ID] = &r
	if key := lore.NormalizeName(d.mapper.NameOf(r)); key != "" {
		d.byName[key] = append(d.byName[key], &r)
	}
}

// Apply records a successful update so later records see the new values.
func (d *DedupIndex) Apply(rowID string, props map[string]remote.Value) {
	old, ok := d.byID[rowID]
	if !ok {
		return
	}
	updated := old.Clone()
	for k, v := range props {
		updated.Properties[k] = v
	}
	d.Add(updated)
}

func (d *DedupIndex) unlinkName(r *remote.Row) {
	key := lore.NormalizeName(d.mapper.NameOf(*r))
	rows := d.byName[key]
	for i, candidate := range rows {
		if candidate.ID == r.ID {
			d.byName[key] = append(rows[:i:i], rows[i+1:]...)
			break
		}
	}
	if len(d.byName[key]) == 0 {
		delete(d.byName, key)
	}
}

// Resolve finds the row of rec: the stamped remote id when it still exists,
// otherwise the most recently edited row with the same normalized name.
func (d *DedupIndex) Resolve(rec lore.Record) Resolution {
	var res Resolution
	name := rec.Name()
	key := lore.NormalizeName(name)
	named := d.byName[key]

	if id := rec.RemoteID(); id != "" {
		if row, ok := d.byID[id]; ok {
			if others := otherIDs(named, id); len(others) > 0 {
				res.Warnings = append(res.Warnings, &IdentityConflict{
					Category: d.category, Name: name, StoredID: id, NamedIDs: others,
				})
			}
			res.Row = row
			return res
		}
		res.Warnings = append(res.Warnings, &StaleRemoteID{Category: d.category, Name: name, StoredID: id})
	}

	switch len(named) {
	case 0:
		return res
	case 1:
		res.Row, res.ByName = named[0], true
		return res
	}

	chosen := mostRecent(named)
	ids := make([]string, 0, len(named))
	for _, r := range named {
		ids = append(ids, r.ID)
	}
	sort.Strings(ids)
	res.Warnings = append(res.Warnings, &DuplicateNameWarning{
		Category: d.category, Name: name, RowIDs: ids, Chosen: chosen.ID,
	})
	res.Row, res.ByName = chosen, true
	return res
}

// mostRecent picks the latest edited row; ties go to the smallest id.
func mostRecent(rows []*remote.Row) *remote.Row {
	best := rows[0]
	for _, r := range rows[1:] {
		if r.LastEdited.After(best.LastEdited) || (r.LastEdited.Equal(best.LastEdited) && r.ID < best.ID) {
			best = r
		}
	}
	return best
}

func otherIDs(rows []*remote.Row, id string) []string {
	var out []string
	for _, r := range rows {
		if r.ID != id {
			out = append(out, r.ID)
		}
	}
	sort.Strings(out)
	return out
}
