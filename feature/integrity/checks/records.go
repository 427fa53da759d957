package checks

import (
	"context"

	"lore-sync/core/lore"
)

// RecordsReport describes the local records of one category.
type RecordsReport struct {
	Count     int      `json:"count"`
	Stamped   int      `json:"stamped"`
	Unstamped []string `json:"unstamped"`
	Unnamed   int      `json:"unnamed"`
	Status    string   `json:"status"` // "ok", "error"
	Error     string   `json:"error,omitempty"`
}

// CheckRecords reads every category and counts records that are not yet linked to a
// remote row or that have no name (and so can never be published).
func CheckRecords(ctx context.Context, store lore.Store, categories []lore.Category) map[lore.Category]RecordsReport {
	out := make(map[lore.Category]RecordsReport, len(categories))
	for _, c := range categories {
		rep := RecordsReport{Unstamped: []string{}, Status: "ok"}
		records, err := store.ReadCategory(ctx, c)
		if err != nil {
			rep.Status = "error"
			rep.Error = err.Error()
			out[c] = rep
			continue
		}
		rep.Count = len(records)
		for _, r := range records {
			switch {
			case r.Name() == "":
				rep.Unnamed++
			case r.RemoteID() != "":
				rep.Stamped++
			default:
				rep.Unstamped = append(rep.Unstamped, r.Name())
			}
		}
		out[c] = rep
	}
	return out
}
