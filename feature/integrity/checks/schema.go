package checks

import (
	"context"

	"lore-sync/core/lore"
	"lore-sync/core/reconcile"
)

// SchemaInspector compares a remote table with its mapping without changing it.
type SchemaInspector interface {
	Inspect(ctx context.Context, c lore.Category) (*reconcile.SchemaReport, error)
}

// SchemaReport strictly types the result of a schema drift check.
type SchemaReport struct {
	Matched    bool                          `json:"matched"`
	Categories map[lore.Category]TableReport `json:"categories"`
}

// TableReport is the drift of one category's remote table.
type TableReport struct {
	TableID       string                     `json:"table_id,omitempty"`
	TitleProperty string                     `json:"title_property,omitempty"`
	Missing       []string                   `json:"missing"`
	Conflicts     []reconcile.SchemaConflict `json:"conflicts"`
	Status        string                     `json:"status"` // "ok", "drift", "unconfigured", "error"
	Error         string                     `json:"error,omitempty"`
}

// CheckSchema inspects the remote table of every category.
// Categories without a configured table are reported, not failed.
func CheckSchema(ctx context.Context, inspector SchemaInspector, categories []lore.Category) *SchemaReport {
	report := &SchemaReport{Matched: true, Categories: make(map[lore.Category]TableReport, len(categories))}
	for _, c := range categories {
		tbl := TableReport{Missing: []string{}, Conflicts: []reconcile.SchemaConflict{}, Status: "ok"}
		inspected, err := inspector.Inspect(ctx, c)
		switch {
		case err != nil && reconcile.Classify(err) == reconcile.KindConfiguration:
			tbl.Status = "unconfigured"
			tbl.Error = err.Error()
		case err != nil:
			tbl.Status = "error"
			tbl.Error = err.Error()
			report.Matched = false
		default:
			tbl.TableID = inspected.TableID
			tbl.TitleProperty = inspected.TitleProperty
			if inspected.Missing != nil {
				tbl.Missing = inspected.Missing
			}
			if inspected.Conflicts != nil {
				tbl.Conflicts = inspected.Conflicts
			}
			if inspected.Drifted() {
				tbl.Status = "drift"
				report.Matched = false
			}
		}
		report.Categories[c] = tbl
	}
	return report
}
