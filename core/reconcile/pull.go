package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"lore-sync/core/lore"
	"lore-sync/core/remote"

	"go.uber.org/zap"
)

// Pull merges every remote row of c into existing and returns the merged dataset.
// Rows match local records by stamped remote id, then by normalized name for records
// that were never stamped. Remote values overwrite mapped fields; local-only fields
// are kept. Rows without a local record become skeleton records appended in name order.
// existing is not modified.
func (e *Engine) Pull(ctx context.Context, c lore.Category, existing []lore.Record) ([]lore.Record, Result) {
	start := time.Now()
	res := newResult(c)
	defer func() { res.Duration = time.Since(start) }()

	merged := make([]lore.Record, len(existing))
	for i, r := range existing {
		merged[i] = r.Clone()
	}

	table, mapper, err := e.mapperFor(c)
	if err != nil {
		res.fatal(err)
		return merged, res
	}
	rows, err := e.transport.ListRows(ctx, table)
	if err != nil {
		res.fatal(fmt.Errorf("failed to list %s rows: %w", c, err))
		return merged, res
	}
	mapper = mapper.withRowTitle(rows)
	log := e.logger.With(zap.String("category", string(c)), zap.String("table", table))

	byID := make(map[string]lore.Record, len(merged))
	byName := make(map[string]lore.Record, len(merged))
	for _, r := range merged {
		if id := r.RemoteID(); id != "" {
			byID[id] = r
			continue
		}
		if key := lore.NormalizeName(r.Name()); key != "" {
			if _, taken := byName[key]; !taken {
				byName[key] = r
			}
		}
	}

	var created []lore.Record
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			res.skip(row.ID, fmt.Errorf("cancelled: %w", err))
			continue
		}
		local, err := mapper.ToLocal(row)
		if err != nil {
			res.skip(row.ID, err)
			log.Warn("Skipping unmappable row", zap.String("row", row.ID), zap.Error(err))
			continue
		}
		key := lore.NormalizeName(local.Name())

		target, ok := byID[row.ID]
		if !ok {
			if target, ok = byName[key]; ok {
				delete(byName, key)
				byID[row.ID] = target
			}
		}
		if !ok {
			rec := skeleton(c, local.Name(), row)
			mapper.Merge(rec, local)
			created = append(created, rec)
			byID[row.ID] = rec
			res.Created++
			continue
		}

		changed := mapper.Merge(target, local)
		if target.RemoteID() != row.ID {
			target.SetRemoteID(row.ID)
			changed = true
		}
		if changed {
			res.Updated++
		} else {
			res.Unchanged++
		}
	}

	sort.SliceStable(created, func(i, j int) bool {
		return lore.NormalizeName(created[i].Name()) < lore.NormalizeName(created[j].Name())
	})
	merged = append(merged, created...)

	log.Info("Pull finished",
		zap.Int("rows", len(rows)),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("unchanged", res.Unchanged),
		zap.Int("skipped", res.Skipped),
	)
	return merged, res
}

// skeleton is the minimal record for a row pulled for the first time.
func skeleton(c lore.Category, name string, row remote.Row) lore.Record {
	rec := lore.Record{
		lore.FieldID:   lore.Slug(name),
		lore.FieldName: name,
		"source": map[string]any{
			"category": string(c),
		},
	}
	rec.SetRemoteID(row.ID)
	return rec
}

func newRow(id string, props map[string]remote.Value) remote.Row {
	return remote.Row{ID: id, LastEdited: time.Now(), Properties: props}.Clone()
}
