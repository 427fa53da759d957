package reconcile

import (
	"context"
	"fmt"
	"time"

	"lore-sync/core/lore"

	"go.uber.org/zap"
)

// PushOptions controls a push.
type PushOptions struct {
	// Schema is the report of the preceding EnsureSchema; excluded properties
	// are not written and the title follows its TitleProperty.
	Schema *SchemaReport

	// DryRun counts what would change without writing remotely or stamping records.
	DryRun bool
}

// Push reconciles records into the remote table of c.
// Records are processed in order; a failing record never stops the others.
// Created rows are stamped into the records (source.notion_page_id), and rows
// adopted by name are stamped as well, so callers should persist records afterwards.
func (e *Engine) Push(ctx context.Context, c lore.Category, records []lore.Record, opts PushOptions) Result {
	start := time.Now()
	res := newResult(c)
	defer func() { res.Duration = time.Since(start) }()

	table, mapper, err := e.mapperFor(c)
	if err != nil {
		res.fatal(err)
		res.Skipped = len(records)
		return res
	}
	mapper = mapper.WithSchema(opts.Schema)

	rows, err := e.transport.ListRows(ctx, table)
	if err != nil {
		res.fatal(fmt.Errorf("failed to list %s rows: %w", c, err))
		res.Skipped = len(records)
		return res
	}
	index := NewDedupIndex(c, mapper, rows)
	log := e.logger.With(zap.String("category", string(c)), zap.String("table", table))
	log.Debug("Push started", zap.Int("records", len(records)), zap.Int("rows", index.Len()), zap.Bool("dry_run", opts.DryRun))

	for i, rec := range records {
		id := identifier(rec, i)
		if err := ctx.Err(); err != nil {
			res.skip(id, fmt.Errorf("cancelled: %w", err))
			continue
		}

		props, err := mapper.ToRemote(rec)
		if err != nil {
			res.skip(id, err)
			continue
		}

		resolution := index.Resolve(rec)
		for _, w := range resolution.Warnings {
			res.warn(id, w)
			log.Warn("Dedup warning", zap.String("record", id), zap.Error(w))
		}

		if row := resolution.Row; row != nil {
			if !opts.DryRun && rec.RemoteID() != row.ID {
				rec.SetRemoteID(row.ID)
			}
			diff := mapper.Diff(props, *row)
			if len(diff) == 0 {
				res.Unchanged++
				continue
			}
			if opts.DryRun {
				res.Updated++
				continue
			}
			if err := e.transport.UpdateRow(ctx, table, row.ID, diff); err != nil {
				res.fail(id, err)
				log.Error("Failed to update row", zap.String("record", id), zap.String("row", row.ID), zap.Error(err))
				continue
			}
			index.Apply(row.ID, diff)
			res.Updated++
			continue
		}

		if !mapper.WritesTitle(props) {
			res.skip(id, &MappingError{
				Category:   c,
				Identifier: id,
				Field:      "title",
				Reason:     "title property excluded by a schema conflict",
			})
			continue
		}
		if opts.DryRun {
			// Placeholder so later records with the same name resolve to it, as they would in a real run.
			index.Add(newRow(fmt.Sprintf("dry-run-%d", i), props))
			res.Created++
			continue
		}
		rowID, err := e.transport.CreateRow(ctx, table, props)
		if err != nil {
			res.fail(id, err)
			log.Error("Failed to create row", zap.String("record", id), zap.Error(err))
			continue
		}
		rec.SetRemoteID(rowID)
		index.Add(newRow(rowID, props))
		res.Created++
	}

	log.Info("Push finished",
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("unchanged", res.Unchanged),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res
}

// identifier names a record in reports, falling back to its position.
func identifier(rec lore.Record, i int) string {
	if id := rec.Identifier(); id != "" {
		return id
	}
	return fmt.Sprintf("#%d", i+1)
}
