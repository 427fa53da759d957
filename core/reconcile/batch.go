package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lore-sync/core/lore"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchOptions controls a batch orchestrator.
type BatchOptions struct {
	// Workers bounds how many categories run at once. Values below 1 mean sequential.
	Workers int

	// DryRun is passed to every push and suppresses local writes.
	DryRun bool
}

// Orchestrator runs publish and pull over several categories.
// Each category is isolated: its failure is recorded in its Result and never
// prevents the others from running.
type Orchestrator struct {
	engine *Engine
	store  lore.Store
	logger *zap.Logger
	opts   BatchOptions
}

// NewOrchestrator creates a batch orchestrator.
func NewOrchestrator(engine *Engine, store lore.Store, logger *zap.Logger, opts BatchOptions) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Orchestrator{engine: engine, store: store, logger: logger, opts: opts}
}

// WithDryRun returns a copy of o that counts changes without writing anything.
func (o *Orchestrator) WithDryRun() *Orchestrator {
	cp := *o
	cp.opts.DryRun = true
	return &cp
}

// Engine returns the underlying engine.
func (o *Orchestrator) Engine() *Engine {
	return o.engine
}

// RunAll runs mode over categories and returns one result per category.
func (o *Orchestrator) RunAll(ctx context.Context, mode Mode, categories []lore.Category) map[lore.Category]Result {
	results := make(map[lore.Category]Result, len(categories))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(o.opts.Workers)
	for _, c := range categories {
		g.Go(func() error {
			r := o.RunCategory(ctx, mode, c)
			mu.Lock()
			results[c] = r
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s := Summarize(results)
	o.logger.Info("Batch finished",
		zap.String("mode", string(mode)),
		zap.Int("categories", len(categories)),
		zap.Int("created", s.Created),
		zap.Int("updated", s.Updated),
		zap.Int("unchanged", s.Unchanged),
		zap.Int("skipped", s.Skipped),
		zap.Int("failed", s.Failed),
		zap.Int("fatal", len(s.FatalCategories)),
	)
	return results
}

// RunCategory runs mode for a single category.
func (o *Orchestrator) RunCategory(ctx context.Context, mode Mode, c lore.Category) (res Result) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = newResult(c)
			res.fatal(fmt.Errorf("panic: %v", p))
			o.logger.Error("Category run panicked", zap.String("category", string(c)), zap.Any("panic", p))
		}
		res.Duration = time.Since(start)
	}()

	switch mode {
	case ModePublish:
		return o.publish(ctx, c)
	case ModePull:
		return o.pull(ctx, c)
	default:
		res = newResult(c)
		res.fatal(fmt.Errorf("unknown mode %q", mode))
		return res
	}
}

// publish reads, ensures the schema, pushes and persists new stamps.
func (o *Orchestrator) publish(ctx context.Context, c lore.Category) Result {
	log := o.logger.With(zap.String("category", string(c)), zap.String("mode", string(ModePublish)))

	records, err := o.store.ReadCategory(ctx, c)
	if err != nil {
		res := newResult(c)
		res.fatal(&LocalStoreError{Op: "read " + string(c), Err: err})
		log.Error("Failed to read records", zap.Error(err))
		return res
	}

	_, report, err := o.engine.EnsureSchema(ctx, c)
	if err != nil {
		res := newResult(c)
		res.fatal(fmt.Errorf("ensure schema: %w", err))
		res.Skipped = len(records)
		log.Error("Failed to ensure schema", zap.Error(err))
		return res
	}

	before := make([]string, len(records))
	for i, r := range records {
		before[i] = r.RemoteID()
	}

	res := o.engine.Push(ctx, c, records, PushOptions{Schema: report, DryRun: o.opts.DryRun})
	for i := range report.Conflicts {
		conflict := report.Conflicts[i]
		res.warn(conflict.Property, &conflict)
	}
	for _, e := range report.Errors {
		res.Warnings = append(res.Warnings, e)
	}

	if o.opts.DryRun || res.Fatal != "" {
		return res
	}
	stamped := false
	for i, r := range records {
		if r.RemoteID() != before[i] {
			stamped = true
			break
		}
	}
	if !stamped {
		return res
	}
	if err := o.store.WriteCategory(ctx, c, records); err != nil {
		res.fatal(&LocalStoreError{Op: "persist stamps of " + string(c), Err: err})
		log.Error("Failed to persist remote ids", zap.Error(err))
	}
	return res
}

// pull reads, merges remote rows and writes back when anything changed.
func (o *Orchestrator) pull(ctx context.Context, c lore.Category) Result {
	log := o.logger.With(zap.String("category", string(c)), zap.String("mode", string(ModePull)))

	existing, err := o.store.ReadCategory(ctx, c)
	if err != nil {
		res := newResult(c)
		res.fatal(&LocalStoreError{Op: "read " + string(c), Err: err})
		log.Error("Failed to read records", zap.Error(err))
		return res
	}

	merged, res := o.engine.Pull(ctx, c, existing)
	if res.Fatal != "" || o.opts.DryRun || res.Created+res.Updated == 0 {
		return res
	}
	if err := o.store.WriteCategory(ctx, c, merged); err != nil {
		res.fatal(&LocalStoreError{Op: "write " + string(c), Err: err})
		log.Error("Failed to write pulled records", zap.Error(err))
	}
	return res
}
