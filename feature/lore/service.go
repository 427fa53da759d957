package lore

import (
	"context"

	"lore-sync/core/lore"
	"lore-sync/core/normalize"
	"lore-sync/core/reconcile"
	"lore-sync/core/scheduler"

	"go.uber.org/zap"
)

// Service exposes reconciliation operations to the HTTP layer.
// Every run that writes goes through the scheduler's single-flight guard.
type Service struct {
	orchestrator *reconcile.Orchestrator
	normalizer   *normalize.Engine
	scheduler    *scheduler.Scheduler
	logger       *zap.Logger
}

// NewService creates a new lore service.
func NewService(orchestrator *reconcile.Orchestrator, normalizer *normalize.Engine, sched *scheduler.Scheduler, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orchestrator: orchestrator,
		normalizer:   normalizer,
		scheduler:    sched,
		logger:       logger,
	}
}

// EnsureSchema adds missing mapped properties to the remote table of c.
func (s *Service) EnsureSchema(ctx context.Context, c lore.Category) (*reconcile.SchemaReport, error) {
	_, report, err := s.orchestrator.Engine().EnsureSchema(ctx, c)
	return report, err
}

// Push publishes the local records of c. A dry run writes nothing and skips the guard.
func (s *Service) Push(ctx context.Context, c lore.Category, dryRun bool) (reconcile.Result, error) {
	return s.runOne(ctx, reconcile.ModePublish, c, dryRun)
}

// Pull merges the remote rows of c into the local records.
func (s *Service) Pull(ctx context.Context, c lore.Category, dryRun bool) (reconcile.Result, error) {
	return s.runOne(ctx, reconcile.ModePull, c, dryRun)
}

func (s *Service) runOne(ctx context.Context, mode reconcile.Mode, c lore.Category, dryRun bool) (reconcile.Result, error) {
	if dryRun {
		return s.orchestrator.WithDryRun().RunCategory(ctx, mode, c), nil
	}
	report, err := s.scheduler.TryRunCategories(ctx, scheduler.TriggerManual, []lore.Category{c}, mode)
	if err != nil {
		return reconcile.Result{}, err
	}
	return report.Results[mode][c], nil
}

// Normalize converts raw documents into canonical records.
func (s *Service) Normalize(ctx context.Context, opts normalize.Options) (*normalize.Result, error) {
	return s.normalizer.Run(ctx, opts)
}

// RunBatch runs mode over categories (all configured ones when empty).
// It returns scheduler.ErrBusy when a cycle is already running.
func (s *Service) RunBatch(ctx context.Context, mode reconcile.Mode, categories []lore.Category) (*scheduler.CycleReport, error) {
	return s.scheduler.TryRunCategories(ctx, scheduler.TriggerManual, categories, mode)
}
