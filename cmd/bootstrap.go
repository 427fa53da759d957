package cmd

import (
	"context"
	"fmt"
	"time"

	"lore-sync/core/config"
	"lore-sync/core/database"
	"lore-sync/core/logger"
	"lore-sync/core/lore"
	"lore-sync/core/normalize"
	"lore-sync/core/reconcile"
	"lore-sync/core/remote"
	"lore-sync/core/remote/memory"
	"lore-sync/core/remote/notion"
	"lore-sync/core/remote/sqltable"
	"lore-sync/core/scheduler"
	"lore-sync/core/storage"

	"go.uber.org/zap"
)

// runtime is the wired application shared by every command.
type runtime struct {
	cfg          *config.Config
	logger       *zap.Logger
	transport    remote.Transport
	store        lore.Store
	engine       *reconcile.Engine
	orchestrator *reconcile.Orchestrator
	normalizer   *normalize.Engine
	scheduler    *scheduler.Scheduler
}

// bootstrap loads and validates configuration and wires the backends.
// Validation runs before anything touches the network or disk.
func bootstrap(dryRun bool) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	transport, tables, err := newTransport(cfg, logg)
	if err != nil {
		return nil, err
	}

	store, err := newStore(cfg, logg)
	if err != nil {
		return nil, err
	}

	registry, err := reconcile.LoadRegistry(cfg.Lore.MappingsDir)
	if err != nil {
		return nil, &config.ConfigurationError{Problems: []string{fmt.Sprintf("lore.mappings_dir: %v", err)}}
	}

	synonyms, err := normalize.LoadSynonyms(cfg.Lore.SynonymsPath)
	if err != nil {
		return nil, &config.ConfigurationError{Problems: []string{fmt.Sprintf("lore.synonyms_path: %v", err)}}
	}

	engine := reconcile.NewEngine(transport, tables, registry, logg)
	orch := reconcile.NewOrchestrator(engine, store, logg, reconcile.BatchOptions{
		Workers: cfg.Lore.Workers,
		DryRun:  dryRun,
	})

	return &runtime{
		cfg:          cfg,
		logger:       logg,
		transport:    transport,
		store:        store,
		engine:       engine,
		orchestrator: orch,
		normalizer:   normalize.NewEngine(store, synonyms, logg),
		scheduler:    scheduler.New(cfg.Scheduler, orch, cfg.Categories(), logg),
	}, nil
}

// newTransport builds the configured remote backend and its table map.
func newTransport(cfg *config.Config, logg *zap.Logger) (remote.Transport, reconcile.TableMap, error) {
	tables := reconcile.TablesFromConfig(cfg.Remote.Tables)

	switch cfg.Remote.Backend {
	case remote.BackendNotion:
		return notion.New(cfg.Remote, logg), tables, nil

	case remote.BackendSQL:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		tr, err := sqltable.New(db, logg)
		if err != nil {
			return nil, nil, err
		}
		// Tables are created on first use, so every category gets a default table name.
		for _, c := range lore.AllCategories {
			if _, ok := tables[c]; !ok {
				tables[c] = "lore_" + string(c)
			}
		}
		return tr, tables, nil

	case remote.BackendMemory:
		tr := memory.New()
		for _, c := range lore.AllCategories {
			if _, ok := tables[c]; !ok {
				tables[c] = string(c)
			}
			tr.CreateTable(tables[c], nil)
		}
		logg.Warn("Using the in-memory remote store; nothing survives a restart")
		return tr, tables, nil
	}
	return nil, nil, fmt.Errorf("unsupported remote backend %q", cfg.Remote.Backend)
}

// newStore builds the configured lore store.
func newStore(cfg *config.Config, logg *zap.Logger) (lore.Store, error) {
	if cfg.Lore.Backend == lore.BackendS3 {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, err
		}
		return lore.NewObjectStore(client, cfg.Storage.Bucket, cfg.Lore.Prefix, logg), nil
	}
	return lore.NewFSStore(cfg.Lore.Root, logg), nil
}

// pingTimeout bounds health checks.
func (r *runtime) pingTimeout() time.Duration {
	return time.Duration(r.cfg.Remote.TimeoutSeconds) * time.Second
}

// logCycle prints a cycle report through the structured logger.
func (r *runtime) logCycle(report *scheduler.CycleReport) {
	for _, mode := range report.Modes {
		for _, c := range report.Categories {
			res, ok := report.Results[mode][c]
			if !ok {
				continue
			}
			fields := []zap.Field{
				zap.String("mode", string(mode)),
				zap.String("category", string(c)),
				zap.Int("created", res.Created),
				zap.Int("updated", res.Updated),
				zap.Int("unchanged", res.Unchanged),
				zap.Int("skipped", res.Skipped),
				zap.Int("failed", res.Failed),
				zap.Duration("duration", res.Duration),
			}
			switch {
			case res.Fatal != "":
				r.logger.Error("Category failed", append(fields, zap.String("fatal", res.Fatal))...)
			case !res.OK():
				r.logger.Warn("Category finished with errors", append(fields, zap.Any("errors", res.Errors))...)
			default:
				r.logger.Info("Category finished", fields...)
			}
			for _, w := range res.Warnings {
				r.logger.Warn("Warning", zap.String("category", string(c)),
					zap.String("kind", string(w.Kind)), zap.String("identifier", w.Identifier), zap.String("message", w.Message))
			}
		}
	}
}

// runModes runs modes once over categories and fails when any category was fatal.
func (r *runtime) runModes(ctx context.Context, categories []lore.Category, modes ...reconcile.Mode) error {
	report, err := r.scheduler.TryRunCategories(ctx, scheduler.TriggerManual, categories, modes...)
	if err != nil {
		return err
	}
	r.logCycle(report)
	var fatal []lore.Category
	for _, mode := range report.Modes {
		fatal = append(fatal, report.Summaries[mode].FatalCategories...)
	}
	if len(fatal) > 0 {
		return fmt.Errorf("categories failed: %v", fatal)
	}
	return nil
}
