// Package reconcile decides, per category, which local lore records are created,
// updated or left alone in the remote store, and merges remote rows back.
//
// # Components
//
//   - Mapper: converts records to typed remote properties and back, per MappingSpec.
//   - SchemaManager: adds missing properties; conflicts are reported and excluded.
//   - DedupIndex: matches records to rows by stamped id, then by normalized name.
//   - Engine.Push / Engine.Pull: the per-category cycles.
//   - Orchestrator: runs a mode over several categories with failure isolation.
//
// # Identity
//
// A record is bound to its row by source.notion_page_id. Records that were never
// stamped adopt the row carrying the same normalized name; when several rows share a
// name the most recently edited one wins and a DuplicateNameWarning is reported.
// Stamps are persisted by the orchestrator after every publish.
//
// # Usage
//
//	engine := reconcile.NewEngine(transport, reconcile.TablesFromConfig(cfg.Remote.Tables), registry, logger)
//	orchestrator := reconcile.NewOrchestrator(engine, store, logger, reconcile.BatchOptions{Workers: 1})
//	results := orchestrator.RunAll(ctx, reconcile.ModePublish, lore.AllCategories)
package reconcile
