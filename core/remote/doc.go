// Package remote describes the tabular store that lore records are reconciled against.
//
// A Transport exposes rows, a per-table property schema and the additive operations the
// reconciler needs. Property values are tagged with a PropertyType so codecs never guess.
// Transport failures are *CallError values carrying the status code and whether a retry is
// worthwhile; retries happen inside transports, never in callers.
//
// Implementations live in subpackages: notion (Notion REST API), sqltable (one SQL table per
// category through gorm) and memory (in-process, with failure injection).
package remote
