package reconcile

import (
	"context"
	"testing"

	"lore-sync/core/lore"
	"lore-sync/core/remote/memory"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testTables maps every category to a table named after it.
func testTables() TableMap {
	m := TableMap{}
	for _, c := range lore.AllCategories {
		m[c] = "tbl_" + string(c)
	}
	return m
}

// newTestEngine returns an engine over an in-memory transport with empty tables.
func newTestEngine(t *testing.T) (*Engine, *memory.Transport) {
	t.Helper()
	tr := memory.New()
	for _, id := range testTables() {
		tr.CreateTable(id, nil)
	}
	return NewEngine(tr, testTables(), DefaultRegistry(), zap.NewNop()), tr
}

// mustEnsure runs EnsureSchema and fails the test on error.
func mustEnsure(t *testing.T, e *Engine, c lore.Category) *SchemaReport {
	t.Helper()
	_, report, err := e.EnsureSchema(context.Background(), c)
	require.NoError(t, err)
	return report
}

func character(name string, extra map[string]any) lore.Record {
	rec := lore.Record{"id": lore.Slug(name), "name": name}
	for k, v := range extra {
		rec[k] = v
	}
	return rec
}
