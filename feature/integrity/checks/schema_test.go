package checks

import (
	"context"
	"fmt"
	"testing"

	"lore-sync/core/lore"
	"lore-sync/core/reconcile"
	"lore-sync/core/remote"
	"lore-sync/core/remote/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubInspector map[lore.Category]func() (*reconcile.SchemaReport, error)

func (s stubInspector) Inspect(_ context.Context, c lore.Category) (*reconcile.SchemaReport, error) {
	return s[c]()
}

func TestCheckSchemaStatuses(t *testing.T) {
	inspector := stubInspector{
		lore.Characters: func() (*reconcile.SchemaReport, error) {
			return &reconcile.SchemaReport{TableID: "tbl_c", TitleProperty: "Name"}, nil
		},
		lore.Creatures: func() (*reconcile.SchemaReport, error) {
			return &reconcile.SchemaReport{TableID: "tbl_k", Missing: []string{"Danger"}}, nil
		},
		lore.Plots: func() (*reconcile.SchemaReport, error) {
			return nil, fmt.Errorf("plots: %w", reconcile.ErrNoTable)
		},
		lore.Magic: func() (*reconcile.SchemaReport, error) {
			return nil, remote.NewCallError("get_schema", "tbl_m", 503, assert.AnError)
		},
	}

	report := CheckSchema(context.Background(), inspector, []lore.Category{lore.Characters, lore.Creatures, lore.Plots, lore.Magic})

	assert.False(t, report.Matched)
	assert.Equal(t, "ok", report.Categories[lore.Characters].Status)
	assert.Equal(t, "Name", report.Categories[lore.Characters].TitleProperty)
	assert.Equal(t, "drift", report.Categories[lore.Creatures].Status)
	assert.Equal(t, []string{"Danger"}, report.Categories[lore.Creatures].Missing)
	assert.Equal(t, "unconfigured", report.Categories[lore.Plots].Status)
	assert.Equal(t, "error", report.Categories[lore.Magic].Status)
}

func TestCheckSchemaUnconfiguredStillMatches(t *testing.T) {
	inspector := stubInspector{
		lore.Plots: func() (*reconcile.SchemaReport, error) {
			return nil, fmt.Errorf("plots: %w", reconcile.ErrNoTable)
		},
	}
	report := CheckSchema(context.Background(), inspector, []lore.Category{lore.Plots})
	assert.True(t, report.Matched)
}

func TestCheckSchemaAgainstEnsuredTable(t *testing.T) {
	tr := memory.New()
	tr.CreateTable("tbl_magic", nil)
	tables := reconcile.TableMap{lore.Magic: "tbl_magic"}
	schema := reconcile.NewSchemaManager(tr, tables, reconcile.DefaultRegistry(), zap.NewNop())

	before := CheckSchema(context.Background(), schema, []lore.Category{lore.Magic})
	require.False(t, before.Matched)
	assert.NotEmpty(t, before.Categories[lore.Magic].Missing)

	_, _, err := schema.Ensure(context.Background(), lore.Magic)
	require.NoError(t, err)

	after := CheckSchema(context.Background(), schema, []lore.Category{lore.Magic})
	assert.True(t, after.Matched)
	assert.Equal(t, "ok", after.Categories[lore.Magic].Status)
}
