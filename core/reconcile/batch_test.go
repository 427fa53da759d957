package reconcile

import (
	"context"
	"errors"
	"testing"

	"lore-sync/core/lore"
	"lore-sync/core/remote"
	"lore-sync/core/remote/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOrchestrator(t *testing.T, opts BatchOptions) (*Orchestrator, *memory.Transport, *lore.MemoryStore) {
	t.Helper()
	e, tr := newTestEngine(t)
	store := lore.NewMemoryStore()
	return NewOrchestrator(e, store, zap.NewNop(), opts), tr, store
}

func TestPublishPersistsStamps(t *testing.T) {
	o, tr, store := newTestOrchestrator(t, BatchOptions{})
	store.Put(lore.Characters, character("Ava", nil), character("Bram", nil))
	store.Put(lore.Realms, lore.Record{"id": "vale", "name": "The Vale"})

	results := o.RunAll(context.Background(), ModePublish, lore.AllCategories)
	require.Len(t, results, len(lore.AllCategories))
	assert.Equal(t, 2, results[lore.Characters].Created)
	assert.Equal(t, 1, results[lore.Realms].Created)
	assert.Zero(t, results[lore.Plots].Total())

	for _, rec := range store.Records(lore.Characters) {
		assert.NotEmpty(t, rec.RemoteID())
	}
	assert.Equal(t, 1, store.Writes(lore.Characters))
	assert.Zero(t, store.Writes(lore.Plots), "nothing stamped, nothing written")

	writes := tr.Writes()
	again := o.RunAll(context.Background(), ModePublish, lore.AllCategories)
	assert.Equal(t, 2, again[lore.Characters].Unchanged)
	assert.Equal(t, writes, tr.Writes())
	assert.Equal(t, 1, store.Writes(lore.Characters))
}

func TestBatchIsolatesCategories(t *testing.T) {
	o, _, store := newTestOrchestrator(t, BatchOptions{Workers: 3})
	store.Put(lore.Characters, character("Ava", nil))
	store.Put(lore.Magic, lore.Record{"name": "Glamour"})
	store.FailRead[lore.Creatures] = errors.New("disk gone")
	store.FailWrite[lore.Magic] = errors.New("read-only")

	results := o.RunAll(context.Background(), ModePublish, lore.AllCategories)

	assert.True(t, results[lore.Characters].OK())
	assert.Equal(t, 1, results[lore.Characters].Created)
	assert.Contains(t, results[lore.Creatures].Fatal, "disk gone")
	assert.Contains(t, results[lore.Magic].Fatal, "read-only")
	assert.Equal(t, 1, results[lore.Magic].Created)

	s := Summarize(results)
	assert.Equal(t, []lore.Category{lore.Creatures, lore.Magic}, s.FatalCategories)
	assert.Equal(t, 2, s.Created)
}

func TestBatchMissingTableIsFatalForThatCategory(t *testing.T) {
	tr := memory.New()
	tr.CreateTable("tbl_characters", nil)
	e := NewEngine(tr, TableMap{lore.Characters: "tbl_characters"}, nil, zap.NewNop())
	store := lore.NewMemoryStore()
	store.Put(lore.Characters, character("Ava", nil))
	store.Put(lore.Plots, lore.Record{"name": "The Long Night"})
	o := NewOrchestrator(e, store, zap.NewNop(), BatchOptions{})

	results := o.RunAll(context.Background(), ModePublish, []lore.Category{lore.Characters, lore.Plots})
	assert.Equal(t, 1, results[lore.Characters].Created)
	assert.Contains(t, results[lore.Plots].Fatal, "no remote table configured")
	assert.Equal(t, 1, results[lore.Plots].Skipped)
}

func TestPublishReportsSchemaConflicts(t *testing.T) {
	tr := memory.New()
	tr.CreateTable(charTable, remote.Schema{"Name": remote.TypeTitle, "Court": remote.TypeNumber})
	store := lore.NewMemoryStore()
	store.Put(lore.Characters, character("Ava", map[string]any{"court": "Sun Court"}))
	o := NewOrchestrator(NewEngine(tr, testTables(), nil, zap.NewNop()), store, zap.NewNop(), BatchOptions{})

	res := o.RunCategory(context.Background(), ModePublish, lore.Characters)
	assert.Equal(t, 1, res.Created)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, KindSchemaConflict, res.Warnings[0].Kind)
	assert.Equal(t, "Court", res.Warnings[0].Identifier)
}

func TestPublishDryRunWritesNothing(t *testing.T) {
	o, tr, store := newTestOrchestrator(t, BatchOptions{DryRun: true})
	store.Put(lore.Characters, character("Ava", nil))

	res := o.RunCategory(context.Background(), ModePublish, lore.Characters)
	assert.Equal(t, 1, res.Created)
	assert.Zero(t, tr.Calls(memory.OpCreateRow))
	assert.Zero(t, store.Writes(lore.Characters))
}

func TestWithDryRunLeavesOriginalWriting(t *testing.T) {
	o, tr, store := newTestOrchestrator(t, BatchOptions{})
	store.Put(lore.Characters, character("Ava", nil))

	dry := o.WithDryRun().RunCategory(context.Background(), ModePublish, lore.Characters)
	assert.Equal(t, 1, dry.Created)
	assert.Zero(t, tr.Calls(memory.OpCreateRow))

	res := o.RunCategory(context.Background(), ModePublish, lore.Characters)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, tr.Calls(memory.OpCreateRow))
	assert.Equal(t, 1, store.Writes(lore.Characters))
}

func TestPullModeWritesOnlyOnChange(t *testing.T) {
	o, tr, store := newTestOrchestrator(t, BatchOptions{})
	seedCharacter(tr, "Ava", map[string]remote.Value{"Role": remote.TextValue(remote.TypeText, "Warden")})

	res := o.RunCategory(context.Background(), ModePull, lore.Characters)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, store.Writes(lore.Characters))
	recs := store.Records(lore.Characters)
	require.Len(t, recs, 1)
	assert.Equal(t, "Warden", recs[0]["role"])

	res = o.RunCategory(context.Background(), ModePull, lore.Characters)
	assert.Equal(t, 1, res.Unchanged)
	assert.Equal(t, 1, store.Writes(lore.Characters))
}

func TestRunCategoryUnknownMode(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, BatchOptions{})
	res := o.RunCategory(context.Background(), Mode("sideways"), lore.Characters)
	assert.Contains(t, res.Fatal, "unknown mode")
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("pull")
	require.NoError(t, err)
	assert.Equal(t, ModePull, m)
	_, err = ParseMode("push")
	assert.Error(t, err)
}
