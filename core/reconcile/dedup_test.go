package reconcile

import (
	"testing"
	"time"

	"lore-sync/core/lore"
	"lore-sync/core/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedRow(id, name string, edited int) remote.Row {
	return remote.Row{
		ID:         id,
		LastEdited: time.Date(2024, 1, 1, 0, 0, edited, 0, time.UTC),
		Properties: map[string]remote.Value{"Name": remote.TextValue(remote.TypeTitle, name)},
	}
}

func newIndex(t *testing.T, rows ...remote.Row) *DedupIndex {
	return NewDedupIndex(lore.Characters, characterMapper(t), rows)
}

func TestResolveByName(t *testing.T) {
	idx := newIndex(t, namedRow("r1", "Ava", 1), namedRow("r2", "Bram", 2))

	res := idx.Resolve(lore.Record{"name": "  AVA "})
	require.NotNil(t, res.Row)
	assert.Equal(t, "r1", res.Row.ID)
	assert.True(t, res.ByName)
	assert.Empty(t, res.Warnings)

	assert.Nil(t, idx.Resolve(lore.Record{"name": "Cael"}).Row)
}

func TestResolveStampWins(t *testing.T) {
	idx := newIndex(t, namedRow("r1", "Ava", 1), namedRow("r2", "Ava", 2))

	rec := lore.Record{"name": "Ava"}
	rec.SetRemoteID("r1")
	res := idx.Resolve(rec)
	require.NotNil(t, res.Row)
	assert.Equal(t, "r1", res.Row.ID)
	assert.False(t, res.ByName)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, KindIdentityConflict, Classify(res.Warnings[0]))
}

func TestResolveStaleStampFallsBackToName(t *testing.T) {
	idx := newIndex(t, namedRow("r2", "Ava", 1))

	rec := lore.Record{"name": "Ava", "source": map[string]any{"remote_id": "gone"}}
	res := idx.Resolve(rec)
	require.NotNil(t, res.Row)
	assert.Equal(t, "r2", res.Row.ID)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, KindStaleRemoteID, Classify(res.Warnings[0]))
}

func TestResolveDuplicatesPickMostRecent(t *testing.T) {
	idx := newIndex(t, namedRow("r1", "Ava", 1), namedRow("r3", "ava", 5), namedRow("r2", "Ava", 3))

	res := idx.Resolve(lore.Record{"name": "Ava"})
	require.NotNil(t, res.Row)
	assert.Equal(t, "r3", res.Row.ID)
	require.Len(t, res.Warnings, 1)
	var dup *DuplicateNameWarning
	require.ErrorAs(t, res.Warnings[0], &dup)
	assert.Equal(t, []string{"r1", "r2", "r3"}, dup.RowIDs)
	assert.Equal(t, "r3", dup.Chosen)
}

func TestResolveDuplicateTieGoesToSmallestID(t *testing.T) {
	idx := newIndex(t, namedRow("rb", "Ava", 1), namedRow("ra", "Ava", 1))
	assert.Equal(t, "ra", idx.Resolve(lore.Record{"name": "Ava"}).Row.ID)
}

func TestIndexTracksWrites(t *testing.T) {
	idx := newIndex(t, namedRow("r1", "Ava", 1))

	idx.Add(namedRow("r2", "Bram", 2))
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, "r2", idx.Resolve(lore.Record{"name": "bram"}).Row.ID)

	idx.Apply("r1", map[string]remote.Value{"Name": remote.TextValue(remote.TypeTitle, "Ava Morn")})
	assert.Nil(t, idx.Resolve(lore.Record{"name": "Ava"}).Row)
	assert.Equal(t, "r1", idx.Resolve(lore.Record{"name": "Ava Morn"}).Row.ID)
	assert.Equal(t, 2, idx.Len())
}
