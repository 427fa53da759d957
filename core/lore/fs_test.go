package lore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFSStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewFSStore(root, zap.NewNop())

	records, err := store.ReadCategory(ctx, Characters)
	require.NoError(t, err)
	assert.Empty(t, records, "missing directory reads as empty")

	in := []Record{
		{"id": "ava", "name": "Ava", "domains": []any{"Unity"}},
		{"id": "bren", "name": "Bren", "source": map[string]any{"notion_page_id": "r-9"}},
	}
	require.NoError(t, store.WriteCategory(ctx, Characters, in))

	dir := store.Dir(Characters)
	assert.FileExists(t, filepath.Join(dir, "Ava.json"))
	assert.FileExists(t, filepath.Join(dir, "Bren.json"))
	assert.FileExists(t, filepath.Join(dir, IndexFileName))

	out, err := store.ReadCategory(ctx, Characters)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Ava", out[0].Name())
	assert.Equal(t, "r-9", out[1].RemoteID())
	assert.Equal(t, "characters/formatted/Ava.json", out[0].Get(PathSourceFile))
	assert.Equal(t, "characters", out[0].Get(PathSourceCategory))
	assert.Equal(t, "characters/formatted/Bren.json", in[1].Get(PathSourceFile))
}

func TestFSStoreSourceFileIsHostIndependent(t *testing.T) {
	ctx := context.Background()
	a, b := NewFSStore(t.TempDir(), nil), NewFSStore(t.TempDir(), nil)
	require.NoError(t, a.WriteCategory(ctx, Magic, []Record{{"name": "Glamour"}}))
	require.NoError(t, b.WriteCategory(ctx, Magic, []Record{{"name": "Glamour"}}))

	fromA, err := a.ReadCategory(ctx, Magic)
	require.NoError(t, err)
	fromB, err := b.ReadCategory(ctx, Magic)
	require.NoError(t, err)
	require.Len(t, fromA, 1)
	require.Len(t, fromB, 1)
	assert.Equal(t, fromA[0].Get(PathSourceFile), fromB[0].Get(PathSourceFile))
}

func TestFSStoreSkipsMalformedFiles(t *testing.T) {
	ctx := context.Background()
	store := NewFSStore(t.TempDir(), nil)
	dir := store.Dir(Realms)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{nope"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "list.json"), []byte("[1,2]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Vale.json"), []byte(`{"name":"Vale"}`), 0o644))

	out, err := store.ReadCategory(ctx, Realms)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Vale", out[0].Name())
}

func TestFSStoreKeepsFileNamesUnique(t *testing.T) {
	ctx := context.Background()
	store := NewFSStore(t.TempDir(), nil)
	in := []Record{
		{"name": "Ava", "source": map[string]any{"notion_page_id": "aaaaaaaa-1"}},
		{"name": "Ava", "source": map[string]any{"notion_page_id": "bbbbbbbb-2"}},
	}
	require.NoError(t, store.WriteCategory(ctx, Characters, in))

	out, err := store.ReadCategory(ctx, Characters)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.FileExists(t, filepath.Join(store.Dir(Characters), "Ava_bbbbbbbb.json"))
}

func TestFSStoreScanAndLayout(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewFSStore(root, nil)

	raw := filepath.Join(root, "raw")
	require.NoError(t, os.MkdirAll(raw, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "b.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "a.json"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "notes.txt"), []byte(`x`), 0o644))

	entries, err := store.Scan(ctx, raw)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0].Path, "a.json")

	missing, err := store.MissingLayout(ctx, []Category{Magic, Plots})
	require.NoError(t, err)
	assert.Len(t, missing, 2)
	require.NoError(t, store.FixLayout(ctx, missing))
	missing, err = store.MissingLayout(ctx, []Category{Magic, Plots})
	require.NoError(t, err)
	assert.Empty(t, missing)

	require.NoError(t, store.WriteFile(ctx, "out/regions/vale.json", []any{"x"}))
	assert.FileExists(t, filepath.Join(root, "out", "regions", "vale.json"))
}
