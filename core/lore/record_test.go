package lore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPaths(t *testing.T) {
	rec := Record{"name": "Ava"}

	assert.Nil(t, rec.Get("appearance.notes"))

	rec.Set("appearance.notes", []any{"tall"})
	assert.Equal(t, []any{"tall"}, rec.Get("appearance.notes"))

	rec.Set("name.first", "x")
	assert.Equal(t, "x", rec.Get("name.first"), "scalar in the way is replaced")

	rec.Delete("appearance.notes")
	assert.Nil(t, rec.Get("appearance.notes"))
	rec.Delete("missing.path")
}

func TestRemoteIDAlias(t *testing.T) {
	rec := Record{"name": "Ava", "source": map[string]any{"remote_id": " r-1 "}}
	assert.Equal(t, "r-1", rec.RemoteID())

	rec.SetRemoteID("r-2")
	assert.Equal(t, "r-2", rec.RemoteID())
	assert.Nil(t, rec.Get(PathRemoteIDAlias))
	assert.Equal(t, "r-2", rec.Get(PathRemoteID))
}

func TestCloneIsDeep(t *testing.T) {
	rec := Record{
		"name":    "Ava",
		"domains": []any{"Unity"},
		"source":  map[string]any{"file": "a.json"},
	}
	cp := rec.Clone()
	cp.Set("source.file", "b.json")
	cp["domains"].([]any)[0] = "Chaos"

	assert.Equal(t, "a.json", rec.Get("source.file"))
	assert.Equal(t, "Unity", rec["domains"].([]any)[0])
}

func TestNamesAndSlugs(t *testing.T) {
	assert.Equal(t, "ava the bright", NormalizeName("  Ava   the\tBright "))
	assert.Equal(t, "ava_the_bright", Slug("Ava the Bright!"))
	assert.Equal(t, "unnamed", Slug("!!!"))
	assert.Equal(t, "Lady_Ysolde_s_Court.json", SafeFileName("Lady Ysolde's Court.json"))
}

func TestEqualIgnoresSliceType(t *testing.T) {
	assert.True(t, Equal([]string{"a", "b"}, []any{"a", "b"}))
	assert.True(t, Equal(3, 3.0))
	assert.False(t, Equal([]any{"a"}, []any{"b"}))
}

func TestMarshalKeepsAmpersands(t *testing.T) {
	data, err := Marshal(map[string]any{"b": "Salt & Ash", "a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": \"Salt & Ash\"\n}\n", string(data))
}
