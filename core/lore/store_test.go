package lore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexEntry(t *testing.T) {
	rec := Record{
		"id":      "ava",
		"name":    "Ava",
		"realm":   "Elarion",
		"secret":  "not projected",
		"source":  map[string]any{"notion_page_id": "row-1"},
		"domains": []any{"Unity"},
	}
	assert.Equal(t, map[string]any{
		"id":             "ava",
		"name":           "Ava",
		"titles":         []any{},
		"realm":          "Elarion",
		"court":          nil,
		"domains":        []any{"Unity"},
		"notion_page_id": "row-1",
	}, IndexEntry(Characters, rec))

	creature := Record{"id": "wisp", "name": "Wisp", "source": map[string]any{"group": "Ethereal"}}
	assert.Equal(t, "Ethereal", IndexEntry(Creatures, creature)["group"])
	assert.NotContains(t, IndexEntry(Creatures, creature), "notion_page_id")
}

func TestFileNamerKeepsNamesUnique(t *testing.T) {
	n := newFileNamer()
	a := Record{"name": "Ava", "source": map[string]any{"notion_page_id": "0123456789"}}
	b := Record{"name": "Ava", "source": map[string]any{"notion_page_id": "abcdefghij"}}
	c := Record{"name": "Bram", "source": map[string]any{"file": "lore/characters/formatted/Bram_Old.json"}}

	assert.Equal(t, "Ava.json", n.name(a))
	assert.Equal(t, "Ava_abcdefgh.json", n.name(b))
	assert.Equal(t, "Bram_Old.json", n.name(c))
}

func TestFileNamerNeverReusesSuffixedName(t *testing.T) {
	n := newFileNamer()
	first := Record{"name": "Ava"}
	second := Record{"name": "Ava", "source": map[string]any{"file": "characters/formatted/Ava_2.json"}}
	third := Record{"name": "Ava"}

	assert.Equal(t, "Ava.json", n.name(first))
	assert.Equal(t, "Ava_2.json", n.name(second))
	assert.Equal(t, "Ava_3.json", n.name(third))
}
