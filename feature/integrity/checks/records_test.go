package checks

import (
	"context"
	"errors"
	"testing"

	"lore-sync/core/lore"

	"github.com/stretchr/testify/assert"
)

func TestCheckRecords(t *testing.T) {
	store := lore.NewMemoryStore()
	stamped := lore.Record{"name": "Ava"}
	stamped.SetRemoteID("row-1")
	store.Put(lore.Characters, stamped, lore.Record{"name": "Bram"}, lore.Record{"titles": []any{"Nameless"}})
	store.FailRead[lore.Magic] = errors.New("disk gone")

	reports := CheckRecords(context.Background(), store, []lore.Category{lore.Characters, lore.Magic, lore.Plots})

	chars := reports[lore.Characters]
	assert.Equal(t, "ok", chars.Status)
	assert.Equal(t, 3, chars.Count)
	assert.Equal(t, 1, chars.Stamped)
	assert.Equal(t, []string{"Bram"}, chars.Unstamped)
	assert.Equal(t, 1, chars.Unnamed)

	assert.Equal(t, "error", reports[lore.Magic].Status)
	assert.Contains(t, reports[lore.Magic].Error, "disk gone")

	assert.Equal(t, "ok", reports[lore.Plots].Status)
	assert.Zero(t, reports[lore.Plots].Count)
}
