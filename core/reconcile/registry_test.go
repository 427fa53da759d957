package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"lore-sync/core/lore"
	"lore-sync/core/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldByProperty(spec MappingSpec, property string) (FieldMapping, bool) {
	for _, f := range spec.Fields {
		if f.Property == property {
			return f, true
		}
	}
	return FieldMapping{}, false
}

func TestDefaultSpecsAreValid(t *testing.T) {
	for _, c := range lore.AllCategories {
		spec, err := DefaultRegistry().Spec(c)
		require.NoError(t, err, c)
		assert.NoError(t, spec.Validate(), c)
		_, ok := fieldByProperty(spec, SourceFileProperty)
		assert.True(t, ok, c)
	}
}

func TestLoadRegistryOverrides(t *testing.T) {
	dir := t.TempDir()
	yamlDoc := `
Age:
  json: age
  type: number
Nickname:
  json: aliases.nickname
  type: text
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "characters.yaml"), []byte(yamlDoc), 0o644))
	jsonDoc := `{"Title": {"json": "name", "type": "title"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plots.json"), []byte(jsonDoc), 0o644))

	r, err := LoadRegistry(dir)
	require.NoError(t, err)

	chars, err := r.Spec(lore.Characters)
	require.NoError(t, err)
	age, _ := fieldByProperty(chars, "Age")
	assert.Equal(t, remote.TypeNumber, age.Type)
	nick, ok := fieldByProperty(chars, "Nickname")
	require.True(t, ok)
	assert.Equal(t, "aliases.nickname", nick.Path)
	assert.Equal(t, remote.TypeText, nick.Type)

	plots, err := r.Spec(lore.Plots)
	require.NoError(t, err)
	title, _ := plots.Title()
	assert.Equal(t, "Title", title.Property)
	_, hasName := fieldByProperty(plots, "Name")
	assert.False(t, hasName)

	realms, err := r.Spec(lore.Realms)
	require.NoError(t, err)
	assert.Equal(t, DefaultSpecs()[lore.Realms].Fields[0].Property, realms.Fields[0].Property)
}

func TestLoadRegistryRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "magic.yml"), []byte("School: {json: school, type: colour}\n"), 0o644))
	_, err := LoadRegistry(dir)
	assert.ErrorContains(t, err, "unknown type")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "magic.yml"), []byte("School: [\n"), 0o644))
	_, err = LoadRegistry(dir)
	assert.ErrorContains(t, err, "failed to parse mapping")
}

func TestLoadRegistryWithoutDir(t *testing.T) {
	r, err := LoadRegistry("")
	require.NoError(t, err)
	spec, err := r.Spec(lore.Creatures)
	require.NoError(t, err)
	assert.Equal(t, DefaultSpecs()[lore.Creatures].Fields, spec.Fields)
}

func TestNewRegistryValidates(t *testing.T) {
	_, err := NewRegistry(MappingSpec{Category: lore.Plots, Fields: []FieldMapping{
		{Path: "name", Property: "Name", Type: remote.TypeText},
	}})
	assert.ErrorContains(t, err, "exactly one title")

	r, err := NewRegistry(MappingSpec{Category: lore.Plots, Fields: []FieldMapping{titleField("name", "Name")}})
	require.NoError(t, err)
	_, err = r.Spec(lore.Magic)
	assert.ErrorIs(t, err, lore.ErrUnknownCategory)
}

func TestTablesFromConfig(t *testing.T) {
	m := TablesFromConfig(remote.Tables{Characters: "db-chars", Plots: "db-plots"})
	id, err := m.Lookup(lore.Characters)
	require.NoError(t, err)
	assert.Equal(t, "db-chars", id)

	_, err = m.Lookup(lore.Realms)
	assert.ErrorIs(t, err, ErrNoTable)
}
