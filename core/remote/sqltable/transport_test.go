package sqltable

import (
	"context"
	"errors"
	"testing"

	"lore-sync/core/database"
	"lore-sync/core/remote"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newSQLiteTransport(t *testing.T) (*Transport, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	tr, err := New(db, zap.NewNop())
	require.NoError(t, err)
	return tr, db
}

func TestSchemaIsAdditive(t *testing.T) {
	ctx := context.Background()
	tr, db := newSQLiteTransport(t)

	schema, err := tr.GetSchema(ctx, "lore_creatures")
	require.NoError(t, err)
	assert.Empty(t, schema)

	require.NoError(t, tr.CreateProperty(ctx, "lore_creatures", "Name", remote.TypeTitle))
	require.NoError(t, tr.CreateProperty(ctx, "lore_creatures", "Danger Level", remote.TypeSelect))
	require.NoError(t, tr.CreateProperty(ctx, "lore_creatures", "Danger Level", remote.TypeSelect), "same type is a no-op")

	err = tr.CreateProperty(ctx, "lore_creatures", "Danger Level", remote.TypeNumber)
	var ce *remote.CallError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 409, ce.StatusCode)

	assert.Error(t, tr.CreateProperty(ctx, "lore_creatures", "Title", remote.TypeTitle), "second title rejected")

	schema, err = tr.GetSchema(ctx, "lore_creatures")
	require.NoError(t, err)
	assert.Equal(t, remote.Schema{"Name": remote.TypeTitle, "Danger Level": remote.TypeSelect}, schema)

	cols, err := database.ColumnSet(db, "lore_creatures")
	require.NoError(t, err)
	assert.True(t, cols["danger_level"])
}

func TestRowRoundTrip(t *testing.T) {
	ctx := context.Background()
	tr, _ := newSQLiteTransport(t)
	table := "lore_characters"
	for name, pt := range map[string]remote.PropertyType{
		"Name":    remote.TypeTitle,
		"Domains": remote.TypeMultiSelect,
		"Age":     remote.TypeNumber,
		"Alive":   remote.TypeCheckbox,
		"Court":   remote.TypeSelect,
	} {
		require.NoError(t, tr.CreateProperty(ctx, table, name, pt))
	}

	id, err := tr.CreateRow(ctx, table, map[string]remote.Value{
		"Name":    remote.TextValue(remote.TypeTitle, "Ava"),
		"Domains": remote.ListValue(remote.TypeMultiSelect, []string{"Unity", "Dawn"}),
		"Age":     remote.NumberValue(31),
		"Alive":   remote.CheckboxValue(true),
	})
	require.NoError(t, err)

	_, err = tr.CreateRow(ctx, table, map[string]remote.Value{"Hair": remote.TextValue(remote.TypeText, "red")})
	assert.Error(t, err, "unknown property")

	require.NoError(t, tr.UpdateRow(ctx, table, id, map[string]remote.Value{
		"Court": remote.TextValue(remote.TypeSelect, "Sun Court"),
	}))
	err = tr.UpdateRow(ctx, table, "missing", map[string]remote.Value{"Court": remote.TextValue(remote.TypeSelect, "x")})
	assert.True(t, remote.IsNotFound(err))

	rows, err := tr.ListRows(ctx, table)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, id, row.ID)
	assert.False(t, row.LastEdited.IsZero())
	assert.Equal(t, "Ava", row.Properties["Name"].Text)
	assert.ElementsMatch(t, []string{"Unity", "Dawn"}, row.Properties["Domains"].Items)
	assert.Equal(t, 31.0, *row.Properties["Age"].Number)
	assert.True(t, row.Properties["Alive"].Bool)
	assert.Equal(t, "Sun Court", row.Properties["Court"].Text)

	assert.NoError(t, tr.Ping(ctx))
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "danger_level", columnName("Danger Level", nil))
	assert.Equal(t, "p_1st_age", columnName("1st Age", nil))
	assert.Equal(t, "row_id_2", columnName("Row ID", nil))
	assert.Equal(t, "notes_2", columnName("Notes!", map[string]bool{"notes": true}))
	assert.Equal(t, "property", columnName("???", nil))
}

func TestDecodeColumn(t *testing.T) {
	assert.Equal(t, []string{"a"}, decodeColumn(remote.TypeMultiSelect, []byte(`["a"]`)).Items)
	assert.Equal(t, []string{"loose"}, decodeColumn(remote.TypeRelation, "loose").Items)
	assert.True(t, decodeColumn(remote.TypeNumber, nil).IsEmpty())
	assert.True(t, decodeColumn(remote.TypeCheckbox, int64(1)).Bool)
	assert.Equal(t, 2.5, *decodeColumn(remote.TypeNumber, []byte("2.5")).Number)
}

func TestListRowsReportsCatalogueFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	tr := &Transport{db: db, logger: zap.NewNop(), ready: map[string]bool{"lore_plots": true}}
	mock.ExpectQuery("lore_sync_properties").WillReturnError(errors.New("connection reset"))

	_, err = tr.ListRows(context.Background(), "lore_plots")
	var ce *remote.CallError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "list_rows", ce.Op)
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
