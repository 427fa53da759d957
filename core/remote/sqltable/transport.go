package sqltable

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"lore-sync/core/database"
	"lore-sync/core/remote"
	"lore-sync/core/utils"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Transport stores category tables in a SQL database.
type Transport struct {
	db     *gorm.DB
	logger *zap.Logger

	mu        sync.Mutex
	ready     map[string]bool
	lastStamp int64
}

// New prepares the property catalogue and returns the transport.
func New(db *gorm.DB, logger *zap.Logger) (*Transport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&propertyRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate property catalogue: %w", err)
	}
	return &Transport{db: db, logger: logger, ready: map[string]bool{}}, nil
}

// stamp returns a strictly increasing edit time in unix milliseconds.
func (t *Transport) stamp() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now().UnixMilli()
	if now <= t.lastStamp {
		now = t.lastStamp + 1
	}
	t.lastStamp = now
	return now
}

func callErr(op, table string, err error) error {
	return remote.NewCallError(op, table, 0, err)
}

// ensureTable creates the base table on first use.
func (t *Transport) ensureTable(ctx context.Context, table string) error {
	t.mu.Lock()
	done := t.ready[table]
	t.mu.Unlock()
	if done {
		return nil
	}
	err := t.db.WithContext(ctx).Exec(
		"CREATE TABLE IF NOT EXISTS ? (row_id VARCHAR(36) NOT NULL PRIMARY KEY, last_edited BIGINT NOT NULL)",
		clause.Table{Name: table},
	).Error
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.ready[table] = true
	t.mu.Unlock()
	return nil
}

func (t *Transport) catalogue(ctx context.Context, table string) ([]propertyRecord, error) {
	var recs []propertyRecord
	err := t.db.WithContext(ctx).Where("table_name = ?", table).Order("property").Find(&recs).Error
	return recs, err
}

func byProperty(recs []propertyRecord) map[string]propertyRecord {
	out := make(map[string]propertyRecord, len(recs))
	for _, r := range recs {
		out[r.Property] = r
	}
	return out
}

// GetSchema implements remote.Transport. Catalogue entries whose column has gone
// missing are left out so the schema manager re-adds them.
func (t *Transport) GetSchema(ctx context.Context, table string) (remote.Schema, error) {
	if err := t.ensureTable(ctx, table); err != nil {
		return nil, callErr("get_schema", table, err)
	}
	recs, err := t.catalogue(ctx, table)
	if err != nil {
		return nil, callErr("get_schema", table, err)
	}
	cols, err := database.ColumnSet(t.db.WithContext(ctx), table)
	if err != nil {
		return nil, callErr("get_schema", table, err)
	}
	schema := make(remote.Schema, len(recs))
	for _, r := range recs {
		if !cols[r.Column] {
			t.logger.Warn("Catalogued property has no column",
				zap.String("table", table), zap.String("property", r.Property), zap.String("column", r.Column))
			continue
		}
		schema[r.Property] = remote.PropertyType(r.Type)
	}
	return schema, nil
}

// CreateProperty implements remote.Transport.
func (t *Transport) CreateProperty(ctx context.Context, table, name string, pt remote.PropertyType) error {
	const op = "create_property"
	if err := t.ensureTable(ctx, table); err != nil {
		return callErr(op, table, err)
	}
	recs, err := t.catalogue(ctx, table)
	if err != nil {
		return callErr(op, table, err)
	}
	taken := map[string]bool{}
	for _, r := range recs {
		if r.Property == name {
			if remote.PropertyType(r.Type) != pt {
				return remote.NewCallError(op, table, http.StatusConflict,
					fmt.Errorf("property %q already exists as %s", name, r.Type))
			}
			return t.ensureColumn(ctx, table, r)
		}
		if pt == remote.TypeTitle && remote.PropertyType(r.Type) == remote.TypeTitle {
			return remote.NewCallError(op, table, http.StatusBadRequest,
				fmt.Errorf("table already has title property %q", r.Property))
		}
		taken[r.Column] = true
	}

	rec := propertyRecord{Table: table, Property: name, Column: columnName(name, taken), Type: string(pt)}
	if err := t.ensureColumn(ctx, table, rec); err != nil {
		return err
	}
	if err := t.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return callErr(op, table, err)
	}
	return nil
}

// ensureColumn adds the column of rec when it is missing.
func (t *Transport) ensureColumn(ctx context.Context, table string, rec propertyRecord) error {
	db := t.db.WithContext(ctx)
	if db.Migrator().HasColumn(table, rec.Column) {
		return nil
	}
	sqlType := columnType(db.Dialector.Name(), remote.PropertyType(rec.Type))
	err := db.Exec("ALTER TABLE ? ADD COLUMN ? "+sqlType, clause.Table{Name: table}, clause.Column{Name: rec.Column}).Error
	if err != nil {
		return callErr("create_property", table, fmt.Errorf("add column %s: %w", rec.Column, err))
	}
	t.logger.Info("Added property column",
		zap.String("table", table), zap.String("property", rec.Property), zap.String("column", rec.Column))
	return nil
}

// columnValues converts properties into column values, rejecting unknown properties.
func columnValues(op, table string, cat map[string]propertyRecord, props map[string]remote.Value) (map[string]any, error) {
	values := make(map[string]any, len(props)+2)
	for name, v := range props {
		rec, ok := cat[name]
		if !ok {
			return nil, remote.NewCallError(op, table, http.StatusBadRequest, fmt.Errorf("property %q does not exist", name))
		}
		enc, err := encodeColumn(v)
		if err != nil {
			return nil, remote.NewCallError(op, table, http.StatusBadRequest, fmt.Errorf("property %q: %w", name, err))
		}
		values[rec.Column] = enc
	}
	return values, nil
}

// CreateRow implements remote.Transport.
func (t *Transport) CreateRow(ctx context.Context, table string, props map[string]remote.Value) (string, error) {
	const op = "create_row"
	recs, err := t.catalogue(ctx, table)
	if err != nil {
		return "", callErr(op, table, err)
	}
	values, err := columnValues(op, table, byProperty(recs), props)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	values[columnRowID] = id
	values[columnLastEdited] = t.stamp()
	if err := t.db.WithContext(ctx).Table(table).Create(values).Error; err != nil {
		return "", callErr(op, table, err)
	}
	return id, nil
}

// UpdateRow implements remote.Transport.
func (t *Transport) UpdateRow(ctx context.Context, table, rowID string, props map[string]remote.Value) error {
	const op = "update_row"
	recs, err := t.catalogue(ctx, table)
	if err != nil {
		return callErr(op, table, err)
	}
	values, err := columnValues(op, table, byProperty(recs), props)
	if err != nil {
		return err
	}
	values[columnLastEdited] = t.stamp()

	db := t.db.WithContext(ctx)
	res := db.Table(table).Where("row_id = ?", rowID).Updates(values)
	if res.Error != nil {
		return callErr(op, table, res.Error)
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.Table(table).Where("row_id = ?", rowID).Count(&n).Error; err != nil {
			return callErr(op, table, err)
		}
		if n == 0 {
			return remote.NewCallError(op, table, http.StatusNotFound, fmt.Errorf("row %s not found", rowID))
		}
	}
	return nil
}

// ListRows implements remote.Transport.
func (t *Transport) ListRows(ctx context.Context, table string) ([]remote.Row, error) {
	const op = "list_rows"
	if err := t.ensureTable(ctx, table); err != nil {
		return nil, callErr(op, table, err)
	}
	recs, err := t.catalogue(ctx, table)
	if err != nil {
		return nil, callErr(op, table, err)
	}
	byColumn := make(map[string]propertyRecord, len(recs))
	for _, r := range recs {
		byColumn[r.Column] = r
	}

	// Raw scanning keeps driver values intact for the property decoders.
	rows, err := t.db.WithContext(ctx).
		Raw("SELECT * FROM ? ORDER BY last_edited, row_id", clause.Table{Name: table}).
		Rows()
	if err != nil {
		return nil, callErr(op, table, err)
	}
	defer rows.Close()

	out, err := scanRows(rows, byColumn)
	if err != nil {
		return nil, callErr(op, table, err)
	}
	return out, nil
}

func scanRows(rows *sql.Rows, byColumn map[string]propertyRecord) ([]remote.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []remote.Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := remote.Row{Properties: map[string]remote.Value{}}
		for i, col := range columns {
			switch col {
			case columnRowID:
				row.ID = utils.ToString(values[i])
			case columnLastEdited:
				row.LastEdited = time.UnixMilli(int64(utils.ToInt(values[i]))).UTC()
			default:
				rec, ok := byColumn[col]
				if !ok {
					continue
				}
				row.Properties[rec.Property] = decodeColumn(remote.PropertyType(rec.Type), values[i])
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Ping implements remote.Transport.
func (t *Transport) Ping(ctx context.Context) error {
	sqlDB, err := t.db.DB()
	if err != nil {
		return callErr("ping", "", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return callErr("ping", "", err)
	}
	return nil
}

func encodeColumn(v remote.Value) (any, error) {
	switch v.Type {
	case remote.TypeNumber:
		if v.Number == nil {
			return nil, nil
		}
		return *v.Number, nil
	case remote.TypeCheckbox:
		return v.Bool, nil
	case remote.TypeMultiSelect, remote.TypeRelation:
		items := v.Items
		if items == nil {
			items = []string{}
		}
		data, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	default:
		return v.Text, nil
	}
}

func decodeColumn(t remote.PropertyType, raw any) remote.Value {
	if raw == nil {
		return remote.Value{Type: t}
	}
	switch t {
	case remote.TypeNumber:
		if f, ok := utils.ToFloat(raw); ok {
			return remote.NumberValue(f)
		}
		return remote.Value{Type: t}
	case remote.TypeCheckbox:
		return remote.CheckboxValue(utils.ToBool(raw))
	case remote.TypeMultiSelect, remote.TypeRelation:
		var items []string
		s := utils.ToString(raw)
		if err := json.Unmarshal([]byte(s), &items); err != nil && s != "" {
			items = []string{s}
		}
		return remote.ListValue(t, items)
	default:
		return remote.TextValue(t, utils.ToString(raw))
	}
}
