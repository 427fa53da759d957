// Package memory is an in-process remote.Transport.
//
// It behaves like a schema-checked tabular store: writes to unknown tables or unknown
// properties fail with a *remote.CallError, and every row gets a uuid identity and a
// strictly increasing LastEdited time. Failures can be injected per operation.
package memory

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"lore-sync/core/remote"

	"github.com/google/uuid"
)

// Op names a transport operation for failure injection and call counting.
type Op string

const (
	OpListRows       Op = "list_rows"
	OpCreateRow      Op = "create_row"
	OpUpdateRow      Op = "update_row"
	OpCreateProperty Op = "create_property"
	OpGetSchema      Op = "get_schema"
	OpPing           Op = "ping"
)

// FailFunc decides whether a call fails. Returning nil lets the call proceed.
type FailFunc func(op Op, tableID string, props map[string]remote.Value) error

type table struct {
	schema remote.Schema
	rows   []*remote.Row
}

// Transport is the in-memory store.
type Transport struct {
	mu     sync.Mutex
	tables map[string]*table
	calls  map[Op]int
	fail   FailFunc
	clock  time.Time
	// Latency delays every call; used to widen race windows in tests.
	Latency time.Duration
}

// New creates an empty store.
func New() *Transport {
	return &Transport{
		tables: map[string]*table{},
		calls:  map[Op]int{},
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// CreateTable registers a table with an initial schema.
func (t *Transport) CreateTable(tableID string, schema remote.Schema) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if schema == nil {
		schema = remote.Schema{}
	}
	t.tables[tableID] = &table{schema: schema.Clone()}
}

// Seed inserts a row as-is. Missing ids and times are filled in.
func (t *Transport) Seed(tableID string, row remote.Row) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	tb := t.tableLocked(tableID)
	r := row.Clone()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.LastEdited.IsZero() {
		r.LastEdited = t.tick()
	}
	tb.rows = append(tb.rows, &r)
	return r.ID
}

// FailWhen installs a failure hook. Pass nil to clear it.
func (t *Transport) FailWhen(fn FailFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fail = fn
}

// Calls returns how many times op was invoked.
func (t *Transport) Calls(op Op) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls[op]
}

// Writes returns the number of row and schema mutations performed.
func (t *Transport) Writes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls[OpCreateRow] + t.calls[OpUpdateRow] + t.calls[OpCreateProperty]
}

// Rows returns copies of the rows of a table in insertion order.
func (t *Transport) Rows(tableID string) []remote.Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	tb, ok := t.tables[tableID]
	if !ok {
		return nil
	}
	out := make([]remote.Row, len(tb.rows))
	for i, r := range tb.rows {
		out[i] = r.Clone()
	}
	return out
}

func (t *Transport) tableLocked(tableID string) *table {
	tb, ok := t.tables[tableID]
	if !ok {
		tb = &table{schema: remote.Schema{}}
		t.tables[tableID] = tb
	}
	return tb
}

func (t *Transport) tick() time.Time {
	t.clock = t.clock.Add(time.Second)
	return t.clock
}

// enter counts the call, applies latency and the failure hook.
func (t *Transport) enter(ctx context.Context, op Op, tableID string, props map[string]remote.Value) error {
	t.mu.Lock()
	t.calls[op]++
	fail := t.fail
	latency := t.Latency
	t.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return &remote.CallError{Op: string(op), Table: tableID, Err: ctx.Err()}
		}
	}
	if err := ctx.Err(); err != nil {
		return &remote.CallError{Op: string(op), Table: tableID, Err: err}
	}
	if fail != nil {
		if err := fail(op, tableID, props); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transport) lookup(op Op, tableID string) (*table, error) {
	tb, ok := t.tables[tableID]
	if !ok {
		return nil, remote.NewCallError(string(op), tableID, http.StatusNotFound, fmt.Errorf("table not found"))
	}
	return tb, nil
}

func checkProps(op Op, tableID string, schema remote.Schema, props map[string]remote.Value) error {
	for name, v := range props {
		want, ok := schema[name]
		if !ok {
			return remote.NewCallError(string(op), tableID, http.StatusBadRequest,
				fmt.Errorf("property %q does not exist", name))
		}
		if v.Type != want {
			return remote.NewCallError(string(op), tableID, http.StatusBadRequest,
				fmt.Errorf("property %q is %s, got %s", name, want, v.Type))
		}
	}
	return nil
}

// ListRows implements remote.Transport.
func (t *Transport) ListRows(ctx context.Context, tableID string) ([]remote.Row, error) {
	if err := t.enter(ctx, OpListRows, tableID, nil); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	tb, err := t.lookup(OpListRows, tableID)
	if err != nil {
		return nil, err
	}
	out := make([]remote.Row, len(tb.rows))
	for i, r := range tb.rows {
		out[i] = r.Clone()
	}
	return out, nil
}

// CreateRow implements remote.Transport.
func (t *Transport) CreateRow(ctx context.Context, tableID string, props map[string]remote.Value) (string, error) {
	if err := t.enter(ctx, OpCreateRow, tableID, props); err != nil {
		return "", err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	tb, err := t.lookup(OpCreateRow, tableID)
	if err != nil {
		return "", err
	}
	if err := checkProps(OpCreateRow, tableID, tb.schema, props); err != nil {
		return "", err
	}
	row := remote.Row{ID: uuid.NewString(), LastEdited: t.tick(), Properties: props}.Clone()
	tb.rows = append(tb.rows, &row)
	return row.ID, nil
}

// UpdateRow implements remote.Transport.
func (t *Transport) UpdateRow(ctx context.Context, tableID, rowID string, props map[string]remote.Value) error {
	if err := t.enter(ctx, OpUpdateRow, tableID, props); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	tb, err := t.lookup(OpUpdateRow, tableID)
	if err != nil {
		return err
	}
	if err := checkProps(OpUpdateRow, tableID, tb.schema, props); err != nil {
		return err
	}
	for _, r := range tb.rows {
		if r.ID != rowID {
			continue
		}
		for name, v := range (remote.Row{Properties: props}).Clone().Properties {
			r.Properties[name] = v
		}
		r.LastEdited = t.tick()
		return nil
	}
	return remote.NewCallError(string(OpUpdateRow), tableID, http.StatusNotFound, fmt.Errorf("row %s not found", rowID))
}

// CreateProperty implements remote.Transport.
func (t *Transport) CreateProperty(ctx context.Context, tableID, name string, pt remote.PropertyType) error {
	if err := t.enter(ctx, OpCreateProperty, tableID, nil); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	tb, err := t.lookup(OpCreateProperty, tableID)
	if err != nil {
		return err
	}
	if existing, ok := tb.schema[name]; ok {
		if existing == pt {
			return nil
		}
		return remote.NewCallError(string(OpCreateProperty), tableID, http.StatusConflict,
			fmt.Errorf("property %q already exists as %s", name, existing))
	}
	if pt == remote.TypeTitle && tb.schema.TitleProperty() != "" {
		return remote.NewCallError(string(OpCreateProperty), tableID, http.StatusBadRequest,
			fmt.Errorf("table already has a title property"))
	}
	tb.schema[name] = pt
	return nil
}

// GetSchema implements remote.Transport.
func (t *Transport) GetSchema(ctx context.Context, tableID string) (remote.Schema, error) {
	if err := t.enter(ctx, OpGetSchema, tableID, nil); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	tb, err := t.lookup(OpGetSchema, tableID)
	if err != nil {
		return nil, err
	}
	return tb.schema.Clone(), nil
}

// Ping implements remote.Transport.
func (t *Transport) Ping(ctx context.Context) error {
	return t.enter(ctx, OpPing, "", nil)
}

// Tables lists known table ids, sorted.
func (t *Transport) Tables() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.tables))
	for id := range t.tables {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
