package remote

import "context"

// Transport is the remote tabular store.
// tableID names the remote table of a category; transports that address rows globally
// ignore it on row updates.
type Transport interface {
	// ListRows returns every row of a table, following pagination.
	ListRows(ctx context.Context, tableID string) ([]Row, error)
	// CreateRow inserts a row and returns its identity.
	CreateRow(ctx context.Context, tableID string, props map[string]Value) (string, error)
	// UpdateRow overwrites the given properties of a row.
	UpdateRow(ctx context.Context, tableID, rowID string, props map[string]Value) error
	// CreateProperty adds a column. Existing columns are never altered.
	CreateProperty(ctx context.Context, tableID, name string, t PropertyType) error
	// GetSchema returns the current columns of a table.
	GetSchema(ctx context.Context, tableID string) (Schema, error)
	// Ping checks that the store is reachable with the configured credentials.
	Ping(ctx context.Context) error
}
