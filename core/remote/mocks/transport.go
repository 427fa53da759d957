package mocks

import (
	"context"

	"lore-sync/core/remote"

	"github.com/stretchr/testify/mock"
)

// Transport is a mock implementation of remote.Transport
type Transport struct {
	mock.Mock
}

func (m *Transport) ListRows(ctx context.Context, tableID string) ([]remote.Row, error) {
	args := m.Called(ctx, tableID)
	rows, _ := args.Get(0).([]remote.Row)
	return rows, args.Error(1)
}

func (m *Transport) CreateRow(ctx context.Context, tableID string, props map[string]remote.Value) (string, error) {
	args := m.Called(ctx, tableID, props)
	return args.String(0), args.Error(1)
}

func (m *Transport) UpdateRow(ctx context.Context, tableID, rowID string, props map[string]remote.Value) error {
	args := m.Called(ctx, tableID, rowID, props)
	return args.Error(0)
}

func (m *Transport) CreateProperty(ctx context.Context, tableID, name string, t remote.PropertyType) error {
	args := m.Called(ctx, tableID, name, t)
	return args.Error(0)
}

func (m *Transport) GetSchema(ctx context.Context, tableID string) (remote.Schema, error) {
	args := m.Called(ctx, tableID)
	schema, _ := args.Get(0).(remote.Schema)
	return schema, args.Error(1)
}

func (m *Transport) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
