package reconcile

import (
	"context"

	"lore-sync/core/lore"
	"lore-sync/core/remote"

	"go.uber.org/zap"
)

// Engine bundles the per-category operations: schema, push and pull.
type Engine struct {
	transport remote.Transport
	tables    TableMap
	registry  *Registry
	schema    *SchemaManager
	logger    *zap.Logger
}

// NewEngine creates an engine over a transport.
func NewEngine(transport remote.Transport, tables TableMap, registry *Registry, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Engine{
		transport: transport,
		tables:    tables,
		registry:  registry,
		schema:    NewSchemaManager(transport, tables, registry, logger),
		logger:    logger,
	}
}

// Transport returns the remote transport.
func (e *Engine) Transport() remote.Transport {
	return e.transport
}

// Schema returns the schema manager.
func (e *Engine) Schema() *SchemaManager {
	return e.schema
}

// EnsureSchema adds missing mapped properties to the table of c.
func (e *Engine) EnsureSchema(ctx context.Context, c lore.Category) (remote.Schema, *SchemaReport, error) {
	return e.schema.Ensure(ctx, c)
}

// mapperFor resolves the table and mapper of c.
func (e *Engine) mapperFor(c lore.Category) (string, *Mapper, error) {
	table, err := e.tables.Lookup(c)
	if err != nil {
		return "", nil, err
	}
	spec, err := e.registry.Spec(c)
	if err != nil {
		return "", nil, err
	}
	return table, NewMapper(spec), nil
}
