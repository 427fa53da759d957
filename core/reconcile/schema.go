package reconcile

import (
	"context"
	"fmt"

	"lore-sync/core/lore"
	"lore-sync/core/remote"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SchemaReport describes how a remote table compares with the category mapping.
type SchemaReport struct {
	// Category is the category whose table was checked.
	Category lore.Category `json:"category"`

	// TableID is the remote table.
	TableID string `json:"table_id"`

	// TitleProperty is the property the mapped title is written to.
	TitleProperty string `json:"title_property"`

	// Added lists properties created by this call.
	Added []string `json:"added"`

	// Missing lists mapped properties absent remotely (Inspect only).
	Missing []string `json:"missing,omitempty"`

	// Existing lists mapped properties already present with the right type.
	Existing []string `json:"existing"`

	// Conflicts lists mapped properties present with another type.
	Conflicts []SchemaConflict `json:"conflicts"`

	// Excluded lists properties that must not be written this run.
	Excluded []string `json:"excluded"`

	// Errors lists properties whose creation failed.
	Errors []RecordError `json:"errors"`
}

// Drifted reports whether the table differs from the mapping.
func (r *SchemaReport) Drifted() bool {
	return len(r.Missing) > 0 || len(r.Conflicts) > 0
}

// SchemaManager makes remote tables carry every mapped property.
// It only ever adds properties; it never deletes or retypes them.
type SchemaManager struct {
	transport remote.Transport
	tables    TableMap
	registry  *Registry
	logger    *zap.Logger
	group     singleflight.Group
}

// NewSchemaManager creates a schema manager.
func NewSchemaManager(transport remote.Transport, tables TableMap, registry *Registry, logger *zap.Logger) *SchemaManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaManager{transport: transport, tables: tables, registry: registry, logger: logger}
}

type ensured struct {
	schema remote.Schema
	report *SchemaReport
}

// Ensure adds missing mapped properties to the table of c. Type conflicts are
// reported and excluded, never altered. Concurrent calls for the same category
// share one remote round.
func (m *SchemaManager) Ensure(ctx context.Context, c lore.Category) (remote.Schema, *SchemaReport, error) {
	v, err, _ := m.group.Do(string(c), func() (any, error) {
		schema, report, err := m.ensure(ctx, c)
		if err != nil {
			return nil, err
		}
		return ensured{schema: schema, report: report}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	res := v.(ensured)
	return res.schema.Clone(), res.report, nil
}

// Inspect compares the table of c with the mapping without changing anything.
func (m *SchemaManager) Inspect(ctx context.Context, c lore.Category) (*SchemaReport, error) {
	table, spec, err := m.resolve(c)
	if err != nil {
		return nil, err
	}
	schema, err := m.transport.GetSchema(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema of %s: %w", c, err)
	}
	report, missing := planSchema(c, table, spec, schema)
	for _, f := range missing {
		report.Missing = append(report.Missing, f.Property)
	}
	return report, nil
}

func (m *SchemaManager) resolve(c lore.Category) (string, MappingSpec, error) {
	table, err := m.tables.Lookup(c)
	if err != nil {
		return "", MappingSpec{}, err
	}
	spec, err := m.registry.Spec(c)
	if err != nil {
		return "", MappingSpec{}, err
	}
	return table, spec, nil
}

func (m *SchemaManager) ensure(ctx context.Context, c lore.Category) (remote.Schema, *SchemaReport, error) {
	table, spec, err := m.resolve(c)
	if err != nil {
		return nil, nil, err
	}
	schema, err := m.transport.GetSchema(ctx, table)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read schema of %s: %w", c, err)
	}

	report, missing := planSchema(c, table, spec, schema)
	for _, conflict := range report.Conflicts {
		m.logger.Warn("Schema conflict, property excluded",
			zap.String("category", string(c)),
			zap.String("property", conflict.Property),
			zap.String("want", string(conflict.Want)),
			zap.String("have", string(conflict.Have)),
		)
	}

	for _, f := range missing {
		if err := m.transport.CreateProperty(ctx, table, f.Property, f.Type); err != nil {
			report.Excluded = append(report.Excluded, f.Property)
			report.Errors = append(report.Errors, RecordError{
				Identifier: f.Property,
				Kind:       Classify(err),
				Message:    err.Error(),
			})
			m.logger.Error("Failed to add property",
				zap.String("category", string(c)),
				zap.String("property", f.Property),
				zap.Error(err),
			)
			continue
		}
		schema[f.Property] = f.Type
		report.Added = append(report.Added, f.Property)
		m.logger.Info("Added property",
			zap.String("category", string(c)),
			zap.String("property", f.Property),
			zap.String("type", string(f.Type)),
		)
	}
	return schema, report, nil
}

// planSchema classifies every mapped field against schema and returns the fields to create.
func planSchema(c lore.Category, table string, spec MappingSpec, schema remote.Schema) (*SchemaReport, []FieldMapping) {
	report := &SchemaReport{
		Category:  c,
		TableID:   table,
		Added:     []string{},
		Existing:  []string{},
		Conflicts: []SchemaConflict{},
		Excluded:  []string{},
		Errors:    []RecordError{},
	}
	existingTitle := schema.TitleProperty()
	var missing []FieldMapping

	for _, f := range spec.Fields {
		have, ok := schema[f.Property]
		switch {
		case ok && have == f.Type:
			report.Existing = append(report.Existing, f.Property)
			if f.Type == remote.TypeTitle {
				report.TitleProperty = f.Property
			}
		case ok && f.Type == remote.TypeTitle && existingTitle != "":
			// The mapped title name is taken by another type; the table's own title carries it.
			report.TitleProperty = existingTitle
		case ok:
			report.Conflicts = append(report.Conflicts, SchemaConflict{Category: c, Property: f.Property, Want: f.Type, Have: have})
			report.Excluded = append(report.Excluded, f.Property)
		case f.Type == remote.TypeTitle && existingTitle != "":
			// Never add a second title; write to the one the table has.
			report.TitleProperty = existingTitle
		default:
			if f.Type == remote.TypeTitle {
				report.TitleProperty = f.Property
			}
			missing = append(missing, f)
		}
	}
	return report, missing
}
