package sqltable

import (
	"regexp"
	"strconv"
	"strings"

	"lore-sync/core/remote"
)

// propertyRecord is one catalogue entry.
type propertyRecord struct {
	Table    string `gorm:"column:table_name;primaryKey;size:128"`
	Property string `gorm:"column:property;primaryKey;size:191"`
	Column   string `gorm:"column:column_name;size:64;not null"`
	Type     string `gorm:"column:property_type;size:32;not null"`
}

func (propertyRecord) TableName() string {
	return "lore_sync_properties"
}

const (
	columnRowID      = "row_id"
	columnLastEdited = "last_edited"
	maxColumnLength  = 60
)

var columnPattern = regexp.MustCompile(`[^a-z0-9]+`)

// columnName derives a column for a property that does not collide with taken names.
func columnName(property string, taken map[string]bool) string {
	base := strings.Trim(columnPattern.ReplaceAllString(strings.ToLower(property), "_"), "_")
	if base == "" {
		base = "property"
	}
	if base[0] >= '0' && base[0] <= '9' {
		base = "p_" + base
	}
	if len(base) > maxColumnLength {
		base = base[:maxColumnLength]
	}
	name := base
	for i := 2; taken[name] || name == columnRowID || name == columnLastEdited; i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	return name
}

// columnType is the SQL type of a property column for a dialect.
func columnType(dialect string, t remote.PropertyType) string {
	switch t {
	case remote.TypeNumber:
		if dialect == "sqlite" {
			return "REAL"
		}
		return "DOUBLE"
	case remote.TypeCheckbox:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}
