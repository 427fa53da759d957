// Package database opens gorm connections for the SQL remote backend and inspects tables.
//
// Connect supports mysql (production) and sqlite (local runs and tests). GetTableColumns
// reports the physical columns of a table, which the sqltable transport compares against
// its property catalogue to detect drift.
//
//	db, err := database.Connect(cfg.Database)
//	columns, err := database.GetTableColumns(db, "lore_characters")
package database
