// Package sqltable implements remote.Transport on a SQL database through gorm.
//
// Every category table holds a row_id primary key, a last_edited timestamp (unix
// milliseconds) and one column per property. Property names, their column names and their
// types are kept in the lore_sync_properties catalogue because SQL column types cannot
// express select versus text. Lists are stored as JSON arrays. Columns are only ever added.
package sqltable
