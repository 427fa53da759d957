// Package lore defines the local side of the reconciliation: categories, records and the
// file stores that hold them.
//
// # Records
//
// A Record is the decoded JSON object of one lore entity. Nested values are addressed with
// dot paths ("appearance.notes", "source.notion_page_id"). The remote identity stamped by a
// publish lives at source.notion_page_id; source.remote_id is read as an alias.
//
// # Stores
//
// FSStore keeps one JSON file per record under <root>/<category>/formatted/ together with a
// derived _index.json. ObjectStore keeps the same layout inside a minio/S3 bucket. MemoryStore
// is a process-local store for tests and dry runs.
//
//	store := lore.NewFSStore("lore", logger)
//	records, err := store.ReadCategory(ctx, lore.Characters)
package lore
