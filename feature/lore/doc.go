// Package lore exposes reconciliation over HTTP.
//
// Routes:
//
//	POST /lore/:category/schema   ensure the remote table carries every mapped property
//	POST /lore/:category/push     publish one category (?dry_run=true counts only)
//	POST /lore/:category/pull     pull one category
//	POST /lore/normalize          normalize raw documents (JSON body: normalize.Options)
//	POST /lore/batch/publish      publish every category
//	POST /lore/batch/pull         pull every category
//
// Writing runs share the scheduler's single-flight guard and answer 409 while a cycle
// is running. Batch routes also require X-Batch-Secret when server.batch_secret is set.
package lore
