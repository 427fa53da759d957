// Package notion implements remote.Transport on the Notion REST API.
//
// Each category maps to one Notion database. Rows are pages; properties follow the
// title/rich_text/number/select/multi_select/relation/checkbox subset of the API.
// Requests go through a go-retryablehttp client with the configured timeout: HTTP 429,
// 5xx and network errors are retried with exponential backoff (honouring Retry-After)
// up to remote.max_retries, and the last response is turned into a remote.CallError.
package notion
