// Package integrity provides health and consistency checks for lore-sync.
//
// # Checks Provided
//
//   - Remote: Pings the remote store and reports reachability and latency.
//   - Structure: Checks that the lore store has a location for every category (a directory, or the bucket).
//   - Records: Counts local records and lists the ones not yet linked to a remote row.
//   - Schema: Compares each remote table with its mapping (missing and conflicting properties) without changing it.
//
// # HTTP Endpoints
//
//   - GET /health : Remote check; 503 when unreachable.
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/records : Runs records check.
//   - GET /integrity/schema : Runs schema drift check.
package integrity
