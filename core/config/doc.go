// Package config provides configuration management for lore-sync.
//
// It uses Viper to load configuration from environment variables and an optional .env
// file. Defaults come from the `default` struct tags of every section.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP port, API key and batch secret
//   - Log: level, format and optional rotated log file
//   - Database: connection for the SQL remote backend
//   - Storage: S3/MinIO credentials and bucket for the s3 lore backend
//   - Remote: remote backend, credentials, timeouts and per-category table ids
//   - Lore: local store backend, data root, mapping overrides and synonyms
//   - Scheduler: interval, start and per-cycle modes, grace period, local watcher
//
// Nested keys map to upper-cased environment names (REMOTE_TOKEN is remote.token).
// NOTION_TOKEN and the <CATEGORY>_DB_ID names of older deployments are still read.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
