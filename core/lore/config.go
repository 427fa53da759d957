package lore

// Backend names accepted in Config.Backend.
const (
	BackendFS = "fs"
	BackendS3 = "s3"
)

// Config holds configuration for the local lore store and the engines reading it.
type Config struct {
	// Backend selects the store: fs (local directory) or s3 (storage bucket).
	Backend string `mapstructure:"backend" default:"fs"`
	// Root is the data directory for the fs backend.
	Root string `mapstructure:"root" default:"data"`
	// Prefix is the key prefix inside the bucket for the s3 backend.
	Prefix string `mapstructure:"prefix" default:""`
	// MappingsDir holds optional per-category mapping overrides.
	MappingsDir string `mapstructure:"mappings_dir" default:""`
	// SynonymsPath is an optional YAML/JSON synonyms file for normalization.
	SynonymsPath string `mapstructure:"synonyms_path" default:""`
	// Workers bounds how many categories a batch runs at once.
	Workers int `mapstructure:"workers" default:"1"`
	// Categories restricts batch runs. Empty means all.
	Categories []string `mapstructure:"categories"`
}
