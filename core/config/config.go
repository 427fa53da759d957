package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"lore-sync/core/database"
	"lore-sync/core/logger"
	"lore-sync/core/lore"
	"lore-sync/core/remote"
	"lore-sync/core/scheduler"
	"lore-sync/core/server"
	"lore-sync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the SQL remote backend.
	Database database.Config `mapstructure:"database"`
	// Remote holds configuration for the remote tabular store.
	Remote remote.Config `mapstructure:"remote"`
	// Lore holds configuration for the local lore store.
	Lore lore.Config `mapstructure:"lore"`
	// Scheduler holds configuration for recurring sync cycles.
	Scheduler scheduler.Config `mapstructure:"scheduler"`
}

// legacyEnv maps environment names used by older deployments onto config keys.
var legacyEnv = map[string]string{
	"remote.token":             "NOTION_TOKEN",
	"remote.tables.characters": "CHARACTER_DB_ID",
	"remote.tables.creatures":  "CREATURES_DB_ID",
	"remote.tables.realms":     "REALMS_DB_ID",
	"remote.tables.magic":      "MAGIC_DB_ID",
	"remote.tables.plots":      "PLOTS_DB_ID",
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The canonical name wins when both are set.
	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, envName(key), legacy); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		if field.Type.Kind() == reflect.Slice {
			// Comma separated environment values decode into slices.
			v.SetDefault(key, []string{})
			continue
		}
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}

// envName is the canonical environment variable of a config key.
func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// ConfigurationError lists every invalid setting found by Validate.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// ErrConfiguration matches any *ConfigurationError with errors.Is.
var ErrConfiguration = errors.New("invalid configuration")

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Validate checks the settings every command depends on. It runs before any
// operation so a bad deployment fails at startup.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	switch c.Remote.Backend {
	case remote.BackendNotion:
		if c.Remote.Token == "" {
			add("remote.token is required for the notion backend (REMOTE_TOKEN or NOTION_TOKEN)")
		}
		tables := c.Remote.Tables.ByCategory()
		for _, cat := range c.Categories() {
			if tables[string(cat)] != "" {
				continue
			}
			key := "remote.tables." + string(cat)
			add("%s is required for the notion backend (%s or %s)", key, envName(key), legacyEnv[key])
		}
	case remote.BackendSQL:
		if c.Database.Driver != "mysql" && c.Database.Driver != "sqlite" {
			add("database.driver %q is not supported (mysql, sqlite)", c.Database.Driver)
		}
	case remote.BackendMemory:
	default:
		add("remote.backend %q is not supported (notion, sql, memory)", c.Remote.Backend)
	}
	if c.Remote.TimeoutSeconds <= 0 {
		add("remote.timeout_seconds must be positive")
	}
	if c.Remote.MaxRetries < 0 {
		add("remote.max_retries must not be negative")
	}

	switch c.Lore.Backend {
	case lore.BackendFS:
		if c.Lore.Root == "" {
			add("lore.root is required for the fs backend")
		}
	case lore.BackendS3:
		if c.Storage.Bucket == "" {
			add("storage.bucket is required for the s3 backend")
		}
	default:
		add("lore.backend %q is not supported (fs, s3)", c.Lore.Backend)
	}
	if _, err := lore.ParseCategories(c.Lore.Categories); err != nil {
		add("lore.categories: %v", err)
	}

	if c.Scheduler.IntervalMinutes < 0 {
		add("scheduler.interval_minutes must not be negative")
	}
	if c.Scheduler.GraceSeconds < 0 {
		add("scheduler.grace_seconds must not be negative")
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		add("log.format %q is not supported (json, console)", c.Log.Format)
	}

	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}
	return nil
}

// Categories returns the configured batch categories, all of them when none are set.
func (c *Config) Categories() []lore.Category {
	cats, err := lore.ParseCategories(c.Lore.Categories)
	if err != nil || len(cats) == 0 {
		return lore.AllCategories
	}
	return cats
}
