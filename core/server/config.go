package server

import (
	"strings"
	"time"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// BatchSecret, when set, must be sent as X-Batch-Secret on batch endpoints.
	BatchSecret string `mapstructure:"batch_secret" default:""`
	// ReadTimeoutSeconds bounds reading a request.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"30"`
}

// BatchSecretHeader carries the batch secret.
const BatchSecretHeader = "X-Batch-Secret"

// Address returns the listen address for Port.
func (c Config) Address() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// BatchAllowed reports whether a request carrying secret may run a batch.
func (c Config) BatchAllowed(secret string) bool {
	return c.BatchSecret == "" || c.BatchSecret == secret
}

// ReadTimeout returns ReadTimeoutSeconds as a duration. Zero disables the timeout.
func (c Config) ReadTimeout() time.Duration {
	if c.ReadTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}
