// Package server holds the HTTP server configuration.
//
// The Config struct defines the listen port, the API key that guards every route and
// the optional batch secret that batch endpoints additionally require.
package server
