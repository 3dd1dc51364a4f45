// Package config loads and validates the application configuration.
//
// Values are gathered from environment variables, command-line flags, and an
// optional JSON file, merged in that priority order, then validated. Validation fails closed: the server will not start
// without a token signing key or a database DSN.
package config
