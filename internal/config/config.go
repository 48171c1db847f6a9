package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the kbkeeper
// application. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Auth holds session and lockout policy settings.
	Auth Auth `envPrefix:"AUTH_"`

	// Storage holds configuration for the local durable store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds the remote knowledge-base service address and timeouts.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Server holds listen settings for the reference topic server.
	Server Server `envPrefix:"SERVER_"`

	// Workers holds configuration for background jobs.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Auth holds the session and login-lockout policy.
type Auth struct {
	// TokenSignKey is the secret key used to sign and verify session tokens.
	// Must be kept confidential.
	// Env: AUTH_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued session token.
	// Env: AUTH_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// SessionTTL is the maximum age of a session token before it is treated
	// as expired (e.g. "24h").
	// Env: AUTH_SESSION_TTL
	SessionTTL time.Duration `env:"SESSION_TTL"`

	// MaxLoginAttempts is the number of consecutive failed logins after
	// which the account is locked.
	// Env: AUTH_MAX_LOGIN_ATTEMPTS
	MaxLoginAttempts int `env:"MAX_LOGIN_ATTEMPTS"`

	// LockoutDuration is how long an account stays locked after too many
	// failed logins (e.g. "15m").
	// Env: AUTH_LOCKOUT_DURATION
	LockoutDuration time.Duration `env:"LOCKOUT_DURATION"`
}

// Storage groups the configuration for the local durable store.
type Storage struct {
	// DB holds the SQLite connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path (or ":memory:") used to open the local
	// database.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Adapter holds network settings for the remote knowledge-base service.
type Adapter struct {
	// HTTPAddress is the base URL of the remote topic service
	// (e.g. "http://localhost:3001").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single outbound
	// request before it is abandoned (e.g. "5s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Server holds listen settings for the reference topic server.
type Server struct {
	// HTTPAddress is the TCP address on which the server listens,
	// in "host:port" format (e.g. "0.0.0.0:3001").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
}

// Workers holds configuration for background jobs.
type Workers struct {
	// RevalidateInterval defines how often the session revalidation job
	// re-checks the active session against the TTL.
	// Env: WORKERS_REVALIDATE_INTERVAL
	RevalidateInterval time.Duration `env:"REVALIDATE_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
