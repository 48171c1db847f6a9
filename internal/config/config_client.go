package config

import (
	"fmt"
	"time"
)

// Policy defaults applied when a value is absent from every source.
const (
	DefaultSessionTTL         = 24 * time.Hour
	DefaultMaxLoginAttempts   = 5
	DefaultLockoutDuration    = 15 * time.Minute
	DefaultRequestTimeout     = 5 * time.Second
	DefaultRevalidateInterval = 5 * time.Minute
	DefaultTokenIssuer        = "kbkeeper"
)

// ClientAuth holds the session/lockout policy used by the auth manager.
type ClientAuth struct {
	// TokenSignKey signs and verifies session tokens.
	TokenSignKey string
	// TokenIssuer is embedded in every issued session token.
	TokenIssuer string
	// SessionTTL is the maximum session token age.
	SessionTTL time.Duration
	// MaxLoginAttempts is the failed-login count that triggers a lock.
	MaxLoginAttempts int
	// LockoutDuration is how long a locked account stays locked.
	LockoutDuration time.Duration
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the remote topic service base URL.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite path used by the client cache.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientWorkers contains client background job settings.
type ClientWorkers struct {
	// RevalidateInterval defines how often the session revalidation job runs.
	RevalidateInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Auth contains session and lockout policy.
	Auth ClientAuth
	// Adapter contains remote transport address and timeout.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Workers contains background job settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, applies policy defaults for unset values,
// and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Auth: ClientAuth{
			TokenSignKey:     cfg.Auth.TokenSignKey,
			TokenIssuer:      cfg.Auth.TokenIssuer,
			SessionTTL:       cfg.Auth.SessionTTL,
			MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
			LockoutDuration:  cfg.Auth.LockoutDuration,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Workers: ClientWorkers{RevalidateInterval: cfg.Workers.RevalidateInterval},
	}
	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.Auth.TokenIssuer == "" {
		cfg.Auth.TokenIssuer = DefaultTokenIssuer
	}
	if cfg.Auth.SessionTTL <= 0 {
		cfg.Auth.SessionTTL = DefaultSessionTTL
	}
	if cfg.Auth.MaxLoginAttempts <= 0 {
		cfg.Auth.MaxLoginAttempts = DefaultMaxLoginAttempts
	}
	if cfg.Auth.LockoutDuration <= 0 {
		cfg.Auth.LockoutDuration = DefaultLockoutDuration
	}
	if cfg.Adapter.RequestTimeout <= 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Workers.RevalidateInterval <= 0 {
		cfg.Workers.RevalidateInterval = DefaultRevalidateInterval
	}
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Auth.TokenSignKey == "" {
		return ErrInvalidAuthConfigs
	}

	return nil
}
