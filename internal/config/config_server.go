package config

import "fmt"

// ServerConfig is the configuration view used by the reference topic server.
type ServerConfig struct {
	// HTTPAddress is the listen address in "host:port" format.
	HTTPAddress string
	// Storage holds the SQLite settings backing the served topics.
	Storage ClientStorage
}

// GetServerConfig builds and validates the reference-server config view from
// the merged structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		HTTPAddress: cfg.Server.HTTPAddress,
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
	}
	if serverCfg.HTTPAddress == "" {
		serverCfg.HTTPAddress = "0.0.0.0:3001"
	}

	if serverCfg.Storage.DB.DSN == "" {
		return nil, ErrInvalidStorageConfigs
	}

	return serverCfg, nil
}
