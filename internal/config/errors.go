package config

import "errors"

var (
	// ErrInvalidStorageConfigs is returned when the local database path is
	// missing from every configuration source.
	ErrInvalidStorageConfigs = errors.New("invalid storage configs: database path is required")

	// ErrInvalidAdapterConfigs is returned when the remote service address
	// is missing or the request timeout is not positive.
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configs: address and request timeout are required")

	// ErrInvalidAuthConfigs is returned when the session token sign key is
	// missing.
	ErrInvalidAuthConfigs = errors.New("invalid auth configs: token sign key is required")

	// ErrInvalidServerConfigs is returned when the reference server listen
	// address is missing.
	ErrInvalidServerConfigs = errors.New("invalid server configs: listen address is required")
)
