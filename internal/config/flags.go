package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a remote service base URL
//	-listen listen address for the reference server in format [host]:[port]
//	-d local database path
//	-c/-config json file path with configs
//	-token-sign-key session token signing key
//	-token-issuer session token issuer name
//	-session-ttl session time-to-live (e.g., "24h")
//	-max-login-attempts failed logins before lockout
//	-lockout-duration account lock duration (e.g., "15m")
//	-request-timeout remote request timeout (e.g., "5s")
//	-revalidate-interval session revalidation period (e.g., "5m")
func ParseFlags() *StructuredConfig {
	var remoteAddress string
	var listenAddress string
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var sessionTTL time.Duration
	var maxLoginAttempts int
	var lockoutDuration time.Duration
	var requestTimeout time.Duration
	var revalidateInterval time.Duration

	flag.StringVar(&remoteAddress, "a", "", "Remote service base URL")
	flag.StringVar(&listenAddress, "listen", "", "Reference server listen address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Local database path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Session token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Session token issuer")
	flag.DurationVar(&sessionTTL, "session-ttl", 0, "Session TTL (e.g., 24h)")
	flag.IntVar(&maxLoginAttempts, "max-login-attempts", 0, "Failed logins before lockout")
	flag.DurationVar(&lockoutDuration, "lockout-duration", 0, "Account lock duration (e.g., 15m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Remote request timeout (e.g., 5s)")
	flag.DurationVar(&revalidateInterval, "revalidate-interval", 0, "Session revalidation period (e.g., 5m)")

	flag.Parse()

	return &StructuredConfig{
		Auth: Auth{
			TokenSignKey:     tokenSignKey,
			TokenIssuer:      tokenIssuer,
			SessionTTL:       sessionTTL,
			MaxLoginAttempts: maxLoginAttempts,
			LockoutDuration:  lockoutDuration,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Adapter: Adapter{
			HTTPAddress:    remoteAddress,
			RequestTimeout: requestTimeout,
		},
		Server: Server{
			HTTPAddress: listenAddress,
		},
		Workers: Workers{
			RevalidateInterval: revalidateInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
