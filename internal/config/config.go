// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Supported storage backends.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// StructuredConfig is the top-level configuration container for the
// walletctl tool. It is populated by merging values from environment
// variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix : prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Backend selects the storage backend: "postgres" or "sqlite".
	// Env: WALLET_BACKEND
	Backend string `env:"WALLET_BACKEND"`

	// WalletID is the wallet the command operates on.
	// Env: WALLET_ID
	WalletID string `env:"WALLET_ID"`

	// Metadata is the base64 wallet metadata stored by create.
	// Env: WALLET_METADATA
	Metadata string `env:"WALLET_METADATA"`

	// Storage holds the backend location and pool settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Credentials holds the backend accounts.
	Credentials Credentials `envPrefix:"CREDENTIALS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Storage is the storage configuration document handed to a backend.
type Storage struct {
	// URL is the PostgreSQL server address in "host:port" form.
	// Env: STORAGE_URL
	URL string `env:"URL"`

	// DatabaseName is the PostgreSQL database shared by all wallets.
	// Env: STORAGE_DATABASE_NAME
	DatabaseName string `env:"DATABASE_NAME"`

	// TLS is the libpq sslmode used for connections (e.g. "disable").
	// Env: STORAGE_TLS
	TLS string `env:"TLS"`

	// Path is the SQLite database file.
	// Env: STORAGE_FILE_PATH
	Path string `env:"FILE_PATH"`

	// Driver is the SQLite driver: "sqlite" (pure Go) or "sqlite3" (cgo).
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// MaxConnections caps the connections one open wallet may hold.
	// Env: STORAGE_MAX_CONNECTIONS
	MaxConnections int `env:"MAX_CONNECTIONS"`

	// MinIdleConnections is the number of idle connections kept warm.
	// Env: STORAGE_MIN_IDLE_CONNECTIONS
	MinIdleConnections int `env:"MIN_IDLE_CONNECTIONS"`

	// IdleTimeout closes connections idle for longer than this.
	// Env: STORAGE_IDLE_TIMEOUT
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT"`

	// ConnectTimeout bounds establishing a single backend connection.
	// Env: STORAGE_CONNECT_TIMEOUT
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT"`

	// AcquireTimeout is the pool exhaustion policy: zero blocks until a
	// connection is free, a positive value fails after waiting that long.
	// Env: STORAGE_ACQUIRE_TIMEOUT
	AcquireTimeout time.Duration `env:"ACQUIRE_TIMEOUT"`
}

// Credentials holds the accounts used to reach the backend. The admin
// account is optional; without it the administrative phases of init, create
// and delete are skipped.
type Credentials struct {
	// Env: CREDENTIALS_ACCOUNT
	Account string `env:"ACCOUNT"`
	// Env: CREDENTIALS_PASSWORD
	Password string `env:"PASSWORD"`
	// Env: CREDENTIALS_ADMIN_ACCOUNT
	AdminAccount string `env:"ADMIN_ACCOUNT"`
	// Env: CREDENTIALS_ADMIN_PASSWORD
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// HasAdmin reports whether both admin account and admin password are set.
func (c Credentials) HasAdmin() bool {
	return c.AdminAccount != "" && c.AdminPassword != ""
}

// DefaultStorage returns the pool and naming defaults applied to every
// decoded [Storage] document.
func DefaultStorage() Storage {
	return Storage{
		DatabaseName:       "wallets",
		TLS:                "disable",
		Driver:             "sqlite",
		MaxConnections:     2,
		MinIdleConnections: 0,
		IdleTimeout:        5 * time.Second,
		ConnectTimeout:     5 * time.Second,
	}
}

// GetStructuredConfig loads, merges, and validates the walletctl
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		withDefaults().
		build()
}
