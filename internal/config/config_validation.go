// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] can drive the
// selected backend.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Backend {
	case BackendPostgres:
		if err := cfg.Storage.ValidatePostgres(); err != nil {
			return err
		}
		return cfg.Credentials.Validate()
	case BackendSQLite:
		return cfg.Storage.ValidateSQLite()
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, cfg.Backend)
	}
}

// ValidatePostgres checks the fields the PostgreSQL backend needs.
func (s Storage) ValidatePostgres() error {
	if s.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidStorageConfigs)
	}
	if s.DatabaseName == "" {
		return fmt.Errorf("%w: database name is required", ErrInvalidStorageConfigs)
	}
	return s.validatePool()
}

// ValidateSQLite checks the fields the SQLite backend needs.
func (s Storage) ValidateSQLite() error {
	if s.Path == "" {
		return fmt.Errorf("%w: path is required", ErrInvalidStorageConfigs)
	}
	if s.Driver != "sqlite" && s.Driver != "sqlite3" {
		return fmt.Errorf("%w: unknown sqlite driver %q", ErrInvalidStorageConfigs, s.Driver)
	}
	return s.validatePool()
}

func (s Storage) validatePool() error {
	if s.MaxConnections < 1 {
		return fmt.Errorf("%w: max connections must be positive", ErrInvalidStorageConfigs)
	}
	if s.MinIdleConnections < 0 || s.MinIdleConnections > s.MaxConnections {
		return fmt.Errorf("%w: min idle connections must be within [0, max]", ErrInvalidStorageConfigs)
	}
	if s.AcquireTimeout < 0 || s.IdleTimeout < 0 || s.ConnectTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidStorageConfigs)
	}
	return nil
}

// Validate checks that the regular account is present.
func (c Credentials) Validate() error {
	if c.Account == "" || c.Password == "" {
		return fmt.Errorf("%w: account and password are required", ErrInvalidCredentials)
	}
	return nil
}
