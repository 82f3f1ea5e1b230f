package config

import "errors"

// Validation errors returned when a configuration document or the merged
// walletctl configuration is incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates an unparseable or incomplete storage
	// document (for example, missing URL or a non-positive pool size).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidCredentials indicates an unparseable or incomplete
	// credentials document.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidBackend indicates an unknown storage backend name.
	ErrInvalidBackend = errors.New("invalid storage backend")
)
