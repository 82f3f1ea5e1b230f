// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app runs the walletctl commands against a wallet storage backend
// and turns their outcome into operator-facing messages.
//
// All Msg* constants are human-readable message strings printed by walletctl
// when a command fails. Keeping them in one place ensures consistent wording
// across commands.
package app

import (
	"errors"

	"github.com/MKhiriev/go-wallet-storage/internal/config"
	"github.com/MKhiriev/go-wallet-storage/internal/store"
)

const (
	// MsgInvalidConfig is printed when the configuration, credentials or
	// command arguments are rejected before the backend is contacted.
	MsgInvalidConfig = "invalid configuration"

	// MsgUnknownCommand is printed for a command walletctl does not know.
	MsgUnknownCommand = "unknown command"

	// MsgWalletNotFound is printed when open or delete targets a wallet that
	// does not exist.
	MsgWalletNotFound = "wallet not found"

	// MsgWalletAlreadyExists is printed when create targets an existing
	// wallet.
	MsgWalletAlreadyExists = "wallet already exists"

	// MsgBackendUnavailable is printed when the backend failed or could not
	// be reached.
	MsgBackendUnavailable = "storage backend error"

	// MsgPoolExhausted is printed when no connection became free in time.
	MsgPoolExhausted = "connection pool exhausted, try a larger -max-connections or -acquire-timeout"

	// MsgUnexpectedError is printed for failures without a better message.
	MsgUnexpectedError = "unexpected error"
)

// Exit codes returned by walletctl.
const (
	ExitOK = iota
	ExitFailure
	ExitConfig
	ExitNotFound
	ExitAlreadyExists
)

// Describe maps a command error to the message and exit code walletctl
// reports for it.
func Describe(err error) (string, int) {
	switch {
	case err == nil:
		return "", ExitOK
	case errors.Is(err, ErrUnknownCommand):
		return MsgUnknownCommand, ExitConfig
	case errors.Is(err, store.ErrConfig),
		errors.Is(err, config.ErrInvalidStorageConfigs),
		errors.Is(err, config.ErrInvalidCredentials),
		errors.Is(err, config.ErrInvalidBackend),
		errors.Is(err, ErrInvalidMetadata):
		return MsgInvalidConfig, ExitConfig
	case errors.Is(err, store.ErrNotFound):
		return MsgWalletNotFound, ExitNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return MsgWalletAlreadyExists, ExitAlreadyExists
	case errors.Is(err, store.ErrPoolExhausted):
		return MsgPoolExhausted, ExitFailure
	case errors.Is(err, store.ErrIO):
		return MsgBackendUnavailable, ExitFailure
	default:
		return MsgUnexpectedError, ExitFailure
	}
}
