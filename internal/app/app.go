// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-wallet-storage/internal/config"
	"github.com/MKhiriev/go-wallet-storage/internal/logger"
	"github.com/MKhiriev/go-wallet-storage/internal/query"
	"github.com/MKhiriev/go-wallet-storage/internal/store"
	"github.com/MKhiriev/go-wallet-storage/models"
)

// Commands understood by [App.Run].
const (
	CommandInit   = "init"
	CommandCreate = "create"
	CommandOpen   = "open"
	CommandDelete = "delete"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrInvalidMetadata = errors.New("metadata is not valid base64")
)

// App dispatches walletctl commands to the storage type of the configured
// backend.
type App struct {
	types  map[string]store.WalletStorageType
	out    io.Writer
	logger *logger.Logger
}

// NewApp wires both backends. Command results are written to out.
func NewApp(out io.Writer, log *logger.Logger) *App {
	return &App{
		types: map[string]store.WalletStorageType{
			config.BackendPostgres: store.NewPostgresStorageType(),
			config.BackendSQLite:   store.NewSQLiteStorageType(),
		},
		out:    out,
		logger: log,
	}
}

// Run executes command with cfg.
func (a *App) Run(ctx context.Context, command string, cfg *config.StructuredConfig) error {
	storageType, ok := a.types[cfg.Backend]
	if !ok {
		return fmt.Errorf("%w: %q", config.ErrInvalidBackend, cfg.Backend)
	}

	log := a.logger.With().Str("command", command).Str("backend", cfg.Backend).Logger()
	ctx = log.WithContext(ctx)

	switch command {
	case CommandInit:
		if err := storageType.Init(ctx, &cfg.Storage, &cfg.Credentials); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "storage initialized")
		return nil

	case CommandCreate:
		metadata, err := base64.StdEncoding.DecodeString(cfg.Metadata)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
		}
		if err := storageType.Create(ctx, cfg.WalletID, &cfg.Storage, &cfg.Credentials, metadata); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "wallet %s created\n", cfg.WalletID)
		return nil

	case CommandOpen:
		return a.open(ctx, storageType, cfg)

	case CommandDelete:
		if err := storageType.Delete(ctx, cfg.WalletID, &cfg.Storage, &cfg.Credentials); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "wallet %s deleted\n", cfg.WalletID)
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
}

// open verifies the wallet and reports how many items it holds.
func (a *App) open(ctx context.Context, storageType store.WalletStorageType, cfg *config.StructuredConfig) error {
	wallet, err := storageType.Open(ctx, cfg.WalletID, &cfg.Storage, &cfg.Credentials)
	if err != nil {
		return err
	}
	defer wallet.Close()

	it, err := wallet.Search(ctx, nil, query.MatchAll(), models.SearchOptions{RetrieveTotalCount: true})
	if err != nil {
		return err
	}
	defer it.Close()

	count, _ := it.TotalCount()
	fmt.Fprintf(a.out, "wallet %s: %d items\n", cfg.WalletID, count)
	return nil
}
