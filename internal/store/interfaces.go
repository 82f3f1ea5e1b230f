// Package store is the encrypted-record storage engine of the wallet. A
// [WalletStorageType] provisions the schema and manages wallets; an open
// [WalletStorage] stores items with encrypted and plaintext tags and
// searches them through a lazy [StorageIterator].
//
// Two SQL backends are provided: PostgreSQL, sharing one database among
// all wallets, and an embedded SQLite file.
package store

import (
	"context"

	"github.com/MKhiriev/go-wallet-storage/internal/config"
	"github.com/MKhiriev/go-wallet-storage/internal/query"
	"github.com/MKhiriev/go-wallet-storage/models"
)

// WalletStorageType manages the storage footprint of wallets.
//
// Init, Create and Delete act with the admin account; when the credentials
// carry no admin account they return nil without touching the backend.
type WalletStorageType interface {
	// Init provisions the database and the schema. Safe to call repeatedly.
	Init(ctx context.Context, cfg *config.Storage, creds *config.Credentials) error
	// Create inserts the wallet metadata row. ErrAlreadyExists if present.
	Create(ctx context.Context, walletID string, cfg *config.Storage, creds *config.Credentials, metadata []byte) error
	// Open checks the wallet exists (ErrNotFound otherwise) and returns a
	// handle owning the wallet's connection pool.
	Open(ctx context.Context, walletID string, cfg *config.Storage, creds *config.Credentials) (WalletStorage, error)
	// Delete removes the wallet metadata, items and tags in one transaction.
	// ErrNotFound if the wallet did not exist.
	Delete(ctx context.Context, walletID string, cfg *config.Storage, creds *config.Credentials) error
}

// WalletStorage is an open wallet. Methods are safe for concurrent use;
// each call leases its own connection.
type WalletStorage interface {
	Get(ctx context.Context, typ, name []byte, opts models.RecordOptions) (*models.StorageRecord, error)
	Add(ctx context.Context, typ, name []byte, value models.EncryptedValue, tags []models.Tag) error
	Update(ctx context.Context, typ, name []byte, value models.EncryptedValue) error
	AddTags(ctx context.Context, typ, name []byte, tags []models.Tag) error
	UpdateTags(ctx context.Context, typ, name []byte, tags []models.Tag) error
	DeleteTags(ctx context.Context, typ, name []byte, names []models.TagName) error
	Delete(ctx context.Context, typ, name []byte) error

	GetStorageMetadata(ctx context.Context) ([]byte, error)
	SetStorageMetadata(ctx context.Context, metadata []byte) error

	// GetAll iterates every item of the wallet with type, value and tags.
	GetAll(ctx context.Context) (StorageIterator, error)
	// Search iterates items of type typ (all types when typ is nil) matching
	// op. Row order is unspecified and may differ between calls.
	//
	// The iterator holds up to two pooled connections until it is exhausted
	// or closed. ctx bounds the whole iteration.
	Search(ctx context.Context, typ []byte, op query.Operator, opts models.SearchOptions) (StorageIterator, error)

	// Close releases the wallet's connection pool.
	Close() error
}

// StorageIterator streams search results.
type StorageIterator interface {
	// Next returns the next record, or nil once the results are exhausted.
	Next(ctx context.Context) (*models.StorageRecord, error)
	// TotalCount returns the count computed before streaming; ok is false
	// when it was not requested.
	TotalCount() (count int64, ok bool)
	// Close releases the iterator's connections. Safe to call repeatedly.
	Close() error
}

// ErrorClassificator maps driver errors to an [ErrorClassification].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
