package store

import (
	"context"

	"github.com/MKhiriev/go-wallet-storage/internal/config"
	"github.com/MKhiriev/go-wallet-storage/internal/logger"
)

// NewSQLiteStorageType returns the embedded [WalletStorageType]. All wallets
// live in the SQLite file named by the storage config path. Credentials are
// not used, so the administrative phases always run.
func NewSQLiteStorageType() WalletStorageType {
	return &storageType{connector: &sqliteConnector{}}
}

type sqliteConnector struct{}

func (s *sqliteConnector) backend() string { return "sqlite" }

func (s *sqliteConnector) validate(cfg *config.Storage, _ *config.Credentials) error {
	return cfg.ValidateSQLite()
}

func (s *sqliteConnector) hasAdmin(config.Credentials) bool { return true }

func (s *sqliteConnector) provision(ctx context.Context, cfg config.Storage, _ config.Credentials, log *logger.Logger) error {
	db, err := NewConnectSQLite(ctx, cfg, true, log)
	if err != nil {
		return ioError(ErrAcquiringConnection, err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return ioError(ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteConnector) adminDB(ctx context.Context, cfg config.Storage, _ config.Credentials, log *logger.Logger) (*DB, error) {
	return NewConnectSQLite(ctx, cfg, false, log)
}

func (s *sqliteConnector) walletDB(ctx context.Context, cfg config.Storage, _ config.Credentials, log *logger.Logger) (*DB, error) {
	return NewConnectSQLite(ctx, cfg, false, log)
}
