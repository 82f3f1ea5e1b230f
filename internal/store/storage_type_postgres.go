package store

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-wallet-storage/internal/config"
	"github.com/MKhiriev/go-wallet-storage/internal/logger"
	"github.com/jackc/pgx/v5"
)

// NewPostgresStorageType returns the PostgreSQL [WalletStorageType]. All
// wallets share the database named in the storage config and are isolated
// by wallet_id.
func NewPostgresStorageType() WalletStorageType {
	return &storageType{connector: &postgresConnector{connect: NewConnectPostgres}}
}

type postgresConnector struct {
	connect func(ctx context.Context, cfg config.Storage, database, account, password string, log *logger.Logger) (*DB, error)
}

func (p *postgresConnector) backend() string { return "postgres" }

func (p *postgresConnector) validate(cfg *config.Storage, creds *config.Credentials) error {
	if creds == nil {
		return errors.New("missing credentials")
	}
	if err := cfg.ValidatePostgres(); err != nil {
		return err
	}
	return creds.Validate()
}

func (p *postgresConnector) hasAdmin(creds config.Credentials) bool {
	return creds.HasAdmin()
}

// provision creates the wallets database from the maintenance database,
// tolerating an existing one, and migrates it.
func (p *postgresConnector) provision(ctx context.Context, cfg config.Storage, creds config.Credentials, log *logger.Logger) error {
	admin, err := p.connect(ctx, cfg, maintenanceDatabase, creds.AdminAccount, creds.AdminPassword, log)
	if err != nil {
		return ioError(ErrAcquiringConnection, err)
	}

	createDatabase := "CREATE DATABASE " + pgx.Identifier{cfg.DatabaseName}.Sanitize()
	_, err = admin.ExecContext(ctx, createDatabase)
	admin.Close()
	if err != nil {
		if admin.classify(err) != DuplicateDatabase {
			log.Err(err).
				Str("func", "postgresConnector.provision").
				Str("pg_code", postgresError(err)).
				Msg("error occurred while creating the database")
			return ioError(ErrExecutingStatement, err)
		}
		log.Debug().Str("func", "postgresConnector.provision").Msg("wallets database already exists")
	}

	wallets, err := p.connect(ctx, cfg, cfg.DatabaseName, creds.AdminAccount, creds.AdminPassword, log)
	if err != nil {
		return ioError(ErrAcquiringConnection, err)
	}
	defer wallets.Close()

	if err := wallets.Migrate(ctx); err != nil {
		return ioError(ErrExecutingStatement, err)
	}

	return nil
}

func (p *postgresConnector) adminDB(ctx context.Context, cfg config.Storage, creds config.Credentials, log *logger.Logger) (*DB, error) {
	return p.connect(ctx, cfg, cfg.DatabaseName, creds.AdminAccount, creds.AdminPassword, log)
}

func (p *postgresConnector) walletDB(ctx context.Context, cfg config.Storage, creds config.Credentials, log *logger.Logger) (*DB, error) {
	return p.connect(ctx, cfg, cfg.DatabaseName, creds.Account, creds.Password, log)
}
