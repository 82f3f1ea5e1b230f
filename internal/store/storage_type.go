package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-wallet-storage/internal/config"
	"github.com/MKhiriev/go-wallet-storage/internal/logger"
)

// connector is what a backend contributes to the wallet lifecycle: how to
// validate its configuration, provision the schema and reach the database.
type connector interface {
	backend() string
	validate(cfg *config.Storage, creds *config.Credentials) error
	// hasAdmin reports whether the administrative phases may run.
	hasAdmin(creds config.Credentials) bool
	// provision creates the database if needed and applies the migrations.
	provision(ctx context.Context, cfg config.Storage, creds config.Credentials, log *logger.Logger) error
	adminDB(ctx context.Context, cfg config.Storage, creds config.Credentials, log *logger.Logger) (*DB, error)
	walletDB(ctx context.Context, cfg config.Storage, creds config.Credentials, log *logger.Logger) (*DB, error)
}

// storageType implements [WalletStorageType] on top of a connector.
type storageType struct {
	connector connector
}

func (s *storageType) resolve(cfg *config.Storage, creds *config.Credentials) (config.Storage, config.Credentials, error) {
	if cfg == nil {
		return config.Storage{}, config.Credentials{}, fmt.Errorf("%w: missing storage config", ErrConfig)
	}
	if err := s.connector.validate(cfg, creds); err != nil {
		return config.Storage{}, config.Credentials{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	var c config.Credentials
	if creds != nil {
		c = *creds
	}
	return *cfg, c, nil
}

func (s *storageType) Init(ctx context.Context, cfg *config.Storage, creds *config.Credentials) error {
	log := logger.FromContext(ctx)

	storage, c, err := s.resolve(cfg, creds)
	if err != nil {
		log.Err(err).Str("func", "storageType.Init").Msg("invalid configuration")
		return err
	}

	if !s.connector.hasAdmin(c) {
		log.Warn().
			Str("func", "storageType.Init").
			Str("backend", s.connector.backend()).
			Msg("no admin credentials provided, skipping storage provisioning")
		return nil
	}

	if err := s.connector.provision(ctx, storage, c, log); err != nil {
		log.Err(err).Str("func", "storageType.Init").Msg("failed to provision storage")
		return err
	}

	log.Info().Str("func", "storageType.Init").Str("backend", s.connector.backend()).Msg("storage provisioned")
	return nil
}

func (s *storageType) Create(ctx context.Context, walletID string, cfg *config.Storage, creds *config.Credentials, metadata []byte) error {
	log := logger.FromContext(ctx).ForWallet(walletID)

	if err := validateWalletID(walletID); err != nil {
		return err
	}
	storage, c, err := s.resolve(cfg, creds)
	if err != nil {
		log.Err(err).Str("func", "storageType.Create").Msg("invalid configuration")
		return err
	}

	if !s.connector.hasAdmin(c) {
		log.Warn().
			Str("func", "storageType.Create").
			Msg("no admin credentials provided, wallet metadata is not created")
		return nil
	}

	db, err := s.connector.adminDB(ctx, storage, c, log)
	if err != nil {
		return ioError(ErrAcquiringConnection, err)
	}
	defer db.Close()

	if _, err = db.ExecContext(ctx, db.queries().insertMetadata, walletID, nonNil(metadata)); err != nil {
		if db.classify(err) == UniqueViolation {
			log.Warn().Str("func", "storageType.Create").Msg("wallet already exists")
			return ErrAlreadyExists
		}
		log.Err(err).Str("func", "storageType.Create").Msg("failed to insert wallet metadata")
		return ioError(ErrExecutingStatement, err)
	}

	log.Info().Str("func", "storageType.Create").Msg("wallet created")
	return nil
}

func (s *storageType) Open(ctx context.Context, walletID string, cfg *config.Storage, creds *config.Credentials) (WalletStorage, error) {
	log := logger.FromContext(ctx).ForWallet(walletID)

	if err := validateWalletID(walletID); err != nil {
		return nil, err
	}
	storage, c, err := s.resolve(cfg, creds)
	if err != nil {
		log.Err(err).Str("func", "storageType.Open").Msg("invalid configuration")
		return nil, err
	}

	// an unreachable database is reported as a missing wallet
	db, err := s.connector.walletDB(ctx, storage, c, log)
	if err != nil {
		log.Err(err).Str("func", "storageType.Open").Msg("failed to connect wallet database")
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var found string
	err = db.QueryRowContext(ctx, db.queries().selectWalletExists, walletID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		db.Close()
		log.Warn().Str("func", "storageType.Open").Msg("wallet not found")
		return nil, ErrNotFound
	}
	if err != nil {
		db.Close()
		log.Err(err).Str("func", "storageType.Open").Msg("failed to check wallet metadata")
		return nil, ioError(ErrExecutingQuery, err)
	}

	log.Debug().Str("func", "storageType.Open").Msg("wallet opened")
	return newWalletStorage(db, walletID), nil
}

func (s *storageType) Delete(ctx context.Context, walletID string, cfg *config.Storage, creds *config.Credentials) error {
	log := logger.FromContext(ctx).ForWallet(walletID)

	if err := validateWalletID(walletID); err != nil {
		return err
	}
	storage, c, err := s.resolve(cfg, creds)
	if err != nil {
		log.Err(err).Str("func", "storageType.Delete").Msg("invalid configuration")
		return err
	}

	if !s.connector.hasAdmin(c) {
		log.Warn().
			Str("func", "storageType.Delete").
			Msg("no admin credentials provided, wallet is not deleted")
		return nil
	}

	db, err := s.connector.adminDB(ctx, storage, c, log)
	if err != nil {
		return ioError(ErrAcquiringConnection, err)
	}
	defer db.Close()

	statements := db.queries().deleteWallet
	err = db.inTx(ctx, func(tx *sql.Tx) error {
		var removed int64
		for idx, stmt := range statements {
			res, err := tx.ExecContext(ctx, stmt, walletID)
			if err != nil {
				log.Err(err).
					Str("func", "storageType.Delete").
					Int("statement", idx+1).
					Msg("failed to delete wallet rows")
				return ioError(ErrExecutingStatement, err)
			}
			if idx == len(statements)-1 {
				if removed, err = res.RowsAffected(); err != nil {
					return ioError(ErrExecutingStatement, err)
				}
			}
		}

		if removed == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "storageType.Delete").Msg("wallet was not deleted")
		return err
	}

	log.Info().Str("func", "storageType.Delete").Msg("wallet deleted")
	return nil
}
