package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MKhiriev/go-wallet-storage/internal/logger"
)

// GetStorageMetadata returns the wallet metadata blob.
func (w *walletStorage) GetStorageMetadata(ctx context.Context) ([]byte, error) {
	log := logger.FromContext(ctx)

	conn, err := w.db.lease(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var metadata []byte
	err = conn.QueryRowContext(ctx, w.db.queries().selectMetadata, w.walletID).Scan(&metadata)
	if errors.Is(err, sql.ErrNoRows) {
		log.Warn().Str("func", "walletStorage.GetStorageMetadata").Str("wallet_id", w.walletID).Msg("wallet metadata not found")
		return nil, ErrItemNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "walletStorage.GetStorageMetadata").Str("wallet_id", w.walletID).Msg("failed to read wallet metadata")
		return nil, ioError(ErrExecutingQuery, err)
	}

	return metadata, nil
}

// SetStorageMetadata replaces the wallet metadata blob. It never creates a
// missing metadata row.
func (w *walletStorage) SetStorageMetadata(ctx context.Context, metadata []byte) error {
	log := logger.FromContext(ctx)

	conn, err := w.db.lease(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, w.db.queries().updateMetadata, nonNil(metadata), w.walletID); err != nil {
		log.Err(err).Str("func", "walletStorage.SetStorageMetadata").Str("wallet_id", w.walletID).Msg("failed to update wallet metadata")
		return ioError(ErrExecutingStatement, err)
	}

	return nil
}
