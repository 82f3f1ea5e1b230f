package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-wallet-storage/internal/logger"
	"github.com/MKhiriev/go-wallet-storage/models"
)

// walletStorage is the SQL implementation of [WalletStorage]. Every row it
// reads or writes is scoped to walletID.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so database interactions are traced with the wallet
// id and the failing function.
type walletStorage struct {
	db       *DB
	walletID string
}

func newWalletStorage(db *DB, walletID string) *walletStorage {
	return &walletStorage{db: db, walletID: walletID}
}

// Get looks an item up by (type, name) and materializes the fields selected
// by opts. Tags are read with one query per tag table.
func (w *walletStorage) Get(ctx context.Context, typ, name []byte, opts models.RecordOptions) (*models.StorageRecord, error) {
	log := logger.FromContext(ctx)

	conn, err := w.db.lease(ctx)
	if err != nil {
		log.Err(err).Str("func", "walletStorage.Get").Str("wallet_id", w.walletID).Msg("failed to lease connection")
		return nil, err
	}
	defer conn.Close()

	var (
		itemID int64
		data   []byte
		key    []byte
	)
	err = conn.QueryRowContext(ctx, w.db.queries().selectItem, w.walletID, nonNil(typ), nonNil(name)).Scan(&itemID, &data, &key)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug().Str("func", "walletStorage.Get").Str("wallet_id", w.walletID).Msg("item not found")
		return nil, ErrItemNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "walletStorage.Get").Str("wallet_id", w.walletID).Msg("failed to execute query for getting item")
		return nil, ioError(ErrExecutingQuery, err)
	}

	record := &models.StorageRecord{Name: name}
	if opts.RetrieveValue {
		value := models.NewEncryptedValue(data, key)
		record.Value = &value
	}
	if opts.RetrieveType {
		record.Type = typ
	}
	if opts.RetrieveTags {
		tags, err := w.itemTags(ctx, conn, itemID)
		if err != nil {
			log.Err(err).
				Str("func", "walletStorage.Get").
				Str("wallet_id", w.walletID).
				Int64("item_id", itemID).
				Msg("failed to get item tags")
			return nil, err
		}
		record.Tags = tags
	}

	return record, nil
}

// Add inserts the item and all its tags in one transaction. A uniqueness
// violation on the item or any tag aborts everything with
// [ErrItemAlreadyExists].
func (w *walletStorage) Add(ctx context.Context, typ, name []byte, value models.EncryptedValue, tags []models.Tag) error {
	log := logger.FromContext(ctx)

	err := w.db.inTx(ctx, func(tx *sql.Tx) error {
		var itemID int64
		err := tx.QueryRowContext(ctx, w.db.queries().insertItem,
			w.walletID, nonNil(typ), nonNil(name), nonNil(value.Data), nonNil(value.Key)).Scan(&itemID)
		if err != nil {
			if w.db.classify(err).IsConstraintViolation() {
				return ErrItemAlreadyExists
			}
			return ioError(ErrExecutingStatement, err)
		}

		return w.insertTags(ctx, tx, itemID, tags, false)
	})
	if err != nil {
		log.Err(err).
			Str("func", "walletStorage.Add").
			Str("wallet_id", w.walletID).
			Int("tags_count", len(tags)).
			Msg("item was not added")
		return err
	}

	log.Debug().Str("func", "walletStorage.Add").Str("wallet_id", w.walletID).Int("tags_count", len(tags)).Msg("item added")
	return nil
}

// Update replaces the item value. Exactly one row must change.
func (w *walletStorage) Update(ctx context.Context, typ, name []byte, value models.EncryptedValue) error {
	log := logger.FromContext(ctx)

	conn, err := w.db.lease(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, w.db.queries().updateItem,
		nonNil(value.Data), nonNil(value.Key), w.walletID, nonNil(typ), nonNil(name))
	if err != nil {
		log.Err(err).Str("func", "walletStorage.Update").Str("wallet_id", w.walletID).Msg("failed to update item")
		return ioError(ErrExecutingStatement, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return ioError(ErrExecutingStatement, err)
	}

	switch rows {
	case 1:
		return nil
	case 0:
		return ErrItemNotFound
	default:
		log.Error().
			Str("func", "walletStorage.Update").
			Str("wallet_id", w.walletID).
			Int64("rows_affected", rows).
			Msg("update touched more than one item")
		return fmt.Errorf("%w: update touched %d items", ErrInvalidState, rows)
	}
}

// Delete removes the item; its tags go with it through the foreign keys.
func (w *walletStorage) Delete(ctx context.Context, typ, name []byte) error {
	log := logger.FromContext(ctx)

	conn, err := w.db.lease(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, w.db.queries().deleteItem, w.walletID, nonNil(typ), nonNil(name))
	if err != nil {
		log.Err(err).Str("func", "walletStorage.Delete").Str("wallet_id", w.walletID).Msg("failed to delete item")
		return ioError(ErrExecutingStatement, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return ioError(ErrExecutingStatement, err)
	}
	if rows != 1 {
		return ErrItemNotFound
	}

	return nil
}

func (w *walletStorage) Close() error {
	return w.db.Close()
}

// itemID resolves the numeric id of (type, name) inside tx.
func (w *walletStorage) itemID(ctx context.Context, tx *sql.Tx, typ, name []byte) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, w.db.queries().selectItemID, w.walletID, nonNil(typ), nonNil(name)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrItemNotFound
	}
	if err != nil {
		return 0, ioError(ErrExecutingQuery, err)
	}
	return id, nil
}
