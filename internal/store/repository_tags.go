package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-wallet-storage/internal/logger"
	"github.com/MKhiriev/go-wallet-storage/models"
)

func (q *queries) tags(kind models.TagKind) (*tagQueries, error) {
	switch kind {
	case models.TagKindEncrypted:
		return &q.encrypted, nil
	case models.TagKindPlaintext:
		return &q.plaintext, nil
	default:
		return nil, fmt.Errorf("%w: tag without variant", ErrInvalidState)
	}
}

func tagValueArg(tag models.Tag) any {
	if value, ok := tag.EncryptedValue(); ok {
		return nonNil(value)
	}
	value, _ := tag.PlaintextValue()
	return value
}

// AddTags upserts tags on the item: names already present in the same
// variant get their value overwritten.
func (w *walletStorage) AddTags(ctx context.Context, typ, name []byte, tags []models.Tag) error {
	log := logger.FromContext(ctx)

	err := w.db.inTx(ctx, func(tx *sql.Tx) error {
		itemID, err := w.itemID(ctx, tx, typ, name)
		if err != nil {
			return err
		}
		return w.insertTags(ctx, tx, itemID, tags, true)
	})
	if err != nil {
		log.Err(err).
			Str("func", "walletStorage.AddTags").
			Str("wallet_id", w.walletID).
			Int("tags_count", len(tags)).
			Msg("tags were not added")
		return err
	}

	return nil
}

// UpdateTags replaces the whole tag set of the item.
func (w *walletStorage) UpdateTags(ctx context.Context, typ, name []byte, tags []models.Tag) error {
	log := logger.FromContext(ctx)

	err := w.db.inTx(ctx, func(tx *sql.Tx) error {
		itemID, err := w.itemID(ctx, tx, typ, name)
		if err != nil {
			return err
		}

		for _, table := range []*tagQueries{&w.db.queries().encrypted, &w.db.queries().plaintext} {
			if _, err := tx.ExecContext(ctx, table.deleteAll, w.walletID, itemID); err != nil {
				return ioError(ErrExecutingStatement, err)
			}
		}

		return w.insertTags(ctx, tx, itemID, tags, false)
	})
	if err != nil {
		log.Err(err).
			Str("func", "walletStorage.UpdateTags").
			Str("wallet_id", w.walletID).
			Int("tags_count", len(tags)).
			Msg("tags were not replaced")
		return err
	}

	return nil
}

// DeleteTags removes the named tags, each from the table of its variant.
// Names the item does not carry are ignored.
func (w *walletStorage) DeleteTags(ctx context.Context, typ, name []byte, names []models.TagName) error {
	log := logger.FromContext(ctx)

	err := w.db.inTx(ctx, func(tx *sql.Tx) error {
		itemID, err := w.itemID(ctx, tx, typ, name)
		if err != nil {
			return err
		}

		for idx, tagName := range names {
			table, err := w.db.queries().tags(tagName.Kind())
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, table.deleteName, w.walletID, itemID, nonNil(tagName.Name())); err != nil {
				log.Err(err).
					Str("func", "walletStorage.DeleteTags").
					Int("iteration", idx+1).
					Str("variant", tagName.Kind().String()).
					Msg("failed to delete tag")
				return ioError(ErrExecutingStatement, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "walletStorage.DeleteTags").
			Str("wallet_id", w.walletID).
			Int("names_count", len(names)).
			Msg("tags were not deleted")
		return err
	}

	return nil
}

// insertTags writes tags for itemID inside tx. With upsert an existing tag of
// the same variant and name is overwritten, otherwise it is a uniqueness
// violation reported as [ErrItemAlreadyExists].
func (w *walletStorage) insertTags(ctx context.Context, tx *sql.Tx, itemID int64, tags []models.Tag, upsert bool) error {
	log := logger.FromContext(ctx)

	for idx, tag := range tags {
		table, err := w.db.queries().tags(tag.Kind())
		if err != nil {
			return err
		}

		stmt := table.insert
		if upsert {
			stmt = table.upsert
		}

		if _, err := tx.ExecContext(ctx, stmt, w.walletID, itemID, nonNil(tag.Name()), tagValueArg(tag)); err != nil {
			log.Debug().
				Str("func", "walletStorage.insertTags").
				Int("iteration", idx+1).
				Int("total", len(tags)).
				Str("variant", tag.Kind().String()).
				Msg("failed to insert tag")
			if w.db.classify(err).IsConstraintViolation() {
				return ErrItemAlreadyExists
			}
			return ioError(ErrExecutingStatement, err)
		}
	}

	return nil
}

// itemTags reads both tag tables for itemID. The result is never nil.
func (w *walletStorage) itemTags(ctx context.Context, conn *sql.Conn, itemID int64) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, 8)

	for _, kind := range []models.TagKind{models.TagKindEncrypted, models.TagKindPlaintext} {
		table, err := w.db.queries().tags(kind)
		if err != nil {
			return nil, err
		}

		rows, err := conn.QueryContext(ctx, table.selectAll, w.walletID, itemID)
		if err != nil {
			return nil, ioError(ErrExecutingQuery, err)
		}

		tags, err = scanTags(rows, kind, tags)
		if err != nil {
			return nil, err
		}
	}

	return tags, nil
}

// scanTags appends the (name, value) rows of one tag table to dst and closes
// rows.
func scanTags(rows *sql.Rows, kind models.TagKind, dst []models.Tag) ([]models.Tag, error) {
	defer rows.Close()

	for rows.Next() {
		var name []byte
		if kind == models.TagKindEncrypted {
			var value []byte
			if err := rows.Scan(&name, &value); err != nil {
				return nil, ioError(ErrScanningRow, err)
			}
			dst = append(dst, models.EncryptedTag(name, value))
			continue
		}

		var value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, ioError(ErrScanningRow, err)
		}
		dst = append(dst, models.PlaintextTag(name, value))
	}

	if err := rows.Err(); err != nil {
		return nil, ioError(ErrScanningRows, err)
	}

	return dst, nil
}
