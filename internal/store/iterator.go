package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MKhiriev/go-wallet-storage/internal/logger"
	"github.com/MKhiriev/go-wallet-storage/models"
)

// rowsLease owns a leased connection, the statement prepared on it and the
// cursor open over that statement. They are released together.
type rowsLease struct {
	conn *sql.Conn
	stmt *sql.Stmt
	rows *sql.Rows
}

func openRowsLease(ctx context.Context, db *DB, query string, args []any) (*rowsLease, error) {
	conn, err := db.lease(ctx)
	if err != nil {
		return nil, err
	}

	stmt, err := conn.PrepareContext(ctx, query)
	if err != nil {
		conn.Close()
		return nil, ioError(ErrPreparingStatement, err)
	}

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		stmt.Close()
		conn.Close()
		return nil, ioError(ErrExecutingQuery, err)
	}

	return &rowsLease{conn: conn, stmt: stmt, rows: rows}, nil
}

// close releases cursor, statement and connection in that order.
func (l *rowsLease) close() error {
	return errors.Join(l.rows.Close(), l.stmt.Close(), l.conn.Close())
}

// storageIterator is the lazy [StorageIterator] returned by Search. It pulls
// one row per Next call and fetches that row's tags on demand.
type storageIterator struct {
	searchID   string
	walletID   string
	opts       models.RecordOptions
	totalCount *int64

	records *rowsLease
	tags    *tagRetriever
}

func (it *storageIterator) Next(ctx context.Context) (*models.StorageRecord, error) {
	if it.records == nil {
		return nil, nil
	}

	log := logger.FromContext(ctx)
	rows := it.records.rows

	if !rows.Next() {
		err := rows.Err()
		if releaseErr := it.release(); err == nil && releaseErr != nil {
			log.Warn().Err(releaseErr).Str("func", "storageIterator.Next").Str("search_id", it.searchID).Msg("failed to release search resources")
		}
		if err != nil {
			log.Err(err).Str("func", "storageIterator.Next").Str("search_id", it.searchID).Msg("error occurred during rows iteration")
			return nil, ioError(ErrScanningRows, err)
		}
		log.Debug().Str("func", "storageIterator.Next").Str("search_id", it.searchID).Msg("search exhausted")
		return nil, nil
	}

	var (
		itemID int64
		name   []byte
		data   []byte
		key    []byte
		typ    []byte
	)
	if err := rows.Scan(&itemID, &name, &data, &key, &typ); err != nil {
		it.release()
		log.Err(err).Str("func", "storageIterator.Next").Str("search_id", it.searchID).Msg("failed to scan search row")
		return nil, ioError(ErrScanningRow, err)
	}

	record := &models.StorageRecord{Name: name}
	if it.opts.RetrieveValue {
		value := models.NewEncryptedValue(data, key)
		record.Value = &value
	}
	if it.opts.RetrieveType {
		record.Type = typ
	}
	if it.tags != nil {
		tags, err := it.tags.retrieve(ctx, itemID)
		if err != nil {
			it.release()
			log.Err(err).
				Str("func", "storageIterator.Next").
				Str("search_id", it.searchID).
				Int64("item_id", itemID).
				Msg("failed to retrieve item tags")
			return nil, err
		}
		record.Tags = tags
	}

	return record, nil
}

func (it *storageIterator) TotalCount() (int64, bool) {
	if it.totalCount == nil {
		return 0, false
	}
	return *it.totalCount, true
}

func (it *storageIterator) Close() error {
	return it.release()
}

// release hands every connection held by the iterator back to the pool.
// Later calls are no-ops.
func (it *storageIterator) release() error {
	var errs []error
	if it.records != nil {
		errs = append(errs, it.records.close())
		it.records = nil
	}
	if it.tags != nil {
		errs = append(errs, it.tags.close())
		it.tags = nil
	}
	return errors.Join(errs...)
}
