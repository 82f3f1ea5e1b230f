package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-wallet-storage/internal/logger"
	"github.com/MKhiriev/go-wallet-storage/internal/query"
	"github.com/MKhiriev/go-wallet-storage/models"
	"github.com/google/uuid"
)

// GetAll iterates the whole wallet with type, value and tags materialized.
func (w *walletStorage) GetAll(ctx context.Context) (StorageIterator, error) {
	return w.Search(ctx, nil, query.MatchAll(), models.SearchOptions{
		RetrieveRecords: true,
		RetrieveType:    true,
		RetrieveValue:   true,
		RetrieveTags:    true,
	})
}

// Search runs the optional count query first, then opens the records cursor
// and, when tags are requested, the tag retriever. Nothing stays leased when
// records are not requested.
func (w *walletStorage) Search(ctx context.Context, typ []byte, op query.Operator, opts models.SearchOptions) (StorageIterator, error) {
	log := logger.FromContext(ctx)

	it := &storageIterator{
		searchID: uuid.NewString(),
		walletID: w.walletID,
		opts:     opts.RecordOptions(),
	}

	if opts.RetrieveTotalCount {
		count, err := w.count(ctx, typ, op)
		if err != nil {
			log.Err(err).
				Str("func", "walletStorage.Search").
				Str("wallet_id", w.walletID).
				Str("search_id", it.searchID).
				Msg("failed to count search results")
			return nil, err
		}
		it.totalCount = &count
	}

	if !opts.RetrieveRecords {
		return it, nil
	}

	q, args, err := w.db.dialect.translator.Translate(w.walletID, typ, op)
	if err != nil {
		log.Err(err).Str("func", "walletStorage.Search").Str("search_id", it.searchID).Msg("failed to translate query")
		return nil, invalidQuery(err)
	}

	if it.records, err = openRowsLease(ctx, w.db, q, args); err != nil {
		log.Err(err).Str("func", "walletStorage.Search").Str("search_id", it.searchID).Msg("failed to open search cursor")
		return nil, err
	}

	if opts.RetrieveTags {
		if it.tags, err = newTagRetriever(ctx, w.db, w.walletID); err != nil {
			it.release()
			log.Err(err).Str("func", "walletStorage.Search").Str("search_id", it.searchID).Msg("failed to prepare tag retriever")
			return nil, err
		}
	}

	log.Debug().
		Str("func", "walletStorage.Search").
		Str("wallet_id", w.walletID).
		Str("search_id", it.searchID).
		Bool("tags", opts.RetrieveTags).
		Msg("search started")

	return it, nil
}

func (w *walletStorage) count(ctx context.Context, typ []byte, op query.Operator) (int64, error) {
	q, args, err := w.db.dialect.translator.TranslateCount(w.walletID, typ, op)
	if err != nil {
		return 0, invalidQuery(err)
	}

	conn, err := w.db.lease(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	var count int64
	if err := conn.QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
		return 0, ioError(ErrExecutingQuery, err)
	}

	return count, nil
}

func invalidQuery(err error) error {
	if errors.Is(err, ErrInvalidQuery) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
}
