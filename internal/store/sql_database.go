package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-wallet-storage/internal/logger"
	"github.com/MKhiriev/go-wallet-storage/internal/query"
	"github.com/MKhiriev/go-wallet-storage/migrations"
)

// dialect is the backend-owned configuration a [DB] runs with: statement
// texts, predicate translator, error classifier and migration set.
type dialect struct {
	name       string
	migrations migrations.Dialect
	queries    queries
	translator query.Translator
	classifier ErrorClassificator
}

func postgresDialect() dialect {
	return dialect{
		name:       "postgres",
		migrations: migrations.Postgres,
		queries:    mustQueries(sq.Dollar),
		translator: query.NewPostgresTranslator(),
		classifier: NewPostgresErrorClassifier(),
	}
}

func sqliteDialect() dialect {
	return dialect{
		name:       "sqlite",
		migrations: migrations.SQLite,
		queries:    mustQueries(sq.Question),
		translator: query.NewSQLiteTranslator(),
		classifier: NewSQLiteErrorClassifier(),
	}
}

// DB is a bounded connection pool together with the dialect it speaks.
// Every repository operation leases its own connection from it.
type DB struct {
	*sql.DB
	dialect            dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger

	// acquireTimeout is the pool exhaustion policy: zero blocks, a positive
	// value fails with ErrPoolExhausted.
	acquireTimeout time.Duration
	onClose        func()
}

func newDB(conn *sql.DB, d dialect, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		dialect:            d,
		errorClassificator: d.classifier,
		logger:             log,
	}
}

func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Migrate(ctx, db.DB, db.dialect.migrations)
}

func (db *DB) queries() *queries {
	return &db.dialect.queries
}

func (db *DB) classify(err error) ErrorClassification {
	if db.errorClassificator == nil {
		return Unclassified
	}
	return db.errorClassificator.Classify(err)
}

// lease takes one connection out of the pool. The caller must Close it.
func (db *DB) lease(ctx context.Context) (*sql.Conn, error) {
	acquireCtx := ctx
	if db.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, db.acquireTimeout)
		defer cancel()
	}

	conn, err := db.DB.Conn(acquireCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %w after %s", ErrIO, ErrPoolExhausted, db.acquireTimeout)
		}
		return nil, ioError(ErrAcquiringConnection, err)
	}

	return conn, nil
}

// inTx runs fn inside one transaction on one leased connection. The
// transaction commits only when fn returns nil; errors returned by fn are
// passed through unchanged.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	conn, err := db.lease(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return ioError(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return ioError(ErrCommitingTransaction, err)
	}

	return nil
}

// Close closes the pool and releases the underlying driver pool, if any.
func (db *DB) Close() error {
	err := db.DB.Close()
	if db.onClose != nil {
		db.onClose()
	}
	return err
}
