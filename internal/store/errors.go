package store

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-wallet-storage/internal/query"
)

// Domain errors returned by [WalletStorageType] and [WalletStorage].
// Callers should use [errors.Is] to match against these values; backend
// details stay attached as wrapped causes.
var (
	// ErrConfig is returned for missing or unparseable configuration,
	// credentials or options, before any backend call is made.
	ErrConfig = errors.New("wallet storage config error")

	// ErrNotFound is returned when the wallet itself does not exist at
	// open or delete time.
	ErrNotFound = errors.New("wallet not found")

	// ErrItemNotFound is returned when no item matches (type, name), or
	// when the wallet metadata row is missing.
	ErrItemNotFound = errors.New("wallet item not found")

	// ErrItemAlreadyExists is returned when an item or tag write violates
	// a uniqueness or integrity constraint.
	ErrItemAlreadyExists = errors.New("wallet item already exists")

	// ErrAlreadyExists is returned by create when the wallet metadata row
	// already exists.
	ErrAlreadyExists = errors.New("wallet already exists")

	// ErrIO wraps every backend or connection failure that has no domain
	// meaning.
	ErrIO = errors.New("wallet storage io error")

	// ErrInvalidState is returned when a statement touched an unexpected
	// number of rows.
	ErrInvalidState = errors.New("wallet storage invalid state")

	// ErrInvalidQuery is returned when a search predicate cannot be
	// translated.
	ErrInvalidQuery = query.ErrInvalidQuery

	// ErrPoolExhausted is returned, wrapped in [ErrIO], when no connection
	// became free within the configured acquire timeout.
	ErrPoolExhausted = errors.New("connection pool exhausted")
)

// Low-level database operation errors. Repository methods wrap them in
// [ErrIO] together with the driver error.
var (
	// ErrAcquiringConnection is returned when a connection cannot be leased
	// from the wallet pool.
	ErrAcquiringConnection = errors.New("failed to acquire connection")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrPreparingStatement is returned when a SQL statement cannot be
	// prepared (e.g. syntax error or connection issue).
	ErrPreparingStatement = errors.New("failed to prepare statement")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result fails,
	// typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)

// ioError wraps err as an [ErrIO] tagged with the failed operation.
func ioError(op error, err error) error {
	return fmt.Errorf("%w: %w: %w", ErrIO, op, err)
}
