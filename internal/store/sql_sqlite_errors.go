package store

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqliteCodeExtractors pull the extended result code out of a driver error.
// Each registered driver appends its own extractor.
var sqliteCodeExtractors = []func(err error) (int, bool){moderncErrorCode}

func moderncErrorCode(err error) (int, bool) {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code(), true
	}
	return 0, false
}

// SQLiteErrorClassifier implements [ErrorClassificator] for the embedded
// backend. Both SQLite drivers report the same extended result codes.
type SQLiteErrorClassifier struct{}

func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

func (c *SQLiteErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return Unclassified
	}

	for _, extract := range sqliteCodeExtractors {
		if code, ok := extract(err); ok {
			return classifySQLiteCode(code)
		}
	}

	return Unclassified
}

func classifySQLiteCode(code int) ErrorClassification {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE,
		sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return UniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY,
		sqlite3.SQLITE_CONSTRAINT_NOTNULL,
		sqlite3.SQLITE_CONSTRAINT_CHECK,
		sqlite3.SQLITE_CONSTRAINT:
		return IntegrityViolation
	case sqlite3.SQLITE_CANTOPEN:
		return ConnectionFailure
	}

	return Unclassified
}
