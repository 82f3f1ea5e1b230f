//go:build cgo

package store

import (
	"errors"

	mattn "github.com/mattn/go-sqlite3"
)

func init() {
	sqliteCodeExtractors = append(sqliteCodeExtractors, mattnErrorCode)
}

func mattnErrorCode(err error) (int, bool) {
	var sqliteErr mattn.Error
	if errors.As(err, &sqliteErr) {
		return int(sqliteErr.ExtendedCode), true
	}
	return 0, false
}
