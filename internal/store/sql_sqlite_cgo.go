//go:build cgo

package store

import (
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqliteDrivers["sqlite3"] = func(path string, busyTimeout time.Duration) string {
		return fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=%d",
			path, busyTimeout.Milliseconds())
	}
}
