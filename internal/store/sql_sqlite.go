package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-wallet-storage/internal/config"
	"github.com/MKhiriev/go-wallet-storage/internal/logger"
	_ "modernc.org/sqlite"
)

// sqliteDSN builds a driver-specific DSN enabling foreign keys, the WAL
// journal and a busy timeout.
type sqliteDSN func(path string, busyTimeout time.Duration) string

// sqliteDrivers maps config driver names to their DSN builders. The cgo
// driver registers itself only in cgo builds.
var sqliteDrivers = map[string]sqliteDSN{
	"sqlite": func(path string, busyTimeout time.Duration) string {
		return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)",
			path, busyTimeout.Milliseconds())
	},
}

// NewConnectSQLite opens a bounded pool over the SQLite file in cfg.Path.
// When create is false a missing file is reported as os.ErrNotExist instead
// of being created.
func NewConnectSQLite(ctx context.Context, cfg config.Storage, create bool, log *logger.Logger) (*DB, error) {
	dsn, ok := sqliteDrivers[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sqlite driver %q", cfg.Driver)
	}

	if create {
		// db will be in file
		if err := createLocalDBDirIfNotExists(cfg.Path); err != nil {
			log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database directory")
			return nil, err
		}
	} else if _, err := os.Stat(cfg.Path); err != nil {
		return nil, err
	}

	conn, err := sql.Open(cfg.Driver, dsn(cfg.Path, cfg.ConnectTimeout))
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxConnections)
	conn.SetMaxIdleConns(cfg.MaxConnections)
	conn.SetConnMaxIdleTime(cfg.IdleTimeout)

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Str("path", cfg.Path).Msg("connected to database successfully")

	db := newDB(conn, sqliteDialect(), log)
	db.acquireTimeout = cfg.AcquireTimeout

	return db, nil
}

func createLocalDBDirIfNotExists(dbFile string) error {
	dir := filepath.Dir(dbFile)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("error creating DB directory: %w", err)
	}

	return nil
}
