package store

import (
	"context"
	"fmt"
	"net/url"

	"github.com/MKhiriev/go-wallet-storage/internal/config"
	"github.com/MKhiriev/go-wallet-storage/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// maintenanceDatabase is the database admin connections use to create the
// wallets database.
const maintenanceDatabase = "postgres"

// NewConnectPostgres opens a bounded pgx pool to database as account and
// exposes it through database/sql. Pool bounds, idle timeout and acquire
// timeout come from cfg.
func NewConnectPostgres(ctx context.Context, cfg config.Storage, database, account, password string, log *logger.Logger) (*DB, error) {
	poolCfg, err := postgresPoolConfig(cfg, database, account, password)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error parsing pool config")
		return nil, fmt.Errorf("error parsing pool config: %w", err)
	}

	// establish connection
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// ping database
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		log.Err(err).Str("func", "NewConnectPostgres").Str("database", database).Msg("error connecting database (ping)")
		return nil, err
	}
	log.Debug().Str("func", "NewConnectPostgres").Str("database", database).Msg("connected to database successfully")

	conn := stdlib.OpenDBFromPool(pool)
	conn.SetMaxOpenConns(cfg.MaxConnections)
	conn.SetConnMaxIdleTime(cfg.IdleTimeout)

	db := newDB(conn, postgresDialect(), log)
	db.acquireTimeout = cfg.AcquireTimeout
	db.onClose = pool.Close

	return db, nil
}

func postgresPoolConfig(cfg config.Storage, database, account, password string) (*pgxpool.Config, error) {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(account, password),
		Host:   cfg.URL,
		Path:   "/" + database,
	}
	if cfg.TLS != "" {
		dsn.RawQuery = url.Values{"sslmode": []string{cfg.TLS}}.Encode()
	}

	poolCfg, err := pgxpool.ParseConfig(dsn.String())
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = int32(cfg.MaxConnections)
	poolCfg.MinConns = int32(cfg.MinIdleConnections)
	poolCfg.MaxConnIdleTime = cfg.IdleTimeout
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	return poolCfg, nil
}
