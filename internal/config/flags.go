package config

import (
	"errors"
	"flag"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags from args.
//
// Flags:
//
//	-backend storage backend (postgres|sqlite)
//	-wallet wallet id
//	-metadata base64 wallet metadata for create
//	-url postgres address in format [host]:[port]
//	-database postgres database name
//	-tls postgres sslmode
//	-path sqlite database file
//	-driver sqlite driver (sqlite|sqlite3)
//	-max-connections per-wallet pool size
//	-idle-timeout idle connection timeout (e.g. "5s")
//	-acquire-timeout pool exhaustion timeout, 0 blocks
//	-account / -password regular account
//	-admin-account / -admin-password admin account
//	-c/-config json file path with configs
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("walletctl", flag.ContinueOnError)

	var address NetAddress
	var backend, walletID, metadata string
	var databaseName, tls, path, driver string
	var maxConnections int
	var idleTimeout, acquireTimeout time.Duration
	var account, password, adminAccount, adminPassword string
	var jsonConfigPath string

	fs.StringVar(&backend, "backend", "", "Storage backend (postgres|sqlite)")
	fs.StringVar(&walletID, "wallet", "", "Wallet id")
	fs.StringVar(&metadata, "metadata", "", "Base64 wallet metadata (create)")
	fs.Var(&address, "url", "Postgres address host:port")
	fs.StringVar(&databaseName, "database", "", "Postgres database name")
	fs.StringVar(&tls, "tls", "", "Postgres sslmode")
	fs.StringVar(&path, "path", "", "SQLite database file")
	fs.StringVar(&driver, "driver", "", "SQLite driver (sqlite|sqlite3)")
	fs.IntVar(&maxConnections, "max-connections", 0, "Connections per open wallet")
	fs.DurationVar(&idleTimeout, "idle-timeout", 0, "Idle connection timeout (e.g., 5s)")
	fs.DurationVar(&acquireTimeout, "acquire-timeout", 0, "Pool exhaustion timeout, 0 blocks")
	fs.StringVar(&account, "account", "", "Database account")
	fs.StringVar(&password, "password", "", "Database password")
	fs.StringVar(&adminAccount, "admin-account", "", "Database admin account")
	fs.StringVar(&adminPassword, "admin-password", "", "Database admin password")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		Backend:  backend,
		WalletID: walletID,
		Metadata: metadata,
		Storage: Storage{
			URL:            address.String(),
			DatabaseName:   databaseName,
			TLS:            tls,
			Path:           path,
			Driver:         driver,
			MaxConnections: maxConnections,
			IdleTimeout:    idleTimeout,
			AcquireTimeout: acquireTimeout,
		},
		Credentials: Credentials{
			Account:       account,
			Password:      password,
			AdminAccount:  adminAccount,
			AdminPassword: adminPassword,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range and returns an error if the format or values
// are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host == "" {
		return errors.New("host must not be empty")
	}

	a.Host = host
	a.Port = port
	return nil
}
