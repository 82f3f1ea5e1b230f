package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-wallet-storage/internal/app"
	"github.com/MKhiriev/go-wallet-storage/internal/config"
	"github.com/MKhiriev/go-wallet-storage/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const usage = `usage: walletctl init|create|open|delete|version [flags]

  -backend postgres|sqlite  -wallet <id>  -metadata <base64>
  -url host:port  -database <name>  -tls <sslmode>
  -path <file>  -driver sqlite|sqlite3
  -max-connections <n>  -idle-timeout <d>  -acquire-timeout <d>
  -account <name>  -password <pw>  -admin-account <name>  -admin-password <pw>
  -c/-config <json file>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(app.ExitConfig)
	}

	command := os.Args[1]
	if command == "version" {
		printBuildInfo()
		return
	}

	log := logger.NewLogger("walletctl")
	cfg, err := config.GetStructuredConfig(os.Args[2:])
	if err != nil {
		log.Error().Err(err).Msg("error getting configs")
		msg, code := app.Describe(err)
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(code)
	}

	log.Debug().Str("backend", cfg.Backend).Str("wallet_id", cfg.WalletID).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = app.NewApp(os.Stdout, log).Run(ctx, command, cfg); err != nil {
		log.Error().Err(err).Str("command", command).Msg("command failed")
		msg, code := app.Describe(err)
		fmt.Fprintf(os.Stderr, "%s: %s\n", command, msg)
		stop()
		os.Exit(code)
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
