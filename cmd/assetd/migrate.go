package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	schema "github.com/memohai/assetd/db"
	"github.com/memohai/assetd/internal/db"
	"github.com/memohai/assetd/internal/ledger"
	"github.com/memohai/assetd/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate <up|down|version|force N>",
	Short:     "Run PostgreSQL schema migrations",
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"up", "down", "version", "force"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if driver := strings.ToLower(strings.TrimSpace(cfg.Ledger.Driver)); driver != "" && driver != ledger.DriverPostgres {
			return fmt.Errorf("migrate only applies to the postgres ledger (driver is %q)", cfg.Ledger.Driver)
		}
		logger.Init(cfg.Log.Level, cfg.Log.Format)

		migrations, err := schema.Migrations()
		if err != nil {
			return fmt.Errorf("load migrations: %w", err)
		}
		return db.RunMigrate(logger.L, cfg.Postgres, migrations, args[0], args[1:])
	},
}
