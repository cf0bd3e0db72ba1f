package main

import (
	"errors"
	"fmt"

	"github.com/efreitasn/bookswap/internal/config"
	"github.com/efreitasn/bookswap/internal/store/sqlstore"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := newLogger(cfg.LogLevel)
			if cfg.StoreDriver == config.DriverMemory {
				return errors.New("migrate requires STORE_DRIVER=sqlite or postgres")
			}

			db, err := openDB(cfg, logger)
			if err != nil {
				return err
			}
			defer sqlstore.Close(db)

			if err := sqlstore.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("migration complete", "driver", cfg.StoreDriver)
			return nil
		},
	}
}
