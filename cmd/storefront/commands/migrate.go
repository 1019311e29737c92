package commands

import (
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger := newLogger(cfg)

		gdb, err := openDatabase(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		return db.Close(gdb)
	},
}
