package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/logging"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront API server and admin tools",
	Long: `Storefront serves the catalog, cart and account API over HTTP.

Configuration comes from the environment, optionally seeded from an env file:
  DATABASE_URL, DB_DRIVER, SESSION_SECRET, SESSION_TTL, SESSION_BACKEND,
  REDIS_URL, KAFKA_BROKERS, SERVER_PORT, LOG_LEVEL, COOKIE_SECURE,
  AUTH_RATE_LIMIT, AUTH_RATE_BURST, TRUSTED_PROXIES`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnvFile(envFile)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file loaded before reading configuration")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
}

// openDatabase connects with the configured driver and applies the schema.
func openDatabase(ctx context.Context, cfg config.Config, logger *slog.Logger) (*gorm.DB, error) {
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustOneOf(cfg.DBDriver, "DB_DRIVER", config.DriverPostgres, config.DriverSQLite)

	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		_ = db.Close(gdb)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("database ready", "driver", cfg.DBDriver)
	return gdb, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	return logger
}
