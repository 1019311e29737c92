package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/session"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account, or promote an existing one",
	Long: `Accounts registered over HTTP always get the user role. create-admin
bootstraps the first administrator.

Examples:
  storefront create-admin --username root --email root@shop.test --password 's3cret!'
  storefront create-admin --username alice   # promote an existing user`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger := newLogger(cfg)
		ctx := logging.IntoContext(cmd.Context(), logger)

		gdb, err := openDatabase(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		// Promotion revokes sessions; only the Redis backend outlives this process.
		var sessions session.Store = session.NewMemoryStore(0)
		if cfg.SessionBackend == config.SessionBackendRedis && cfg.RedisURL != "" {
			if sessions, err = session.NewRedisStore(ctx, cfg.RedisURL); err != nil {
				return err
			}
		}
		defer sessions.Close()

		svc := &service.UserService{Users: repo.New(gdb), Sessions: sessions, Events: events.Nop{}}
		u, created, err := svc.EnsureAdmin(ctx, adminUsername, adminEmail, adminPassword)
		if err != nil {
			return err
		}

		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Username, u.ID)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is an admin\n", u.Username, u.ID)
		}
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email, required when creating")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password, required when creating")
	_ = createAdminCmd.MarkFlagRequired("username")
}
