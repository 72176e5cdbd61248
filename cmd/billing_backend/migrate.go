package main

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/clinic_billing/internal/platform/config"
	"github.com/SscSPs/clinic_billing/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back database migrations",
		Example: `  billing_backend migrate up
  billing_backend migrate down --path file://migrations`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			path, _ := cmd.Flags().GetString("path")
			if path == "" {
				path = cfg.MigrationsPath
			}

			direction := database.MigrateDirection(args[0])
			logger.Info("Running database migrations", slog.String("direction", string(direction)), slog.String("path", path))
			changed, err := database.RunMigrations(cfg.DatabaseURL, path, direction)
			if err != nil {
				return err
			}
			if changed {
				logger.Info("Database migrations applied successfully.")
			} else {
				logger.Info("No new migrations to apply.")
			}
			return nil
		},
	}

	cmd.Flags().String("path", "", "Migration source URL (default: MIGRATIONS_PATH)")
	return cmd
}
