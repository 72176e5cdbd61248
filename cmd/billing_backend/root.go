package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func newRootCmd(logger *slog.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "billing_backend",
		Short: "Clinic billing engine",
		Long: `billing_backend records patient payments, refunds and installments and keeps
one ledger per clinic domain (facility, pharmacy, eyewear, operations).

Configuration is read from the environment and an optional .env file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd(logger), newMigrateCmd(logger))
	return rootCmd
}
