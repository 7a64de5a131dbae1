package main

import (
	"fmt"

	"github.com/spf13/cobra"

	config "github.com/NordCoder/update-notifier/internal/config/notifier"
)

func newMigrateCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			v, err := migrateUp(cfg.DB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations: %s at version %d\n", cfg.DB.Driver, v)
			return nil
		},
	}
}
