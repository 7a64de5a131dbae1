package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	config "github.com/NordCoder/update-notifier/internal/config/notifier"
)

func newSendCmd(cfgPath *string) *cobra.Command {
	var now bool
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Run one notification pass immediately",
		Long: "Run one notification pass outside the daily schedule. Categories whose\n" +
			"interval has not elapsed are skipped unless --now is given.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			l, err := initLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()

			a, err := newApp(ctx, cfg, l)
			if err != nil {
				return err
			}
			defer a.close()
			a.reconcile(ctx)

			rep := a.uc.RunPass(ctx, systemClock{}.Now(), now)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(rep); err != nil {
				return err
			}
			if rep.Skipped {
				return fmt.Errorf("pass %s skipped: another instance holds the lock", rep.ID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&now, "now", false, "ignore the per-category interval")
	return cmd
}
