package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	config "github.com/NordCoder/update-notifier/internal/config/notifier"
)

func newCursorsCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cursors",
		Short: "List the stored per-category cursors",
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
			st, err := openStore(ctx, cfg.DB, l)
			if err != nil {
				return err
			}
			defer st.Close()

			list, err := st.Cursors.List(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tLAST ITEM\tLAST NOTIFIED")
			for _, c := range list {
				id, at := "-", "-"
				if c.LastItemID != nil {
					id = fmt.Sprint(*c.LastItemID)
				}
				if c.LastTimestamp != nil {
					at = c.LastNotifiedAt().Format(time.RFC3339)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.CategoryID, id, at)
			}
			return tw.Flush()
		},
	}
}
