package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "notifier",
		Short:         "Scheduled update notifications for content categories",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", envOr("NOTIFIER_CONFIG", "config/notifier.yaml"), "path to the YAML config")

	root.AddCommand(
		newServeCmd(&cfgPath),
		newSendCmd(&cfgPath),
		newCursorsCmd(&cfgPath),
		newMigrateCmd(&cfgPath),
		newConfigCmd(&cfgPath),
		newTokenCmd(),
		newVersionCmd(),
	)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
