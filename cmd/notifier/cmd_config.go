package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	config "github.com/NordCoder/update-notifier/internal/config/notifier"
	"github.com/NordCoder/update-notifier/internal/domain/category"
)

type configView struct {
	Driver     string              `yaml:"db_driver"`
	CronSpec   string              `yaml:"cron_spec"`
	Timezone   string              `yaml:"timezone"`
	BaseURL    string              `yaml:"base_url"`
	Language   string              `yaml:"default_language"`
	Categories []category.Category `yaml:"categories"`
}

func newConfigCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the config and print the normalised result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			spec, _ := cfg.Schedule.CronSpec()
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(configView{
				Driver:     cfg.DB.Driver,
				CronSpec:   spec,
				Timezone:   cfg.Schedule.Timezone,
				BaseURL:    cfg.Site.BaseURL,
				Language:   cfg.Site.DefaultLanguage,
				Categories: cfg.Categories,
			})
		},
	})
	return cmd
}
