package main

import (
	"go.uber.org/zap"

	config "github.com/NordCoder/update-notifier/internal/config/notifier"
	"github.com/NordCoder/update-notifier/internal/obs"
)

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	lc := cfg.LoggerConfig()
	if cfg.App.Version == "" || cfg.App.Version == "dev" {
		lc.Ver = version
	}
	l, err := obs.NewLogger(lc)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}
