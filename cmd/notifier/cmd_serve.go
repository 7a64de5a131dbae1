package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/NordCoder/update-notifier/internal/auth"
	config "github.com/NordCoder/update-notifier/internal/config/notifier"
	"github.com/NordCoder/update-notifier/internal/obs"
	"github.com/NordCoder/update-notifier/internal/services/admin"
	"github.com/NordCoder/update-notifier/internal/services/scheduler"
)

func newServeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daily scheduler and the admin HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *cfgPath)
		},
	}
}

func serve(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	l, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()
	l.Info("starting notifier",
		zap.String("db_driver", cfg.DB.Driver),
		zap.Int("categories", len(cfg.Categories)),
		zap.String("http_addr", cfg.Server.HTTPAddr),
	)

	otelCloser, err := obs.SetupOTel(ctx, cfg.OTEL.AsOTELConfig())
	if err != nil {
		return err
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	a, err := newApp(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer a.close()
	a.reconcile(ctx)

	if cfgPath != "" {
		if err := config.Watch(cfgPath, l, func(next *config.Config) { a.reload(ctx, next) }); err != nil {
			l.Warn("config watch disabled", zap.Error(err))
		}
	}

	api := &admin.API{
		Pass:       a.uc,
		Categories: a.categories,
		Cursors:    a.store.Cursors,
		Clock:      systemClock{},
		Health:     a.store.Health,
		Log:        l,
	}
	if cfg.Admin.TokenHash != "" {
		v, err := auth.NewVerifier(cfg.Admin.TokenHash)
		if err != nil {
			return err
		}
		api.Verifier = v
	} else {
		l.Warn("admin API has no token configured")
	}
	srv := admin.NewServer(cfg.Server, api.Router(), l)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	if cfg.Schedule.Enable {
		runner, err := scheduler.New(l, a.uc, systemClock{}, cfg.Schedule)
		if err != nil {
			return err
		}
		g.Go(func() error { return runner.Run(gctx) })
	}

	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		l.Warn("systemd notify", zap.Error(err))
	} else if ok {
		l.Debug("systemd notified ready")
	}

	err = g.Wait()
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	if err != nil && !errors.Is(err, context.Canceled) {
		l.Error("notifier stopped with error", zap.Error(err))
		return err
	}
	l.Info("bye")
	return nil
}
