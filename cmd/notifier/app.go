package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	config "github.com/NordCoder/update-notifier/internal/config/notifier"
	kafkaRepo "github.com/NordCoder/update-notifier/internal/repository/kafka"
	redisRepo "github.com/NordCoder/update-notifier/internal/repository/redis"
	"github.com/NordCoder/update-notifier/internal/services/notifier"
	"github.com/NordCoder/update-notifier/internal/services/notifier/repo"
)

// app is the wired notification core shared by every command.
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	store      *store
	categories *notifier.Store
	uc         *notifier.Usecase
	reconciler *notifier.Reconciler

	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	st, err := openStore(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, store: st, closers: []func(){st.Close}}

	base, err := url.Parse(cfg.Site.BaseURL)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("site.base_url: %w", err)
	}

	a.categories = notifier.NewStore(cfg.Categories)
	engine := notifier.NewEngine(st.Cursors, repo.NewRegistry(base, st.Items))
	mailer := notifier.NewMailer(cfg.SMTP).WithLogger(log)
	dispatcher := notifier.NewDispatcher(mailer, cfg.Site.DefaultLanguage, log, systemClock{})
	a.uc = notifier.NewUC(a.categories, engine, dispatcher, st.Cursors, log)
	a.reconciler = notifier.NewReconciler(st.Cursors, st.Tx, log)

	if cfg.Events.Enable {
		_ = kafkaRepo.EnsureTopic(ctx, cfg.Events.Brokers, kafkaRepo.TopicSpec{
			Name:    cfg.Events.Topic,
			MaxWait: 5 * time.Second,
		}, log)
		prod := kafkaRepo.NewProducer(cfg.Events.Brokers, cfg.Events.Topic, cfg.Events.WriteTimeout).WithLogger(log)
		a.uc.Events = kafkaRepo.NewOutcomeEvents(prod, log)
		a.closers = append(a.closers, func() { _ = prod.Close() })
	}

	if cfg.Lock.Enable {
		lock := redisRepo.NewPassLock(redisRepo.Config{
			Addr:     cfg.Lock.Addr,
			Password: cfg.Lock.Password,
			DB:       cfg.Lock.DB,
			Key:      cfg.Lock.Key,
			TTL:      cfg.Lock.TTL,
		}, log)
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := lock.Ping(pctx); err != nil {
			log.Warn("redis lock unreachable, passes will run unguarded until it recovers", zap.Error(err))
		}
		cancel()
		a.uc.Lock = lock
		a.closers = append(a.closers, func() { _ = lock.Close() })
	}

	return a, nil
}

// reconcile drops cursors of categories that left the configuration.
func (a *app) reconcile(ctx context.Context) {
	if _, err := a.reconciler.Prune(ctx, a.categories.IDs()); err != nil {
		a.log.Error("reconcile cursors", zap.Error(err))
	}
}

// reload swaps in a new category list and prunes cursors of removed ones.
func (a *app) reload(ctx context.Context, cfg *config.Config) {
	a.categories.Replace(cfg.Categories)
	a.reconcile(ctx)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
