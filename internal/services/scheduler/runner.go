package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	config "github.com/NordCoder/update-notifier/internal/config/notifier"
	"github.com/NordCoder/update-notifier/internal/domain/notification"
	"github.com/NordCoder/update-notifier/internal/services/notifier"
)

var (
	mTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_ticks_total", Help: "Cron ticks that started a pass",
	})
	mSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_ticks_skipped_total", Help: "Cron ticks skipped because a pass was still running",
	})
	mLoopDur = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "scheduler_tick_duration_seconds", Help: "Scheduled pass duration",
		Buckets: prometheus.DefBuckets,
	})
)

type PassRunner interface {
	RunPass(ctx context.Context, now time.Time, bypassInterval bool) notifier.PassReport
}

// Runner fires a pass on a cron schedule. A tick that arrives while the
// previous pass is still running is dropped.
type Runner struct {
	Log   *zap.Logger
	Pass  PassRunner
	Clock notification.Clock

	spec     string
	loc      *time.Location
	schedule cron.Schedule
	busy     sync.Mutex
}

func New(log *zap.Logger, pass PassRunner, clock notification.Clock, cfg config.Schedule) (*Runner, error) {
	spec, err := cfg.CronSpec()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("cron spec %q: %w", spec, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		Log:      log.With(zap.String("component", "scheduler")),
		Pass:     pass,
		Clock:    clock,
		spec:     spec,
		loc:      loc,
		schedule: sched,
	}, nil
}

// Next is the first run strictly after t, in the configured timezone.
func (r *Runner) Next(t time.Time) time.Time {
	return r.schedule.Next(t.In(r.loc))
}

func (r *Runner) tick(ctx context.Context) {
	if !r.busy.TryLock() {
		mSkipped.Inc()
		r.Log.Warn("previous pass still running, skipping tick")
		return
	}
	defer r.busy.Unlock()

	mTicks.Inc()
	start := time.Now()
	rep := r.Pass.RunPass(ctx, r.Clock.Now(), false)
	mLoopDur.Observe(time.Since(start).Seconds())
	r.Log.Debug("scheduled pass done",
		zap.String("pass_id", rep.ID),
		zap.Bool("skipped", rep.Skipped),
		zap.Int("sent", rep.Sent()),
	)
}

func (r *Runner) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(r.loc))
	if _, err := c.AddFunc(r.spec, func() { r.tick(ctx) }); err != nil {
		return fmt.Errorf("schedule pass: %w", err)
	}
	c.Start()
	r.Log.Info("scheduler started",
		zap.String("spec", r.spec),
		zap.String("timezone", r.loc.String()),
		zap.Time("next", r.Next(r.Clock.Now())),
	)

	<-ctx.Done()
	<-c.Stop().Done()
	r.Log.Info("scheduler stopped")
	return ctx.Err()
}
