package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/NordCoder/update-notifier/internal/domain/category"
	"github.com/NordCoder/update-notifier/internal/domain/cursor"
	"github.com/NordCoder/update-notifier/internal/domain/item"
	"github.com/NordCoder/update-notifier/internal/domain/notification"
	"github.com/NordCoder/update-notifier/internal/obs"
)

// PassLock guards a pass across instances. ok is false when another holder
// owns the lock; err means the lock backend could not be asked at all.
type PassLock interface {
	Acquire(ctx context.Context) (release func(), ok bool, err error)
}

type CategoryResult struct {
	CategoryID string                 `json:"category_id"`
	Eligible   bool                   `json:"eligible"`
	Reason     Reason                 `json:"reason,omitempty"`
	Candidate  *item.Item             `json:"candidate,omitempty"`
	Outcomes   []notification.Outcome `json:"outcomes,omitempty"`
	Advanced   bool                   `json:"advanced"`
	Error      string                 `json:"error,omitempty"`
}

type PassReport struct {
	ID         string           `json:"id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Bypass     bool             `json:"bypass_interval"`
	Skipped    bool             `json:"skipped"`
	Results    []CategoryResult `json:"results"`
}

func (r PassReport) Sent() int {
	n := 0
	for _, res := range r.Results {
		for _, o := range res.Outcomes {
			if o.Success {
				n++
			}
		}
	}
	return n
}

type Usecase struct {
	Categories category.Lister
	Engine     *Engine
	Dispatcher *Dispatcher
	Cursors    cursor.Store
	Events     notification.OutcomePublisher // optional
	Lock       PassLock                      // optional
	Log        *zap.Logger
}

func NewUC(categories category.Lister, engine *Engine, dispatcher *Dispatcher, cursors cursor.Store, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		Categories: categories,
		Engine:     engine,
		Dispatcher: dispatcher,
		Cursors:    cursors,
		Log:        log.With(zap.String("component", "notifier.uc")),
	}
}

// RunPass evaluates every configured category in order. It never fails as a
// whole: errors are caught per category and recorded in the report.
func (u *Usecase) RunPass(ctx context.Context, now time.Time, bypassInterval bool) PassReport {
	report := PassReport{
		ID:        uuid.NewString(),
		StartedAt: now,
		Bypass:    bypassInterval,
	}
	mode := "interval"
	if bypassInterval {
		mode = "bypass"
	}

	tr := otel.Tracer("notifier.uc")
	ctx, span := tr.Start(ctx, "notifier.pass",
		trace.WithAttributes(
			attribute.String("pass.id", report.ID),
			attribute.Bool("pass.bypass_interval", bypassInterval),
		),
	)
	defer span.End()
	log := obs.WithTrace(ctx, u.Log, zap.String("pass_id", report.ID))

	if u.Lock != nil {
		release, ok, err := u.Lock.Acquire(ctx)
		switch {
		case err != nil:
			log.Warn("pass lock unavailable, proceeding", zap.Error(err))
		case !ok:
			log.Info("pass skipped: lock held elsewhere")
			report.Skipped = true
			report.FinishedAt = now
			span.SetAttributes(attribute.Bool("pass.skipped", true))
			return report
		default:
			defer release()
		}
	}

	start := time.Now()
	mPasses.WithLabelValues(mode).Inc()

	var outcomes []notification.Outcome
	for _, cat := range u.Categories.ListCategories() {
		res := u.runCategory(ctx, log, cat, now, bypassInterval)
		for i := range res.Outcomes {
			res.Outcomes[i].PassID = report.ID
		}
		outcomes = append(outcomes, res.Outcomes...)
		report.Results = append(report.Results, res)
	}

	mPassDur.Observe(time.Since(start).Seconds())
	report.FinishedAt = report.StartedAt.Add(time.Since(start))
	span.SetAttributes(
		attribute.Int("pass.categories", len(report.Results)),
		attribute.Int("pass.sent", report.Sent()),
	)
	log.Info("pass finished",
		zap.Int("categories", len(report.Results)),
		zap.Int("sent", report.Sent()),
		zap.Duration("elapsed", time.Since(start)),
	)

	u.publish(ctx, log, outcomes)
	return report
}

func (u *Usecase) runCategory(ctx context.Context, log *zap.Logger, cat category.Category, now time.Time, bypass bool) (res CategoryResult) {
	res.CategoryID = cat.ID

	ctx, span := otel.Tracer("notifier.uc").Start(ctx, "notifier.category",
		trace.WithAttributes(
			attribute.String("category.id", cat.ID),
			attribute.String("category.kind", string(cat.Kind)),
		),
	)
	defer span.End()
	log = log.With(zap.String("category", cat.ID))

	fail := func(err error) {
		res.Error = err.Error()
		mCategoryErrors.WithLabelValues(errKind(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("category failed", zap.Error(err))
	}

	defer func() {
		if p := recover(); p != nil {
			fail(fmt.Errorf("panic: %v", p))
		}
	}()

	d, err := u.Engine.Evaluate(ctx, cat, now, bypass)
	if err != nil {
		fail(err)
		return res
	}
	res.Eligible, res.Reason, res.Candidate = d.Eligible, d.Reason, d.Candidate
	mDecisions.WithLabelValues(string(d.Reason)).Inc()
	span.SetAttributes(attribute.String("decision", string(d.Reason)))

	if !d.Eligible {
		switch d.Reason {
		case ReasonNoItems:
			log.Error("category has no eligible items", zap.Error(ErrNoEligibleItem))
		default:
			log.Debug("category not eligible", zap.String("reason", string(d.Reason)))
		}
		return res
	}

	res.Outcomes = u.Dispatcher.Send(ctx, cat.ID, d.Candidate, cat.Recipients, cat.Template)

	// Advancement records the attempt, not the delivery result. Mail may
	// already be out, so the write ignores cancellation.
	if err := u.Cursors.Upsert(context.WithoutCancel(ctx), cat.ID, d.Candidate.ID, now.Unix()); err != nil {
		fail(fmt.Errorf("%w: advance cursor %q: %w", ErrStorage, cat.ID, err))
		return res
	}
	res.Advanced = true
	mAdvances.Inc()
	log.Debug("cursor advanced", zap.Int64("item_id", d.Candidate.ID), zap.Int64("timestamp", now.Unix()))
	return res
}

func (u *Usecase) publish(ctx context.Context, log *zap.Logger, outcomes []notification.Outcome) {
	if u.Events == nil || len(outcomes) == 0 {
		return
	}
	if err := u.Events.PublishOutcomes(ctx, outcomes); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("publish outcomes", zap.Int("count", len(outcomes)), zap.Error(err))
	}
}
