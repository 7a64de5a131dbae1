package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_pass_total", Help: "Notification passes by trigger mode",
	}, []string{"mode"})
	mPassDur = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "notifier_pass_duration_seconds", Help: "Notification pass duration",
		Buckets: prometheus.DefBuckets,
	})
	mDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_category_decisions_total", Help: "Due-check decisions per reason",
	}, []string{"decision"})
	mCategoryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_category_errors_total", Help: "Categories aborted by an error",
	}, []string{"kind"})
	mEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_emails_total", Help: "Per-recipient send attempts",
	}, []string{"result"})
	mAdvances = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifier_cursor_advances_total", Help: "Cursor upserts after a dispatch",
	})
)
