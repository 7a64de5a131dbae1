package kafka

import (
	"context"

	"go.uber.org/zap"

	"github.com/NordCoder/update-notifier/internal/domain/notification"
	"github.com/NordCoder/update-notifier/internal/obs/retry"
)

var _ notification.OutcomePublisher = (*OutcomeEvents)(nil)

// OutcomeEvents publishes delivery outcomes keyed by category id.
type OutcomeEvents struct {
	p      *Producer
	policy retry.Policy
}

func NewOutcomeEvents(p *Producer, log *zap.Logger) *OutcomeEvents {
	return &OutcomeEvents{p: p, policy: retry.PublishPolicy(log)}
}

func (e *OutcomeEvents) PublishOutcomes(ctx context.Context, outcomes []notification.Outcome) error {
	records := make([]Record, 0, len(outcomes))
	for _, o := range outcomes {
		records = append(records, Record{Key: []byte(o.CategoryID), Value: o})
	}
	return retry.Do(ctx, func() error {
		return e.p.PublishJSON(ctx, records...)
	}, e.policy)
}
