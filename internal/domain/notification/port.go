package notification

import "context"

type OutcomePublisher interface {
	PublishOutcomes(ctx context.Context, outcomes []Outcome) error
}
