package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ConnectPolicy covers startup dials to backing services.
func ConnectPolicy(name string) Policy {
	return Policy{
		Name:     name,
		Attempts: 5,
		Backoff:  ExpoJitter{Base: 250 * time.Millisecond, Max: 5 * time.Second, Jitter: 0.2},
		Retryable: func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled)
		},
	}
}

// PublishPolicy covers outcome event publishing. Delivery of mail itself is
// never retried.
func PublishPolicy(log *zap.Logger) Policy {
	return Policy{
		Name:     "events.publish",
		Attempts: 3,
		Backoff:  ExpoJitter{Base: 200 * time.Millisecond, Max: 2 * time.Second, Jitter: 0.2},
		Retryable: func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled)
		},
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("publish retry", zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Error("publish retries exhausted", zap.Error(err))
			}
		},
	}
}
