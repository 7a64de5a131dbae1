package notification

import (
	"context"
	"time"
)

type EmailSender interface {
	Send(ctx context.Context, to, subject, body, languageCode string) error
}

type Clock interface {
	Now() time.Time
}
