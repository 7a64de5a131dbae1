package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/NordCoder/update-notifier/internal/domain/item"
	"github.com/NordCoder/update-notifier/internal/domain/notification"
	"github.com/NordCoder/update-notifier/internal/obs"
)

const (
	TokenTitle = "[entity-title]"
	TokenURL   = "[entity-url]"

	subjectPrefix = "Entity Update Notification: "
)

// Render substitutes the entity tokens in one pass. Replacement values are
// never rescanned, so a title containing a token is left as is.
func Render(template string, it *item.Item, language string) notification.Message {
	r := strings.NewReplacer(TokenTitle, it.Title, TokenURL, it.CanonicalURL)
	return notification.Message{
		Subject:  subjectPrefix + it.Title,
		Body:     r.Replace(template),
		Language: language,
	}
}

// Dispatcher sends one rendered message to every recipient of a category.
type Dispatcher struct {
	Sender   notification.EmailSender
	Language string
	Log      *zap.Logger
	Clock    notification.Clock
}

func NewDispatcher(sender notification.EmailSender, language string, log *zap.Logger, clock notification.Clock) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		Sender:   sender,
		Language: language,
		Log:      log.With(zap.String("component", "notifier.dispatcher")),
		Clock:    clock,
	}
}

// Send attempts every recipient and returns one outcome each. A failed
// recipient never stops the others and nothing is retried.
func (d *Dispatcher) Send(ctx context.Context, categoryID string, it *item.Item, recipients []string, template string) []notification.Outcome {
	msg := Render(template, it, d.Language)

	ctx, span := otel.Tracer("notifier.uc").Start(ctx, "notifier.dispatch",
		trace.WithAttributes(
			attribute.String("category.id", categoryID),
			attribute.Int64("item.id", it.ID),
			attribute.Int("recipients", len(recipients)),
		),
	)
	defer span.End()

	log := obs.WithTrace(ctx, d.Log, zap.String("category", categoryID), zap.Int64("item_id", it.ID))

	outcomes := make([]notification.Outcome, 0, len(recipients))
	failed := 0
	for _, to := range recipients {
		out := notification.Outcome{
			CategoryID: categoryID,
			ItemID:     it.ID,
			Recipient:  to,
			At:         d.now(),
		}
		if err := d.Sender.Send(ctx, to, msg.Subject, msg.Body, msg.Language); err != nil {
			err = fmt.Errorf("%w: send to %s: %w", ErrDelivery, to, err)
			out.Error = err.Error()
			failed++
			mEmails.WithLabelValues("error").Inc()
			log.Error("email failed", zap.String("to", to), zap.Error(err))
		} else {
			out.Success = true
			mEmails.WithLabelValues("sent").Inc()
			log.Info("email sent", zap.String("to", to), zap.String("subject", msg.Subject))
		}
		outcomes = append(outcomes, out)
	}

	span.SetAttributes(
		attribute.Int("emails.sent", len(recipients)-failed),
		attribute.Int("emails.failed", failed),
	)
	return outcomes
}

func (d *Dispatcher) now() time.Time {
	if d.Clock == nil {
		return time.Now().UTC()
	}
	return d.Clock.Now()
}
