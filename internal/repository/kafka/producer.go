package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// messageWriter is the part of kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	w     messageWriter
	topic string
	log   *zap.Logger
}

func NewProducer(brokers []string, topic string, writeTimeout time.Duration) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           writeTimeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
		log:   zap.L().With(zap.String("component", "kafka.producer"), zap.String("topic", topic)),
	}
}

func (p *Producer) WithLogger(l *zap.Logger) *Producer {
	if l == nil {
		return p
	}
	cp := *p
	cp.log = l.With(zap.String("component", "kafka.producer"), zap.String("topic", p.topic))
	return &cp
}

// Record is one keyed JSON payload.
type Record struct {
	Key   []byte
	Value any
}

// PublishJSON writes all records in one batch, each carrying the trace
// context of ctx in its headers.
func (p *Producer) PublishJSON(ctx context.Context, records ...Record) error {
	if len(records) == 0 {
		return nil
	}

	tr := otel.Tracer("kafka.producer")
	ctx, span := tr.Start(ctx, "kafka.produce "+p.topic, trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingDestinationName(p.topic),
			semconv.MessagingOperationPublish,
			attribute.Int("messaging.batch.message_count", len(records)),
		),
	)
	defer span.End()

	hdrs := mapCarrierHeaders{}
	otel.GetTextMapPropagator().Inject(ctx, hdrs)

	msgs := make([]kafka.Message, 0, len(records))
	size := 0
	for _, r := range records {
		value, err := json.Marshal(r.Value)
		if err != nil {
			p.log.Error("json marshal failed", zap.Error(err))
			return fmt.Errorf("marshal record: %w", err)
		}
		size += len(value)
		msgs = append(msgs, kafka.Message{Key: r.Key, Value: value, Headers: hdrs.ToKafka()})
	}

	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		span.RecordError(err)
		p.log.Error("kafka write failed", zap.Error(err))
		return err
	}
	p.log.Debug("messages published",
		zap.Int("count", len(msgs)),
		zap.Int("bytes", size),
	)
	return nil
}

func (p *Producer) Close() error { return p.w.Close() }
