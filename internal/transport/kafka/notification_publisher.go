package kafkat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paycheckout/internal/entity"
	"paycheckout/pkg/logger"
	"paycheckout/pkg/metric"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type NotificationPublisher struct {
	writer  MessageWriter
	topic   string
	log     logger.Logger
	metrics metric.Publisher
}

func NewNotificationPublisher(
	writer MessageWriter,
	topic string,
	log logger.Logger,
	metrics metric.Publisher,
) *NotificationPublisher {
	return &NotificationPublisher{
		writer:  writer,
		topic:   topic,
		log:     log,
		metrics: metrics,
	}
}

// Publish writes the notification keyed by its reference id, so every update for
// one checkout lands on the same partition in arrival order.
func (p *NotificationPublisher) Publish(ctx context.Context, n *entity.Notification) error {
	const op = "transport.kafka.NotificationPublisher.Publish"

	value, err := json.Marshal(n)
	if err != nil {
		p.metrics.Failed(p.topic, "marshal")
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	key := n.ReferenceID
	if key == "" {
		key = n.DedupKey()
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  n.ReceivedAt,
		Headers: []kafka.Header{
			{Key: "source", Value: []byte(n.Source)},
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if requestID := p.log.GetRequestID(ctx); requestID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "request_id", Value: []byte(requestID)})
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		reason := "write"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		p.metrics.Failed(p.topic, reason)
		return fmt.Errorf("%s: %w", op, err)
	}

	p.metrics.Published(p.topic)
	p.log.LogAttrs(ctx, logger.InfoLevel, "notification published",
		logger.String("op", op),
		logger.String("topic", p.topic),
		logger.String("reference_id", n.ReferenceID),
		logger.String("status", n.Status),
	)
	return nil
}

func (p *NotificationPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("transport.kafka.NotificationPublisher.Close: %w", err)
	}
	return nil
}

// LogPublisher records notifications in the service log when no broker is configured.
type LogPublisher struct {
	log     logger.Logger
	metrics metric.Publisher
}

func NewLogPublisher(log logger.Logger, metrics metric.Publisher) *LogPublisher {
	return &LogPublisher{log: log, metrics: metrics}
}

func (p *LogPublisher) Publish(ctx context.Context, n *entity.Notification) error {
	p.metrics.Published("log")
	p.log.LogAttrs(ctx, logger.InfoLevel, "payment notification received",
		logger.String("source", string(n.Source)),
		logger.String("reference_id", n.ReferenceID),
		logger.String("gateway_id", n.GatewayID),
		logger.String("notification_code", n.NotificationCode),
		logger.String("status", n.Status),
		logger.Time("received_at", n.ReceivedAt.UTC().Truncate(time.Millisecond)),
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
