package kafka

import (
	"context"
	"fmt"
	"time"

	"paycheckout/internal/config"
	"paycheckout/pkg/logger"

	"github.com/segmentio/kafka-go"
)

const _dialTimeout = 5 * time.Second

// NewKafkaWriter returns a synchronous writer for cfg.Topic after making sure
// every broker accepts a connection.
func NewKafkaWriter(ctx context.Context, cfg config.Kafka, log logger.Logger) (*kafka.Writer, error) {
	if err := checkKafkaConnection(ctx, cfg.Brokers, log); err != nil {
		return nil, err
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		Async:                  false,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		ReadTimeout:            cfg.ReadTimeout,
		Logger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.LogAttrs(context.Background(), logger.DebugLevel, "kafka writer info",
				logger.String("topic", cfg.Topic),
				logger.String("message", fmt.Sprintf(msg, args...)),
			)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.LogAttrs(context.Background(), logger.ErrorLevel, "kafka writer error",
				logger.String("topic", cfg.Topic),
				logger.String("error", fmt.Sprintf(msg, args...)),
			)
		}),
	}

	return writer, nil
}

func checkKafkaConnection(ctx context.Context, brokers []string, log logger.Logger) error {
	const op = "kafka.checkKafkaConnection"

	dialer := &kafka.Dialer{Timeout: _dialTimeout}
	for _, broker := range brokers {
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			return fmt.Errorf("%s: connect to %s: %w", op, broker, err)
		}

		if err = conn.Close(); err != nil {
			log.Warnw("failed to close connection",
				"operation", op,
				"broker", broker,
				"error", err)
		}
	}
	return nil
}
