package kafka_middleware

import (
	"context"
	"time"

	"camrent/pkg/kafka"
	"camrent/pkg/logger"
)

// LoggingProducerMiddleware logs every publish at debug and failures at warn.
func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)

		attrs := []any{
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.EventID(),
			"event_type", msg.EventType(),
			"duration", time.Since(start),
		}
		if err != nil {
			log.Warn("Failed to publish message", append(attrs, "error", err, "transient", kafka.IsTransient(err))...)
			return err
		}
		log.Debug("Published message", attrs...)
		return nil
	}
}
