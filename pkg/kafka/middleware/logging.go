package kafka_middleware

import (
	"context"
	"time"

	"stayhub/pkg/kafka"
	"stayhub/pkg/logger"
)

func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		if err != nil {
			log.Error("Failed to publish message",
				"topic", msg.Topic,
				"key", msg.Key,
				"event_id", msg.GetEventID(),
				"event_type", msg.GetEventType(),
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err,
			)
		} else {
			log.Info("Message published",
				"topic", msg.Topic,
				"key", msg.Key,
				"event_id", msg.GetEventID(),
				"event_type", msg.GetEventType(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}

		return err
	}
}

func LoggingConsumerMiddleware(log *logger.Logger) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()

		log.Debug("Processing message",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
		)

		err := next(ctx, msg)

		if err != nil {
			log.Error("Message processing failed",
				"topic", msg.Topic,
				"event_id", msg.GetEventID(),
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err,
			)
		} else {
			log.Info("Message processed",
				"topic", msg.Topic,
				"event_id", msg.GetEventID(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}

		return err
	}
}
