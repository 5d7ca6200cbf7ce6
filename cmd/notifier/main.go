package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stayhub/internal/notifications"
	"stayhub/pkg/config"
	"stayhub/pkg/kafka"
	kafka_config "stayhub/pkg/kafka/config"
	kafka_middleware "stayhub/pkg/kafka/middleware"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting StayHub notifier")

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log)

	mailer := notifications.NewMailer(cfg)
	handler := notifications.NewConsumerHandler(mailer, cfg)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.BookingEventsTopic,
		cfg.NotifierGroupID,
		cfg.BookingEventsDLQTopic,
		handler.Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafka_middleware.MetricsConsumerMiddleware())

	ctx, cancel := context.WithCancel(context.Background())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	consumerErrors := make(chan error, 1)
	go func() {
		consumerErrors <- consumer.Start(ctx)
	}()

	select {
	case err := <-consumerErrors:
		if err != nil {
			cfg.Log.Fatal("Consumer stopped with error", "error", err)
		}
	case sig := <-shutdown:
		cfg.Log.Info("Shutdown signal received", "signal", sig)
	}

	cancel()
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped gracefully")
}
