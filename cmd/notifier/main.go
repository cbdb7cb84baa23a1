package main

import (
	"context"
	"os/signal"
	"syscall"

	"deskhive/internal/notify"
	"deskhive/pkg/config"
	"deskhive/pkg/kafka"
	kafka_config "deskhive/pkg/kafka/config"
	kafka_middleware "deskhive/pkg/kafka/middleware"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Notifier worker")

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	worker := notify.NewDeliveryWorker(cfg.Log)
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.NotificationsTopic,
		cfg.NotifierGroupID,
		cfg.NotificationsDLQTopic,
		worker.Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafka_middleware.MetricsConsumerMiddleware())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier worker stopped")
}
