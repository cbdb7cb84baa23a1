package main

import (
	"go.mongodb.org/mongo-driver/mongo"

	"deskhive/internal/bookings/handler"
	"deskhive/internal/bookings/repository"
	"deskhive/internal/bookings/service"
	"deskhive/internal/bookings/validator"
	"deskhive/internal/notify"
	"deskhive/pkg/app"
	"deskhive/pkg/client"
	"deskhive/pkg/config"
	"deskhive/pkg/health"
	"deskhive/pkg/kafka"
	kafka_config "deskhive/pkg/kafka/config"
	kafka_middleware "deskhive/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Bookings service")

	mongoClient := client.ConnectMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)

	producer := initProducer(cfg)
	bookingService := initServices(cfg, mongoClient, producer)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		handler.NewBookingHandler(bookingService, cfg.Log),
		health.NewHandler(mongoClient, cfg.Log),
	)
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
		client.DisconnectMongo(cfg.Log, mongoClient)
	})
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.NotificationsTopic, cfg.NotificationsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware())
	return producer
}

func initServices(cfg *config.Config, mongoClient *mongo.Client, producer *kafka.Producer) service.BookingService {
	policies := repository.NewMongoPolicySource(cfg, mongoClient)
	store := repository.NewMongoStore(cfg, mongoClient, policies)
	reader := repository.NewMongoBookingReader(cfg, mongoClient)
	lockRepo := repository.NewResourceLockRepository(cfg, mongoClient)
	notifier := notify.NewKafkaNotifier(producer, ServiceName, cfg.Log)
	bookingValidator := validator.NewBookingValidator(cfg.Log)

	bookingService := service.NewBookingService(
		store,
		reader,
		lockRepo,
		notifier,
		bookingValidator,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
