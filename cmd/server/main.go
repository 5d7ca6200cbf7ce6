package main

import (
	bookingshandler "stayhub/internal/bookings/handler"
	bookingsrepo "stayhub/internal/bookings/repository"
	bookingsservice "stayhub/internal/bookings/service"
	bookingsvalidator "stayhub/internal/bookings/validator"
	hotelshandler "stayhub/internal/hotels/handler"
	hotelsrepo "stayhub/internal/hotels/repository"
	hotelsservice "stayhub/internal/hotels/service"
	hotelsvalidator "stayhub/internal/hotels/validator"
	"stayhub/internal/notifications"
	"stayhub/pkg/app"
	"stayhub/pkg/config"
	"stayhub/pkg/kafka"
	kafka_config "stayhub/pkg/kafka/config"
	kafka_middleware "stayhub/pkg/kafka/middleware"
	"stayhub/pkg/middleware"
)

const ServiceName = "server"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting StayHub server")
	cfg.SetMongo()
	cfg.Client.SetIdentity(cfg.Log, cfg.IdentityProviderURL)

	producer := initProducer(cfg)
	bookingService, hotelService := initServices(cfg, producer)

	authenticate := middleware.AuthenticateRoute(cfg.Client.Identity, cfg.Log)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		bookingshandler.NewBookingHandler(bookingService, authenticate, cfg.Log),
		hotelshandler.NewHotelHandler(hotelService, authenticate, cfg.Log),
	)
	serverApp.OnShutdown(func() {
		if producer != nil {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}
		cfg.GracefulShutdown()
	})
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware())

	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) (bookingsservice.BookingService, hotelsservice.HotelService) {
	hotelRepo := hotelsrepo.NewMongoHotelRepository(cfg)
	roomRepo := hotelsrepo.NewMongoRoomRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewRoomLockRepository(cfg)

	notifier := notifications.NewPublisher(producer, ServiceName)

	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		roomRepo,
		hotelRepo,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		notifier,
		cfg,
	)

	hotelService := hotelsservice.NewHotelService(
		hotelRepo,
		roomRepo,
		bookingRepo,
		hotelsvalidator.NewHotelValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return bookingService, hotelService
}
