package main

import (
	"camrent/internal/bookings/conflict"
	"camrent/internal/bookings/handler"
	"camrent/internal/bookings/jobs"
	"camrent/internal/bookings/lifecycle"
	"camrent/internal/bookings/notify"
	"camrent/internal/bookings/pricing"
	"camrent/internal/bookings/repository"
	"camrent/internal/bookings/service"
	"camrent/internal/bookings/validator"
	"camrent/pkg/app"
	"camrent/pkg/config"
	"camrent/pkg/kafka"
	kafka_config "camrent/pkg/kafka/config"
	kafka_middleware "camrent/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)

	notifier, metrics := initNotifier(cfg, serverApp)
	controller, bookingHandler, itemHandler := initServices(cfg, notifier)

	purge, err := jobs.NewScheduler(controller, cfg.PurgeSchedule, cfg.Location, cfg.RequestTimeout, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create purge scheduler", "error", err)
	}
	serverApp.AddWorker(purge)

	serverApp.SetApp(handler.NewHealthHandler(cfg.Client, metrics, cfg.Log), bookingHandler, itemHandler)
	serverApp.Run()
}

// initNotifier returns a Kafka-backed notifier, or a no-op when
// notifications are disabled. The metrics are nil in the latter case.
func initNotifier(cfg *config.Config, serverApp *app.Application) (lifecycle.Notifier, *kafka_middleware.PublishMetrics) {
	if !cfg.NotificationsEnabled {
		cfg.Log.Info("Booking notifications disabled")
		return notify.Nop{}, nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.NotificationsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	metrics := &kafka_middleware.PublishMetrics{}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}
	producer.Use(kafka_middleware.MetricsProducerMiddleware(metrics))
	serverApp.AddCloser(producer)

	cfg.Log.Info("Booking notifications enabled", "topic", producer.Topic())
	return notify.NewKafkaNotifier(producer), metrics
}

func initServices(cfg *config.Config, notifier lifecycle.Notifier) (*lifecycle.Controller, *handler.BookingHandler, *handler.ItemHandler) {
	bookingValidator := validator.NewBookingValidator(cfg.Log)

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	itemRepo := repository.NewMongoItemRepository(cfg)
	paymentRepo := repository.NewMongoPaymentRepository(cfg)
	extensionRepo := repository.NewMongoExtensionRepository(cfg)

	prices := pricing.NewResolver(itemRepo)
	conflicts := conflict.NewResolver(bookingRepo)

	controller := lifecycle.NewController(lifecycle.Dependencies{
		Tx:         repository.NewTransactionManager(cfg),
		Bookings:   bookingRepo,
		Payments:   paymentRepo,
		Extensions: extensionRepo,
		Locks:      repository.NewBookingLockRepository(cfg),
		Prices:     prices,
		Conflicts:  conflicts,
		Notifier:   notifier,
	}, lifecycle.Options{
		RejectionRetention: cfg.RejectionRetention,
	}, cfg.Log)

	bookingService := service.NewBookingService(controller, bookingRepo, paymentRepo, extensionRepo, bookingValidator, cfg)
	itemService := service.NewItemService(itemRepo, prices, conflicts, bookingValidator, cfg)

	cfg.Log.Info("Booking services initialized", "database", cfg.MongoDatabaseName, "timezone", cfg.BookingTimezone)
	return controller,
		handler.NewBookingHandler(bookingService, cfg.Log, cfg.Location),
		handler.NewItemHandler(itemService, cfg.Log, cfg.Location)
}
