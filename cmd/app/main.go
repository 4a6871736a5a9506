package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/amadeus"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/payments"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLogger, err := logger.New("flightbooking-api")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	offersCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Search.OffersCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	razorpayClient := payments.NewClient(cfg.Razorpay)
	amadeusClient := amadeus.NewClient(cfg.Amadeus)

	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := booking.NewBookingService(
		bookingRepo,
		producer,
		razorpayClient,
		zapLogger,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithPaymentPendingTTL(time.Duration(cfg.Worker.PaymentPendingTTLMinutes)*time.Minute),
	)
	flightService := flights.NewFlightService(amadeusClient, offersCache, zapLogger)

	handlers := bootstrap.Handlers{
		Bookings: api.NewBookingHandler(bookingService),
		Flights:  api.NewFlightHandler(flightService),
		Payments: api.NewPaymentHandler(razorpayClient, bookingService, cfg.Razorpay.TestMode),
	}

	if err := bootstrap.Run(ctx, cfg, zapLogger, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
