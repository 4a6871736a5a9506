package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/email"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/payments"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
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

	zapLogger, err := logger.New("flightbooking-worker")
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

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := booking.NewBookingService(
		bookingRepo,
		producer,
		payments.NewClient(cfg.Razorpay),
		zapLogger,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithPaymentPendingTTL(time.Duration(cfg.Worker.PaymentPendingTTLMinutes)*time.Minute),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(zapLogger)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				zapLogger.Warn("decode booking event", zap.Error(err))
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			zapLogger.Warn("consumer stopped", zap.Error(err))
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.PaymentSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	for {
		select {
		case <-sweepTicker.C:
			failed, err := bookingService.FailStalePayments(ctx)
			if err != nil {
				zapLogger.Error("stale payment sweep failed", zap.Error(err))
				continue
			}
			if len(failed) > 0 {
				zapLogger.Info("marked stale payments failed", zap.Int("count", len(failed)))
			}
		case <-ctx.Done():
			zapLogger.Info("shutting down worker")
			return
		}
	}
}
