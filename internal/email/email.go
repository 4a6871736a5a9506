package email

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/kafka"
	"go.uber.org/zap"
)

// Sender is the mock notification channel: it logs what a real mailer would
// send for each booking event.
type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.logger.Info("sending booking notification",
		zap.String("type", event.Type),
		zap.Int64("booking_id", event.BookingID),
		zap.Int64("user_id", event.UserID),
		zap.String("status", event.Status),
		zap.String("payment_status", event.PaymentStatus),
	)
	return nil
}
