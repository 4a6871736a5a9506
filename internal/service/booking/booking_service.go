package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	feeWindow           = 7 * 24 * time.Hour
	cancellationFeeRate = 0.20
	modificationFeeRate = 0.10
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, string, error)
	ModifyBooking(ctx context.Context, userID, bookingID int64, newOffer json.RawMessage) (*domain.Booking, string, error)
	ConfirmPayment(ctx context.Context, input PaymentConfirmation) (*domain.Booking, error)
	FailStalePayments(ctx context.Context) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// SignatureVerifier checks a payment callback signature against the secret the
// provider signed it with.
type SignatureVerifier interface {
	VerifySignature(orderID, paymentID, signature string) bool
}

type CreateBookingInput struct {
	FlightOffer json.RawMessage  `json:"flightOffer"`
	Passengers  []PassengerInput `json:"passengers" validate:"required,min=1,dive"`
}

type PassengerInput struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	DateOfBirth  string `json:"dateOfBirth" validate:"required"`
	TravelerType string `json:"travelerType" validate:"required,oneof=ADULT CHILD INFANT"`
}

type PaymentConfirmation struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	BookingID int64  `json:"bookingId"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	producer           Producer
	verifier           SignatureVerifier
	validate           *validator.Validate
	logger             *zap.Logger
	eventsTopic        string
	notificationsTopic string
	paymentPendingTTL  time.Duration
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithPaymentPendingTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.paymentPendingTTL = ttl
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	producer Producer,
	verifier SignatureVerifier,
	logger *zap.Logger,
	eventsTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:          bookings,
		producer:          producer,
		verifier:          verifier,
		validate:          validator.New(),
		logger:            logger,
		eventsTopic:       eventsTopic,
		paymentPendingTTL: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking validates the offer and passenger list and persists the
// booking, its flight and its passengers as one unit. Payment is a separate
// later step, so the booking starts CONFIRMED with payment PENDING.
func (s *BookingService) CreateBooking(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, error) {
	offer, err := domain.ParseOffer(input.FlightOffer)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: each passenger must have firstName, lastName, dateOfBirth, and travelerType", domain.ErrValidation)
	}

	total, err := offer.Total()
	if err != nil {
		return nil, err
	}

	departureAt := offer.DepartureAt()
	if departureAt == nil {
		// The booking still goes through; cancellation and modification will
		// reject it later because the departure cannot be established.
		s.logger.Warn("could not extract departure time from flight offer", zap.String("offer_id", offer.ID))
	}

	passengers := make([]domain.Passenger, 0, len(input.Passengers))
	for _, p := range input.Passengers {
		passengers = append(passengers, domain.Passenger{
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			DateOfBirth:  p.DateOfBirth,
			TravelerType: domain.TravelerType(p.TravelerType),
		})
	}

	booking := &domain.Booking{
		UserID:        userID,
		TotalPrice:    total,
		Currency:      offer.Price.Currency,
		Status:        domain.BookingStatusConfirmed,
		PaymentStatus: domain.PaymentStatusPending,
		Flight: &domain.BookedFlight{
			FlightOffer: input.FlightOffer,
			DepartureAt: departureAt,
		},
		Passengers: passengers,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// CancelBooking applies the cancellation fee rule: 20% of the total price when
// departure is less than seven days away, no fee otherwise.
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, string, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	if booking.UserID != userID {
		return nil, "", fmt.Errorf("%w: you are not authorized to cancel this booking", domain.ErrForbidden)
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, "", fmt.Errorf("%w: booking is already cancelled", domain.ErrInvalidState)
	}
	departureAt, err := departureOf(booking)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	untilDeparture := departureAt.Sub(now)

	fee := 0.0
	message := "Booking cancelled successfully. Refund will be processed (mock)."
	if untilDeparture < feeWindow {
		fee = booking.TotalPrice * cancellationFeeRate
		message = fmt.Sprintf("Booking cancelled. A fee of %s %.2f applies as cancellation is within 7 days of departure. No refund will be issued (mock).",
			booking.Currency, fee)
	}

	updated, err := s.bookings.Cancel(ctx, booking.ID, fee)
	if err != nil {
		return nil, "", err
	}

	s.publish(ctx, "booking_cancelled", updated)
	return updated, message, nil
}

// ModifyBooking swaps the booked flight for newOffer. The modification fee is
// keyed to the ORIGINAL departure time; the price difference is reported but
// not captured or refunded here.
func (s *BookingService) ModifyBooking(ctx context.Context, userID, bookingID int64, newOffer json.RawMessage) (*domain.Booking, string, error) {
	offer, err := domain.ParseOffer(newOffer)
	if err != nil {
		return nil, "", err
	}
	newDepartureAt := offer.DepartureAt()
	if newDepartureAt == nil {
		return nil, "", fmt.Errorf("%w: valid new flight offer details are required", domain.ErrValidation)
	}
	newTotal, err := offer.Total()
	if err != nil {
		return nil, "", err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	if booking.UserID != userID {
		return nil, "", fmt.Errorf("%w: you are not authorized to edit this booking", domain.ErrForbidden)
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, "", fmt.Errorf("%w: cannot edit a cancelled booking", domain.ErrInvalidState)
	}
	originalDepartureAt, err := departureOf(booking)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	untilOriginalDeparture := originalDepartureAt.Sub(now)

	fee := 0.0
	feeMessage := ""
	if untilOriginalDeparture < feeWindow {
		fee = booking.TotalPrice * modificationFeeRate
		feeMessage = fmt.Sprintf(" A modification fee of %s %.2f applies as the original departure was within 7 days.",
			booking.Currency, fee)
	}

	priceDifference := newTotal + fee - booking.TotalPrice
	var paymentMessage string
	switch {
	case priceDifference > 0:
		paymentMessage = fmt.Sprintf(" An additional charge of %s %.2f has been processed (mock).", booking.Currency, priceDifference)
	case priceDifference < 0:
		paymentMessage = fmt.Sprintf(" A partial refund of %s %.2f has been processed (mock).", booking.Currency, math.Abs(priceDifference))
	default:
		paymentMessage = " The total price remains the same."
	}

	updated, err := s.bookings.ReplaceFlight(ctx, booking.ID, newOffer, newDepartureAt, newTotal, offer.Price.Currency, fee)
	if err != nil {
		return nil, "", err
	}

	s.publish(ctx, "booking_modified", updated)
	return updated, "Booking updated successfully." + feeMessage + paymentMessage, nil
}

// ConfirmPayment verifies the checkout callback signature and marks the
// payment COMPLETED. The booking status itself is left untouched.
func (s *BookingService) ConfirmPayment(ctx context.Context, input PaymentConfirmation) (*domain.Booking, error) {
	if input.OrderID == "" || input.PaymentID == "" || input.Signature == "" || input.BookingID == 0 {
		return nil, fmt.Errorf("%w: missing required payment verification parameters or bookingId", domain.ErrValidation)
	}

	if !s.verifier.VerifySignature(input.OrderID, input.PaymentID, input.Signature) {
		return nil, domain.ErrInvalidSignature
	}

	updated, err := s.bookings.CompletePayment(ctx, input.BookingID, input.PaymentID, input.OrderID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "payment_completed", updated)
	return updated, nil
}

// FailStalePayments marks payments that stayed PENDING past the configured
// deadline as FAILED. Run periodically by the worker.
func (s *BookingService) FailStalePayments(ctx context.Context) ([]domain.Booking, error) {
	cutoff := time.Now().Add(-s.paymentPendingTTL)
	failed, err := s.bookings.FailStalePayments(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	for i := range failed {
		s.publish(ctx, "payment_failed", &failed[i])
	}
	return failed, nil
}

func departureOf(booking *domain.Booking) (time.Time, error) {
	if booking.Flight == nil || booking.Flight.DepartureAt == nil {
		return time.Time{}, fmt.Errorf("%w: cannot determine flight departure time for this booking", domain.ErrInvalidState)
	}
	departureAt := *booking.Flight.DepartureAt
	if !departureAt.After(time.Now()) {
		return time.Time{}, fmt.Errorf("%w: flight has already departed or is departing now", domain.ErrInvalidState)
	}
	return departureAt, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		Status:        string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
		TotalPrice:    booking.TotalPrice,
		Currency:      booking.Currency,
		OccurredAt:    time.Now(),
	}
	key := strconv.FormatInt(booking.ID, 10)
	if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
		s.logger.Warn("failed to publish booking event", zap.String("type", eventType), zap.Int64("booking_id", booking.ID), zap.Error(err))
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			s.logger.Warn("failed to publish notification event", zap.String("type", eventType), zap.Int64("booking_id", booking.ID), zap.Error(err))
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
