package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	Cancel(ctx context.Context, id int64, fee float64) (*domain.Booking, error)
	ReplaceFlight(ctx context.Context, id int64, offer json.RawMessage, departureAt *time.Time, totalPrice float64, currency string, fee float64) (*domain.Booking, error)
	CompletePayment(ctx context.Context, id int64, paymentID, orderID string) (*domain.Booking, error)
	FailStalePayments(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, total_price, currency, status, payment_status, cancellation_fee, modification_fee, payment_id, order_id, created_at, updated_at`

const bookingWithFlightQuery = `SELECT b.id, b.user_id, b.total_price, b.currency, b.status, b.payment_status,
	b.cancellation_fee, b.modification_fee, b.payment_id, b.order_id, b.created_at, b.updated_at,
	bf.id, bf.flight_offer, bf.departure_at
	FROM bookings b
	LEFT JOIN booked_flights bf ON bf.booking_id = b.id`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.TotalPrice, &b.Currency, &b.Status, &b.PaymentStatus,
		&b.CancellationFee, &b.ModificationFee, &b.PaymentID, &b.OrderID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Create persists the booking together with its booked flight and passengers
// in one transaction, so a failure mid-write leaves nothing behind.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (user_id, total_price, currency, status, payment_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		booking.UserID, booking.TotalPrice, booking.Currency, booking.Status, booking.PaymentStatus).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	if booking.Flight != nil {
		booking.Flight.BookingID = booking.ID
		if err := tx.QueryRow(ctx, `INSERT INTO booked_flights (booking_id, flight_offer, departure_at)
			VALUES ($1, $2, $3) RETURNING id`,
			booking.ID, booking.Flight.FlightOffer, booking.Flight.DepartureAt).
			Scan(&booking.Flight.ID); err != nil {
			return err
		}
	}

	for i := range booking.Passengers {
		p := &booking.Passengers[i]
		p.BookingID = booking.ID
		if err := tx.QueryRow(ctx, `INSERT INTO passengers (booking_id, first_name, last_name, date_of_birth, traveler_type)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			booking.ID, p.FirstName, p.LastName, p.DateOfBirth, p.TravelerType).
			Scan(&p.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByID loads the booking with its current booked flight. Passengers are not
// loaded here; the lifecycle checks only need ownership, status and departure.
func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, bookingWithFlightQuery+` WHERE b.id = $1`, id)

	var b domain.Booking
	var flightID *int64
	var offer json.RawMessage
	var departureAt *time.Time
	if err := row.Scan(&b.ID, &b.UserID, &b.TotalPrice, &b.Currency, &b.Status, &b.PaymentStatus,
		&b.CancellationFee, &b.ModificationFee, &b.PaymentID, &b.OrderID, &b.CreatedAt, &b.UpdatedAt,
		&flightID, &offer, &departureAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if flightID != nil {
		b.Flight = &domain.BookedFlight{ID: *flightID, BookingID: b.ID, FlightOffer: offer, DepartureAt: departureAt}
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, bookingWithFlightQuery+` WHERE b.user_id = $1 ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var b domain.Booking
		var flightID *int64
		var offer json.RawMessage
		var departureAt *time.Time
		if err := rows.Scan(&b.ID, &b.UserID, &b.TotalPrice, &b.Currency, &b.Status, &b.PaymentStatus,
			&b.CancellationFee, &b.ModificationFee, &b.PaymentID, &b.OrderID, &b.CreatedAt, &b.UpdatedAt,
			&flightID, &offer, &departureAt); err != nil {
			return nil, err
		}
		if flightID != nil {
			b.Flight = &domain.BookedFlight{ID: *flightID, BookingID: b.ID, FlightOffer: offer, DepartureAt: departureAt}
		}
		bookings = append(bookings, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}

	passengers, err := r.passengersFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		bookings[i].Passengers = passengers[bookings[i].ID]
	}
	return bookings, nil
}

func (r *PGBookingRepository) passengersFor(ctx context.Context, bookingIDs []int64) (map[int64][]domain.Passenger, error) {
	rows, err := r.db.Query(ctx, `SELECT id, booking_id, first_name, last_name, date_of_birth, traveler_type
		FROM passengers WHERE booking_id = ANY($1) ORDER BY id`, bookingIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byBooking := make(map[int64][]domain.Passenger)
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.TravelerType); err != nil {
			return nil, err
		}
		byBooking[p.BookingID] = append(byBooking[p.BookingID], p)
	}
	return byBooking, rows.Err()
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id int64, fee float64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings
		SET status = $1, cancellation_fee = $2, updated_at = now()
		WHERE id = $3
		RETURNING `+bookingColumns, domain.BookingStatusCancelled, fee, id)
	return scanBooking(row)
}

// ReplaceFlight swaps the booked flight for a new offer and applies the new
// totals to the booking atomically.
func (r *PGBookingRepository) ReplaceFlight(ctx context.Context, id int64, offer json.RawMessage, departureAt *time.Time, totalPrice float64, currency string, fee float64) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM booked_flights WHERE booking_id = $1`, id); err != nil {
		return nil, err
	}

	var flight domain.BookedFlight
	flight.BookingID = id
	flight.FlightOffer = offer
	flight.DepartureAt = departureAt
	if err := tx.QueryRow(ctx, `INSERT INTO booked_flights (booking_id, flight_offer, departure_at)
		VALUES ($1, $2, $3) RETURNING id`, id, offer, departureAt).Scan(&flight.ID); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `UPDATE bookings
		SET status = $1, total_price = $2, currency = $3, modification_fee = $4, updated_at = now()
		WHERE id = $5
		RETURNING `+bookingColumns, domain.BookingStatusModified, totalPrice, currency, fee, id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	b.Flight = &flight
	return b, nil
}

func (r *PGBookingRepository) CompletePayment(ctx context.Context, id int64, paymentID, orderID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings
		SET payment_status = $1, payment_id = $2, order_id = $3, updated_at = now()
		WHERE id = $4
		RETURNING `+bookingColumns, domain.PaymentStatusCompleted, paymentID, orderID, id)
	return scanBooking(row)
}

// FailStalePayments marks payments that have been PENDING since before cutoff
// as FAILED and returns the affected bookings. Cancelled bookings are skipped;
// their payment state no longer matters.
func (r *PGBookingRepository) FailStalePayments(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings
		SET payment_status = $1, updated_at = now()
		WHERE payment_status = $2 AND status <> $3 AND created_at <= $4
		RETURNING `+bookingColumns,
		domain.PaymentStatusFailed, domain.PaymentStatusPending, domain.BookingStatusCancelled, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failed []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.TotalPrice, &b.Currency, &b.Status, &b.PaymentStatus,
			&b.CancellationFee, &b.ModificationFee, &b.PaymentID, &b.OrderID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		failed = append(failed, b)
	}
	return failed, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
