package domain

import (
	"encoding/json"
	"time"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusModified  BookingStatus = "MODIFIED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

type TravelerType string

const (
	TravelerTypeAdult  TravelerType = "ADULT"
	TravelerTypeChild  TravelerType = "CHILD"
	TravelerTypeInfant TravelerType = "INFANT"
)

type Booking struct {
	ID              int64
	UserID          int64
	TotalPrice      float64
	Currency        string
	Status          BookingStatus
	PaymentStatus   PaymentStatus
	CancellationFee *float64
	ModificationFee *float64
	PaymentID       *string
	OrderID         *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Flight     *BookedFlight
	Passengers []Passenger
}

// BookedFlight stores the flight offer exactly as the search provider returned
// it. DepartureAt is derived from the offer's first segment at creation time
// and may be nil when the offer carried no usable departure timestamp.
type BookedFlight struct {
	ID          int64
	BookingID   int64
	FlightOffer json.RawMessage
	DepartureAt *time.Time
}

type Passenger struct {
	ID           int64
	BookingID    int64
	FirstName    string
	LastName     string
	DateOfBirth  string
	TravelerType TravelerType
}
