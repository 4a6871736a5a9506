package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	FlightOffer json.RawMessage          `json:"flightOffer" binding:"required"`
	Passengers  []booking.PassengerInput `json:"passengers"`
}

type modifyBookingRequest struct {
	NewFlightOffer json.RawMessage `json:"newFlightOffer" binding:"required"`
}

type bookedFlightResponse struct {
	ID          int64           `json:"id"`
	BookingID   int64           `json:"bookingId"`
	FlightOffer json.RawMessage `json:"flightOffer"`
	DepartureAt *string         `json:"departureAt"`
}

type passengerResponse struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	DateOfBirth  string `json:"dateOfBirth"`
	TravelerType string `json:"travelerType"`
}

type bookingResponse struct {
	ID              int64                  `json:"id"`
	UserID          int64                  `json:"userId"`
	TotalPrice      float64                `json:"totalPrice"`
	Currency        string                 `json:"currency"`
	Status          string                 `json:"status"`
	PaymentStatus   string                 `json:"paymentStatus"`
	CancellationFee *float64               `json:"cancellationFee"`
	ModificationFee *float64               `json:"modificationFee"`
	PaymentID       *string                `json:"paymentId"`
	OrderID         *string                `json:"orderId"`
	CreatedAt       string                 `json:"createdAt"`
	UpdatedAt       string                 `json:"updatedAt"`
	BookedFlights   []bookedFlightResponse `json:"bookedFlights,omitempty"`
	Passengers      []passengerResponse    `json:"passengers,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.PATCH("/:id/cancel", h.cancel)
	router.PUT("/:id", h.modify)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Valid flight offer details are required."})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), auth.UserID(c), booking.CreateBookingInput{
		FlightOffer: req.FlightOffer,
		Passengers:  req.Passengers,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Booking initiated successfully. Proceed to payment.",
		"bookingId":  created.ID,
		"totalPrice": created.TotalPrice,
		"currency":   created.Currency,
	})
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		response = append(response, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, response)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid booking ID."})
		return
	}

	cancelled, message, err := h.service.CancelBooking(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"booking": toBookingResponse(cancelled),
	})
}

func (h *BookingHandler) modify(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid booking ID."})
		return
	}

	var req modifyBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Valid new flight offer details are required."})
		return
	}

	modified, message, err := h.service.ModifyBooking(c.Request.Context(), auth.UserID(c), id, req.NewFlightOffer)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"booking": toBookingResponse(modified),
	})
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	response := bookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		TotalPrice:      b.TotalPrice,
		Currency:        b.Currency,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		CancellationFee: b.CancellationFee,
		ModificationFee: b.ModificationFee,
		PaymentID:       b.PaymentID,
		OrderID:         b.OrderID,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
	if b.Flight != nil {
		var departureAt *string
		if b.Flight.DepartureAt != nil {
			formatted := b.Flight.DepartureAt.Format(time.RFC3339)
			departureAt = &formatted
		}
		response.BookedFlights = []bookedFlightResponse{{
			ID:          b.Flight.ID,
			BookingID:   b.Flight.BookingID,
			FlightOffer: b.Flight.FlightOffer,
			DepartureAt: departureAt,
		}}
	}
	for _, p := range b.Passengers {
		response.Passengers = append(response.Passengers, passengerResponse{
			ID:           p.ID,
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			DateOfBirth:  p.DateOfBirth,
			TravelerType: string(p.TravelerType),
		})
	}
	return response
}
