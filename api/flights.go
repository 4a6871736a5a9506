package api

import (
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type searchFlightsRequest struct {
	Origin        string `form:"origin" binding:"required"`
	Destination   string `form:"destination" binding:"required"`
	DepartureDate string `form:"departureDate" binding:"required"`
	DepartureTime string `form:"departureTime"`
	ReturnDate    string `form:"returnDate"`
	Adults        int    `form:"adults" binding:"required,min=1"`
	CabinClass    string `form:"cabinClass"`
	MaxResults    int    `form:"maxResults"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/search", h.search)
}

func (h *FlightHandler) search(c *gin.Context) {
	var req searchFlightsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Missing required search parameters: origin, destination, departureDate, and adults are required.",
		})
		return
	}

	offers, err := h.service.Search(c.Request.Context(), domain.SearchCriteria{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		DepartureTime: req.DepartureTime,
		ReturnDate:    req.ReturnDate,
		Adults:        req.Adults,
		CabinClass:    req.CabinClass,
		MaxResults:    req.MaxResults,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, offers)
}
