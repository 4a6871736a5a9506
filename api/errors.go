package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError maps lifecycle errors to HTTP statuses. Unknown errors surface as
// a generic 500 so internal detail never leaks into the response body.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidSignature):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUpstream):
		status = http.StatusBadGateway
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"message": message})
}
