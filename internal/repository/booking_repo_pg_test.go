package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBookingRepository(t *testing.T) {
	repo := NewBookingRepository(nil)
	assert.NotNil(t, repo)
	assert.Implements(t, (*BookingRepository)(nil), repo)
}
