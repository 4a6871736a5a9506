package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseOffer(t *testing.T) {
	testCases := []struct {
		name    string
		raw     json.RawMessage
		wantErr bool
	}{
		{
			name: "valid offer",
			raw: json.RawMessage(`{
				"id": "1",
				"price": {"total": "250.50", "currency": "EUR"},
				"itineraries": [{"segments": [{"departure": {"iataCode": "CDG", "at": "2026-10-01T09:00:00"}, "arrival": {"iataCode": "AMS", "at": "2026-10-01T10:20:00"}}]}]
			}`),
		},
		{name: "empty", raw: nil, wantErr: true},
		{name: "malformed json", raw: json.RawMessage(`{`), wantErr: true},
		{name: "missing id", raw: json.RawMessage(`{"price": {"total": "1", "currency": "EUR"}, "itineraries": [{}]}`), wantErr: true},
		{name: "missing total", raw: json.RawMessage(`{"id": "1", "price": {"currency": "EUR"}, "itineraries": [{}]}`), wantErr: true},
		{name: "missing currency", raw: json.RawMessage(`{"id": "1", "price": {"total": "1"}, "itineraries": [{}]}`), wantErr: true},
		{name: "no itineraries", raw: json.RawMessage(`{"id": "1", "price": {"total": "1", "currency": "EUR"}, "itineraries": []}`), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			offer, err := ParseOffer(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				assert.Nil(t, offer)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "1", offer.ID)
			assert.Equal(t, "EUR", offer.Price.Currency)
		})
	}
}

func TestFlightOffer_Total(t *testing.T) {
	offer := &FlightOffer{Price: OfferPrice{Total: "250.50"}}
	total, err := offer.Total()
	assert.NoError(t, err)
	assert.Equal(t, 250.50, total)

	offer.Price.Total = "not-a-number"
	_, err = offer.Total()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFlightOffer_DepartureAt(t *testing.T) {
	t.Run("rfc3339", func(t *testing.T) {
		offer := &FlightOffer{Itineraries: []Itinerary{{Segments: []Segment{{
			Departure: SegmentPoint{IATACode: "CDG", At: "2026-10-01T09:00:00Z"},
		}}}}}
		at := offer.DepartureAt()
		assert.NotNil(t, at)
		assert.Equal(t, time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC), at.UTC())
	})

	t.Run("local layout without zone", func(t *testing.T) {
		offer := &FlightOffer{Itineraries: []Itinerary{{Segments: []Segment{{
			Departure: SegmentPoint{IATACode: "CDG", At: "2026-10-01T09:00:00"},
		}}}}}
		at := offer.DepartureAt()
		assert.NotNil(t, at)
		assert.Equal(t, 2026, at.Year())
		assert.Equal(t, 9, at.Hour())
	})

	t.Run("absent", func(t *testing.T) {
		offer := &FlightOffer{Itineraries: []Itinerary{{Segments: []Segment{{
			Departure: SegmentPoint{IATACode: "CDG"},
		}}}}}
		assert.Nil(t, offer.DepartureAt())
	})

	t.Run("no segments", func(t *testing.T) {
		offer := &FlightOffer{Itineraries: []Itinerary{{}}}
		assert.Nil(t, offer.DepartureAt())
	})

	t.Run("unparseable", func(t *testing.T) {
		offer := &FlightOffer{Itineraries: []Itinerary{{Segments: []Segment{{
			Departure: SegmentPoint{IATACode: "CDG", At: "tomorrow"},
		}}}}}
		assert.Nil(t, offer.DepartureAt())
	})
}
