package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// FlightOffer mirrors the subset of the GDS offer document the booking logic
// needs. The full raw document is what gets persisted; this type only reads it.
type FlightOffer struct {
	Type                   string            `json:"type,omitempty"`
	ID                     string            `json:"id"`
	Source                 string            `json:"source,omitempty"`
	OneWay                 bool              `json:"oneWay,omitempty"`
	NumberOfBookableSeats  int               `json:"numberOfBookableSeats,omitempty"`
	Itineraries            []Itinerary       `json:"itineraries"`
	Price                  OfferPrice        `json:"price"`
	ValidatingAirlineCodes []string          `json:"validatingAirlineCodes,omitempty"`
	TravelerPricings       []TravelerPricing `json:"travelerPricings,omitempty"`
}

type OfferPrice struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	Base       string `json:"base,omitempty"`
	GrandTotal string `json:"grandTotal,omitempty"`
}

type Itinerary struct {
	Duration string    `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	ID            string       `json:"id,omitempty"`
	Departure     SegmentPoint `json:"departure"`
	Arrival       SegmentPoint `json:"arrival"`
	CarrierCode   string       `json:"carrierCode,omitempty"`
	Number        string       `json:"number,omitempty"`
	Duration      string       `json:"duration,omitempty"`
	NumberOfStops int          `json:"numberOfStops"`
}

type SegmentPoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

type TravelerPricing struct {
	TravelerID   string     `json:"travelerId"`
	FareOption   string     `json:"fareOption,omitempty"`
	TravelerType string     `json:"travelerType"`
	Price        OfferPrice `json:"price"`
}

// ParseOffer decodes a raw offer document and checks the fields every booking
// operation depends on: id, price.total, price.currency and itineraries.
func ParseOffer(raw json.RawMessage) (*FlightOffer, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: valid flight offer details are required", ErrValidation)
	}
	var offer FlightOffer
	if err := json.Unmarshal(raw, &offer); err != nil {
		return nil, fmt.Errorf("%w: malformed flight offer: %v", ErrValidation, err)
	}
	if offer.ID == "" || offer.Price.Total == "" || offer.Price.Currency == "" || len(offer.Itineraries) == 0 {
		return nil, fmt.Errorf("%w: valid flight offer details are required", ErrValidation)
	}
	return &offer, nil
}

func (o *FlightOffer) Total() (float64, error) {
	total, err := strconv.ParseFloat(o.Price.Total, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: offer price.total is not a number", ErrValidation)
	}
	return total, nil
}

// DepartureAt extracts the departure time of the first segment of the first
// itinerary. Returns nil when the offer does not carry one in a parseable form.
func (o *FlightOffer) DepartureAt() *time.Time {
	if len(o.Itineraries) == 0 || len(o.Itineraries[0].Segments) == 0 {
		return nil
	}
	at := o.Itineraries[0].Segments[0].Departure.At
	if at == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, at); err == nil {
			return &t
		}
	}
	return nil
}
