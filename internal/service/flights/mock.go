package flights

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/Domenick1991/flightbooking/internal/amadeus"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
)

const mockTimeLayout = "2006-01-02T15:04:05"

var mockCarriers = []string{"MM", "MK"}

// generateMockOffers builds 3 to 5 plausible offers for the requested route so
// the search flow keeps working when the GDS has nothing to say.
func generateMockOffers(criteria domain.SearchCriteria) *amadeus.OffersResponse {
	count := 3 + rand.Intn(3)
	data := make([]json.RawMessage, 0, count)
	for i := 0; i < count; i++ {
		offer := generateMockOffer(criteria, i)
		raw, err := json.Marshal(offer)
		if err != nil {
			continue
		}
		data = append(data, raw)
	}
	return &amadeus.OffersResponse{
		Meta: amadeus.Meta{Count: len(data)},
		Data: data,
	}
}

func generateMockOffer(criteria domain.SearchCriteria, index int) domain.FlightOffer {
	carrier := mockCarriers[index%len(mockCarriers)]

	baseDeparture, err := time.Parse("2006-01-02", criteria.DepartureDate)
	if err != nil {
		baseDeparture = time.Now().AddDate(0, 0, 14)
	}
	departure := baseDeparture.Add(9*time.Hour + time.Duration(index)*time.Hour)
	arrival := departure.Add(time.Duration(2+rand.Intn(2)) * time.Hour)

	cabin := criteria.CabinClass
	if cabin == "" || cabin == "ANY" {
		cabin = "ECONOMY"
	}
	basePrice := 150 + rand.Float64()*50 + float64(index)*10
	switch cabin {
	case "BUSINESS":
		basePrice *= 2
	case "FIRST":
		basePrice *= 3
	}

	adults := criteria.Adults
	if adults < 1 {
		adults = 1
	}
	pricings := make([]domain.TravelerPricing, 0, adults)
	for i := 1; i <= adults; i++ {
		pricings = append(pricings, domain.TravelerPricing{
			TravelerID:   strconv.Itoa(i),
			FareOption:   "STANDARD",
			TravelerType: "ADULT",
			Price: domain.OfferPrice{
				Currency: "USD",
				Total:    fmt.Sprintf("%.2f", basePrice),
				Base:     fmt.Sprintf("%.2f", basePrice*0.9),
			},
		})
	}
	total := basePrice * float64(adults)

	itineraries := []domain.Itinerary{
		mockItinerary(criteria.Origin, criteria.Destination, departure, arrival, carrier, 100+index),
	}
	if criteria.ReturnDate != "" {
		returnBase, err := time.Parse("2006-01-02", criteria.ReturnDate)
		if err == nil {
			returnDeparture := returnBase.Add(14*time.Hour + time.Duration(index)*time.Hour)
			returnArrival := returnDeparture.Add(time.Duration(2+rand.Intn(2)) * time.Hour)
			itineraries = append(itineraries,
				mockItinerary(criteria.Destination, criteria.Origin, returnDeparture, returnArrival, carrier, 200+index))
		}
	}

	return domain.FlightOffer{
		Type:                   "flight-offer",
		ID:                     fmt.Sprintf("mock-%s-%d", uuid.NewString()[:8], index),
		Source:                 "GDS_MOCK_GENERATED",
		OneWay:                 criteria.ReturnDate == "",
		NumberOfBookableSeats:  9,
		Itineraries:            itineraries,
		Price: domain.OfferPrice{
			Currency:   "USD",
			Total:      fmt.Sprintf("%.2f", total),
			Base:       fmt.Sprintf("%.2f", total*0.9),
			GrandTotal: fmt.Sprintf("%.2f", total),
		},
		ValidatingAirlineCodes: []string{carrier},
		TravelerPricings:       pricings,
	}
}

func mockItinerary(origin, destination string, departure, arrival time.Time, carrier string, flightNumber int) domain.Itinerary {
	duration := fmt.Sprintf("PT%dH%02dM", int(arrival.Sub(departure).Hours()), rand.Intn(60))
	return domain.Itinerary{
		Duration: duration,
		Segments: []domain.Segment{{
			ID:          "1",
			Departure:   domain.SegmentPoint{IATACode: origin, At: departure.Format(mockTimeLayout)},
			Arrival:     domain.SegmentPoint{IATACode: destination, At: arrival.Format(mockTimeLayout)},
			CarrierCode: carrier,
			Number:      fmt.Sprintf("%03d", flightNumber),
			Duration:    duration,
		}},
	}
}
