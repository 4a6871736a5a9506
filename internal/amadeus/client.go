package amadeus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
)

const defaultBaseURL = "https://test.api.amadeus.com"

// OffersResponse is the flight-offers-search response envelope. Individual
// offers stay raw: the rest of the system treats them as opaque documents.
type OffersResponse struct {
	Meta         Meta              `json:"meta"`
	Data         []json.RawMessage `json:"data"`
	Dictionaries json.RawMessage   `json:"dictionaries,omitempty"`
}

type Meta struct {
	Count int `json:"count"`
}

type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewClient(cfg config.AmadeusConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: amadeus token request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: amadeus token request returned %d", domain.ErrUpstream, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%w: decode amadeus token: %v", domain.ErrUpstream, err)
	}

	c.accessToken = token.AccessToken
	// renew a little early so in-flight searches never carry an expired token
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn-30) * time.Second)
	return c.accessToken, nil
}

type originDestination struct {
	ID                     string                 `json:"id"`
	OriginLocationCode     string                 `json:"originLocationCode"`
	DestinationLocationCode string                `json:"destinationLocationCode"`
	DepartureDateTimeRange departureDateTimeRange `json:"departureDateTimeRange"`
}

type departureDateTimeRange struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type traveler struct {
	ID           string `json:"id"`
	TravelerType string `json:"travelerType"`
}

type searchRequest struct {
	CurrencyCode       string              `json:"currencyCode"`
	OriginDestinations []originDestination `json:"originDestinations"`
	Travelers          []traveler          `json:"travelers"`
	Sources            []string            `json:"sources"`
	SearchCriteria     searchCriteria      `json:"searchCriteria"`
}

type searchCriteria struct {
	MaxFlightOffers int            `json:"maxFlightOffers"`
	FlightFilters   *flightFilters `json:"flightFilters,omitempty"`
}

type flightFilters struct {
	CabinRestrictions []cabinRestriction `json:"cabinRestrictions"`
}

type cabinRestriction struct {
	Cabin                string   `json:"cabin"`
	Coverage             string   `json:"coverage"`
	OriginDestinationIDs []string `json:"originDestinationIds"`
}

// SearchOffers runs a flight-offers-search request against the GDS.
func (c *Client) SearchOffers(ctx context.Context, criteria domain.SearchCriteria) (*OffersResponse, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	departureTime := "00:00:00"
	if criteria.DepartureTime != "" {
		departureTime = criteria.DepartureTime + ":00"
	}

	ods := []originDestination{{
		ID:                      "1",
		OriginLocationCode:      criteria.Origin,
		DestinationLocationCode: criteria.Destination,
		DepartureDateTimeRange:  departureDateTimeRange{Date: criteria.DepartureDate, Time: departureTime},
	}}
	if criteria.ReturnDate != "" {
		ods = append(ods, originDestination{
			ID:                      "2",
			OriginLocationCode:      criteria.Destination,
			DestinationLocationCode: criteria.Origin,
			DepartureDateTimeRange:  departureDateTimeRange{Date: criteria.ReturnDate, Time: "00:00:00"},
		})
	}

	travelers := make([]traveler, 0, criteria.Adults)
	for i := 0; i < criteria.Adults; i++ {
		travelers = append(travelers, traveler{ID: fmt.Sprintf("%d", i+1), TravelerType: "ADULT"})
	}

	body := searchRequest{
		CurrencyCode:       "USD",
		OriginDestinations: ods,
		Travelers:          travelers,
		Sources:            []string{"GDS"},
		SearchCriteria:     searchCriteria{MaxFlightOffers: criteria.MaxResults},
	}
	if criteria.CabinClass != "" && criteria.CabinClass != "ANY" {
		odIDs := make([]string, 0, len(ods))
		for _, od := range ods {
			odIDs = append(odIDs, od.ID)
		}
		body.SearchCriteria.FlightFilters = &flightFilters{
			CabinRestrictions: []cabinRestriction{{
				Cabin:                criteria.CabinClass,
				Coverage:             "MOST_SEGMENTS",
				OriginDestinationIDs: odIDs,
			}},
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/shopping/flight-offers", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: amadeus search: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: amadeus search returned %d: %s", domain.ErrUpstream, resp.StatusCode, string(b))
	}

	var offers OffersResponse
	if err := json.NewDecoder(resp.Body).Decode(&offers); err != nil {
		return nil, fmt.Errorf("%w: decode amadeus response: %v", domain.ErrUpstream, err)
	}
	return &offers, nil
}
