package domain

import (
	"fmt"
	"strings"
)

// SearchCriteria is the normalized flight search request passed to the GDS
// client and used as the cache key for search results.
type SearchCriteria struct {
	Origin        string
	Destination   string
	DepartureDate string
	DepartureTime string
	ReturnDate    string
	Adults        int
	CabinClass    string
	MaxResults    int
}

func (c SearchCriteria) Normalized() SearchCriteria {
	c.Origin = strings.ToUpper(c.Origin)
	c.Destination = strings.ToUpper(c.Destination)
	c.CabinClass = strings.ToUpper(c.CabinClass)
	if c.MaxResults <= 0 {
		c.MaxResults = 50
	}
	return c
}

func (c SearchCriteria) CacheKey() string {
	return fmt.Sprintf("offers:%s:%s:%s:%s:%s:%d:%s:%d",
		c.Origin, c.Destination, c.DepartureDate, c.DepartureTime, c.ReturnDate, c.Adults, c.CabinClass, c.MaxResults)
}
