// Package search implements the flight-search filter engine: pure predicate
// filtering of in-memory listings against optional criteria, plus the stop
// and day-part normalizers the predicates depend on.
package search

import (
	"strconv"
	"strings"

	"github.com/roamtravel/roamcore/internal/domain"
)

// Criteria are the optional search filters. A nil field means "no
// constraint", never "match empty".
type Criteria struct {
	// MaxPrice carries the same currency-prefixed text the listings use
	// ("$500"). Listings priced at exactly the maximum are kept.
	MaxPrice *string
	// Stops is a canonical bucket string ("0", "1", "2", "2+").
	Stops *domain.StopBucket
	// ArrivalTime and DepartureTime are day-part categories.
	ArrivalTime   *TimeCategory
	DepartureTime *TimeCategory
	// Airline is matched exactly.
	Airline *string
}

// Engine filters flight listings. The zero value uses the default day-part
// policy; supply Categorize to swap boundary rules.
type Engine struct {
	Categorize TimeCategorizer
}

// FilterFlights returns the listings matching every supplied criterion,
// using the default time categorization policy.
func FilterFlights(flights []domain.FlightListing, criteria Criteria) []domain.FlightListing {
	return Engine{}.FilterFlights(flights, criteria)
}

// FilterFlights returns the subset of flights for which every supplied
// criterion holds. The result preserves input order and the input slice is
// never mutated.
func (e Engine) FilterFlights(flights []domain.FlightListing, criteria Criteria) []domain.FlightListing {
	categorize := e.Categorize
	if categorize == nil {
		categorize = CategorizeTime
	}

	result := make([]domain.FlightListing, 0, len(flights))
	for _, f := range flights {
		if matches(f, criteria, categorize) {
			result = append(result, f)
		}
	}
	return result
}

func matches(f domain.FlightListing, c Criteria, categorize TimeCategorizer) bool {
	if c.MaxPrice != nil && !priceWithin(f.Price, *c.MaxPrice) {
		return false
	}
	if c.Stops != nil && NormalizeStops(f.NumStops) != *c.Stops {
		return false
	}
	if c.ArrivalTime != nil && categorize(f.ArrivalTime) != *c.ArrivalTime {
		return false
	}
	if c.DepartureTime != nil && categorize(f.DepartureTime) != *c.DepartureTime {
		return false
	}
	if c.Airline != nil && f.Airline != *c.Airline {
		return false
	}
	return true
}

// priceWithin reports whether a listing's price text is at or under the
// maximum. Unparseable prices on either side fail the comparison, so a
// malformed listing is excluded instead of raising an error.
func priceWithin(price, maxPrice string) bool {
	p, ok := parsePrice(price)
	if !ok {
		return false
	}
	max, ok := parsePrice(maxPrice)
	if !ok {
		return false
	}
	return p <= max
}

// parsePrice strips everything but digits (currency markers, thousands
// separators) and parses the remainder as a non-negative integer.
func parsePrice(raw string) (int, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return n, true
}
