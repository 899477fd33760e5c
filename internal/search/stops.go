package search

import "github.com/roamtravel/roamcore/internal/domain"

// NormalizeStops maps the free-text stop descriptions the listing feed uses
// onto the four canonical buckets. Total function: anything unrecognized,
// including the empty string, falls back to "2+" rather than erroring.
func NormalizeStops(raw string) domain.StopBucket {
	switch raw {
	case "Non-stop":
		return domain.StopsNonStop
	case "1 Stop":
		return domain.StopsOne
	case "2 Stop":
		return domain.StopsTwo
	default:
		return domain.StopsMore
	}
}
