package search

import (
	"strconv"
	"strings"
)

// TimeCategory is a coarse day-part bucket derived from a listing's
// free-text departure or arrival time.
type TimeCategory string

const (
	TimeMorning   TimeCategory = "Morning"
	TimeAfternoon TimeCategory = "Afternoon"
	TimeEvening   TimeCategory = "Evening"
	// TimeUnknown is returned for strings the categorizer cannot parse.
	// It never equals a supplied filter category, so malformed timestamps
	// fail the filter rather than raising an error.
	TimeUnknown TimeCategory = "Unknown"
)

// TimeCategorizer maps a raw time string to a day-part bucket. The filter
// engine takes it as an injected policy so boundary rules can be swapped
// and tested independently.
type TimeCategorizer func(raw string) TimeCategory

// CategorizeTime is the default policy for "h:mm AM"-style strings.
// Any AM time is Morning; 12 PM through 4:59 PM is Afternoon; the rest of
// the PM range is Evening.
func CategorizeTime(raw string) TimeCategory {
	clock, period, ok := splitClock(raw)
	if !ok {
		return TimeUnknown
	}

	hour, err := strconv.Atoi(strings.SplitN(clock, ":", 2)[0])
	if err != nil {
		return TimeUnknown
	}

	if strings.EqualFold(period, "am") {
		return TimeMorning
	}
	if hour == 12 || (hour >= 1 && hour < 5) {
		return TimeAfternoon
	}
	return TimeEvening
}

func splitClock(raw string) (clock, period string, ok bool) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) != 2 {
		return "", "", false
	}
	period = strings.ToLower(fields[1])
	if period != "am" && period != "pm" {
		return "", "", false
	}
	return fields[0], period, true
}
