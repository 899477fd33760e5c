package domain

import "time"

// StopBucket is one of the four canonical stop-count categories used for
// filtering and display: "0", "1", "2" or "2+".
type StopBucket string

const (
	StopsNonStop StopBucket = "0"
	StopsOne     StopBucket = "1"
	StopsTwo     StopBucket = "2"
	StopsMore    StopBucket = "2+"
)

// FlightListing is the display-shaped record served by flight search.
// Price and the time fields stay as the free-text strings the search API
// serves ("$299", "8:00 AM"); parsing them is the filter engine's job.
type FlightListing struct {
	GUID            string    `json:"guid"`
	Airline         string    `json:"airline"`
	DepartureTime   string    `json:"departure_time"`
	ArrivalTime     string    `json:"arrival_time"`
	Price           string    `json:"price"`
	NumStops        string    `json:"num_stops"`
	StopInfo        string    `json:"stop_info,omitempty"`
	TripLength      string    `json:"trip_length"`
	OutgoingAirport string    `json:"outgoing_airport"`
	IncomingAirport string    `json:"incoming_airport"`
	FlightDate      string    `json:"flight_date"`
	Baggage         string    `json:"baggage_allowance,omitempty"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}
