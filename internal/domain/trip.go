package domain

import "time"

type TripStatus string

const (
	TripStatusDraft     TripStatus = "DRAFT"
	TripStatusConfirmed TripStatus = "CONFIRMED"
	TripStatusCancelled TripStatus = "CANCELLED"
)

// Passenger holds the finalized per-passenger seat assignment for a trip.
// ReturningSeatID is nil for one-way trips.
type Passenger struct {
	GUID            string `json:"guid"`
	Name            string `json:"name"`
	DepartingSeatID int    `json:"departing_seat_id"`
	ReturningSeatID *int   `json:"returning_seat_id,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
}

// Trip is a booked (or pending) trip covering one or two flight legs.
type Trip struct {
	GUID                string      `json:"guid"`
	Name                string      `json:"name"`
	IsRoundTrip         bool        `json:"is_round_trip"`
	DepartingFlightGUID string      `json:"departing_flight_guid"`
	ReturningFlightGUID string      `json:"returning_flight_guid,omitempty"`
	Passengers          []Passenger `json:"passengers"`
	Status              TripStatus  `json:"status"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}
