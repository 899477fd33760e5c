package domain

type SeatClass string

const (
	SeatClassEconomy  SeatClass = "Economy"
	SeatClassBusiness SeatClass = "Business"
)

type SeatPosition string

const (
	SeatPositionWindow SeatPosition = "Window"
	SeatPositionAisle  SeatPosition = "Aisle"
	SeatPositionMiddle SeatPosition = "Middle"
)

// Seat is one entry of a flight's seat configuration. SeatID is unique
// within the configuration; Available is server-authoritative at fetch time.
type Seat struct {
	SeatID    int          `json:"seat_id"`
	Type      SeatClass    `json:"type"`
	Position  SeatPosition `json:"position"`
	Available bool         `json:"available"`
}

// SeatMap is the per-flight seat configuration served by the seats endpoint.
type SeatMap struct {
	GUID           string `json:"guid"`
	SeatsAvailable int    `json:"seats_available"`
	FlightID       string `json:"flight_id"`
	Seats          []Seat `json:"seat_configuration"`
}
