package trips

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/roamtravel/roamcore/internal/domain"
	"github.com/roamtravel/roamcore/internal/kafka"
	"github.com/roamtravel/roamcore/internal/repository"
)

var (
	// ErrSeatConflict means another in-flight submission holds one of the
	// requested seats.
	ErrSeatConflict = errors.New("seat is held by another booking")
	// ErrInvalidAssignment covers every user-facing validation failure of
	// a submitted seat assignment set.
	ErrInvalidAssignment = errors.New("invalid seat assignment")
)

type TripUseCase interface {
	CreateTrip(ctx context.Context, input CreateTripInput) (*domain.Trip, error)
	ConfirmTrip(ctx context.Context, guid string) (*domain.Trip, error)
	CancelTrip(ctx context.Context, guid string) (*domain.Trip, error)
	GetTrip(ctx context.Context, guid string) (*domain.Trip, error)
	RemoveTrip(ctx context.Context, guid string) error
	ExpireDraftTrips(ctx context.Context) ([]domain.Trip, error)
}

type Cache interface {
	AcquireSeatHold(ctx context.Context, flightGUID string, seatID int, ttl time.Duration) (bool, error)
	ReleaseSeatHold(ctx context.Context, flightGUID string, seatID int) error
	InvalidateSeatMap(ctx context.Context, flightGUID string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// PassengerInput is one finalized assignment entry from the seat-booking
// flow: the seat id per required leg, as emitted by the seating tracker.
type PassengerInput struct {
	Name            string `json:"name"`
	DepartingSeatID int    `json:"departing_seat_id"`
	ReturningSeatID *int   `json:"returning_seat_id,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
}

type CreateTripInput struct {
	Name                string           `json:"name"`
	IsRoundTrip         bool             `json:"is_round_trip"`
	DepartingFlightGUID string           `json:"departing_flight_guid"`
	ReturningFlightGUID string           `json:"returning_flight_guid,omitempty"`
	Passengers          []PassengerInput `json:"passengers"`
}

type TripService struct {
	trips              repository.TripRepository
	flights            repository.FlightRepository
	cache              Cache
	producer           Producer
	tripsTopic         string
	notificationsTopic string
	holdTTL            time.Duration
	draftTTL           time.Duration
}

type TripServiceOption func(*TripService)

func WithNotificationsTopic(topic string) TripServiceOption {
	return func(s *TripService) {
		s.notificationsTopic = topic
	}
}

func NewTripService(
	trips repository.TripRepository,
	flights repository.FlightRepository,
	cache Cache,
	producer Producer,
	tripsTopic string,
	holdTTL, draftTTL time.Duration,
	opts ...TripServiceOption,
) *TripService {
	service := &TripService{
		trips:      trips,
		flights:    flights,
		cache:      cache,
		producer:   producer,
		tripsTopic: tripsTopic,
		holdTTL:    holdTTL,
		draftTTL:   draftTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateTrip turns a finalized seat assignment set into a draft trip:
// validates the assignments, holds the seats, marks them occupied and
// persists the trip with its passengers. Confirmation happens separately
// once checkout completes.
func (s *TripService) CreateTrip(ctx context.Context, input CreateTripInput) (*domain.Trip, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	held, err := s.holdSeats(ctx, input)
	if err != nil {
		s.releaseHolds(ctx, held)
		return nil, err
	}

	if err := s.occupySeats(ctx, input); err != nil {
		s.releaseHolds(ctx, held)
		return nil, err
	}

	trip := &domain.Trip{
		GUID:                uuid.NewString(),
		Name:                input.Name,
		IsRoundTrip:         input.IsRoundTrip,
		DepartingFlightGUID: input.DepartingFlightGUID,
		ReturningFlightGUID: input.ReturningFlightGUID,
		Status:              domain.TripStatusDraft,
	}
	for _, p := range input.Passengers {
		trip.Passengers = append(trip.Passengers, domain.Passenger{
			GUID:            uuid.NewString(),
			Name:            p.Name,
			DepartingSeatID: p.DepartingSeatID,
			ReturningSeatID: p.ReturningSeatID,
			Email:           p.Email,
			Phone:           p.Phone,
		})
	}

	if err := s.trips.Create(ctx, trip); err != nil {
		s.releaseOccupied(ctx, trip)
		s.releaseHolds(ctx, held)
		return nil, err
	}

	s.invalidateSeatMaps(ctx, trip)
	s.publish(ctx, "trip_created", trip)
	return trip, nil
}

func (s *TripService) ConfirmTrip(ctx context.Context, guid string) (*domain.Trip, error) {
	current, err := s.trips.GetByGUID(ctx, guid)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.TripStatusDraft {
		return nil, fmt.Errorf("trip %s is not a draft", guid)
	}

	updated, err := s.trips.UpdateStatus(ctx, guid, domain.TripStatusConfirmed)
	if err != nil {
		return nil, err
	}

	// Seats are occupied for good now; the short-lived holds can go.
	s.releaseHolds(ctx, holdsFor(updated))
	s.publish(ctx, "trip_confirmed", updated)
	return updated, nil
}

func (s *TripService) CancelTrip(ctx context.Context, guid string) (*domain.Trip, error) {
	current, err := s.trips.GetByGUID(ctx, guid)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.TripStatusCancelled {
		return current, nil
	}

	updated, err := s.trips.UpdateStatus(ctx, guid, domain.TripStatusCancelled)
	if err != nil {
		return nil, err
	}

	s.releaseOccupied(ctx, updated)
	s.releaseHolds(ctx, holdsFor(updated))
	s.invalidateSeatMaps(ctx, updated)
	s.publish(ctx, "trip_cancelled", updated)
	return updated, nil
}

func (s *TripService) GetTrip(ctx context.Context, guid string) (*domain.Trip, error) {
	return s.trips.GetByGUID(ctx, guid)
}

// RemoveTrip cancels (releasing seats) and then deletes the trip record.
func (s *TripService) RemoveTrip(ctx context.Context, guid string) error {
	if _, err := s.CancelTrip(ctx, guid); err != nil {
		return err
	}
	return s.trips.Delete(ctx, guid)
}

// ExpireDraftTrips cancels drafts that outlived the checkout window and
// releases their seats. Run periodically by the worker.
func (s *TripService) ExpireDraftTrips(ctx context.Context) ([]domain.Trip, error) {
	deadline := time.Now().Add(-s.draftTTL)
	expired, err := s.trips.CancelDraftsBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}
	for i := range expired {
		t := &expired[i]
		s.releaseOccupied(ctx, t)
		s.releaseHolds(ctx, holdsFor(t))
		s.invalidateSeatMaps(ctx, t)
		s.publish(ctx, "trip_expired", t)
	}
	return expired, nil
}

type seatHold struct {
	flightGUID string
	seatID     int
}

// holdsFor lists every (flight, seat) pair a trip's passengers occupy.
func holdsFor(t *domain.Trip) []seatHold {
	var holds []seatHold
	for _, p := range t.Passengers {
		holds = append(holds, seatHold{t.DepartingFlightGUID, p.DepartingSeatID})
		if t.IsRoundTrip && p.ReturningSeatID != nil {
			holds = append(holds, seatHold{t.ReturningFlightGUID, *p.ReturningSeatID})
		}
	}
	return holds
}

func validateInput(input CreateTripInput) error {
	if input.DepartingFlightGUID == "" {
		return fmt.Errorf("%w: departing flight is required", ErrInvalidAssignment)
	}
	if input.IsRoundTrip && input.ReturningFlightGUID == "" {
		return fmt.Errorf("%w: returning flight is required for a round trip", ErrInvalidAssignment)
	}
	if len(input.Passengers) == 0 {
		return fmt.Errorf("%w: at least one passenger is required", ErrInvalidAssignment)
	}

	departing := make(map[int]bool, len(input.Passengers))
	returning := make(map[int]bool, len(input.Passengers))
	for i, p := range input.Passengers {
		if p.DepartingSeatID <= 0 {
			return fmt.Errorf("%w: passenger %d has no departing seat", ErrInvalidAssignment, i)
		}
		if departing[p.DepartingSeatID] {
			return fmt.Errorf("%w: departing seat %d assigned twice", ErrInvalidAssignment, p.DepartingSeatID)
		}
		departing[p.DepartingSeatID] = true

		if input.IsRoundTrip {
			if p.ReturningSeatID == nil || *p.ReturningSeatID <= 0 {
				return fmt.Errorf("%w: passenger %d has no returning seat", ErrInvalidAssignment, i)
			}
			if returning[*p.ReturningSeatID] {
				return fmt.Errorf("%w: returning seat %d assigned twice", ErrInvalidAssignment, *p.ReturningSeatID)
			}
			returning[*p.ReturningSeatID] = true
		}
	}
	return nil
}

// holdSeats acquires redis holds for every requested seat. The returned
// slice always lists the holds actually acquired so the caller can release
// them on failure.
func (s *TripService) holdSeats(ctx context.Context, input CreateTripInput) ([]seatHold, error) {
	if s.cache == nil {
		return nil, nil
	}

	var held []seatHold
	for _, p := range input.Passengers {
		wanted := []seatHold{{input.DepartingFlightGUID, p.DepartingSeatID}}
		if input.IsRoundTrip && p.ReturningSeatID != nil {
			wanted = append(wanted, seatHold{input.ReturningFlightGUID, *p.ReturningSeatID})
		}
		for _, h := range wanted {
			ok, err := s.cache.AcquireSeatHold(ctx, h.flightGUID, h.seatID, s.holdTTL)
			if err != nil {
				return held, err
			}
			if !ok {
				return held, fmt.Errorf("flight %s seat %d: %w", h.flightGUID, h.seatID, ErrSeatConflict)
			}
			held = append(held, h)
		}
	}
	return held, nil
}

func (s *TripService) releaseHolds(ctx context.Context, holds []seatHold) {
	if s.cache == nil {
		return
	}
	for _, h := range holds {
		if err := s.cache.ReleaseSeatHold(ctx, h.flightGUID, h.seatID); err != nil {
			log.Printf("release seat hold %s/%d: %v", h.flightGUID, h.seatID, err)
		}
	}
}

func (s *TripService) occupySeats(ctx context.Context, input CreateTripInput) error {
	departing := make([]int, 0, len(input.Passengers))
	returning := make([]int, 0, len(input.Passengers))
	for _, p := range input.Passengers {
		departing = append(departing, p.DepartingSeatID)
		if input.IsRoundTrip && p.ReturningSeatID != nil {
			returning = append(returning, *p.ReturningSeatID)
		}
	}

	if err := s.flights.OccupySeats(ctx, input.DepartingFlightGUID, departing); err != nil {
		return err
	}
	if len(returning) > 0 {
		if err := s.flights.OccupySeats(ctx, input.ReturningFlightGUID, returning); err != nil {
			// Keep the two legs consistent.
			if relErr := s.flights.ReleaseSeats(ctx, input.DepartingFlightGUID, departing); relErr != nil {
				log.Printf("release departing seats for flight %s: %v", input.DepartingFlightGUID, relErr)
			}
			return err
		}
	}
	return nil
}

func (s *TripService) releaseOccupied(ctx context.Context, t *domain.Trip) {
	departing := make([]int, 0, len(t.Passengers))
	returning := make([]int, 0, len(t.Passengers))
	for _, p := range t.Passengers {
		departing = append(departing, p.DepartingSeatID)
		if t.IsRoundTrip && p.ReturningSeatID != nil {
			returning = append(returning, *p.ReturningSeatID)
		}
	}

	if err := s.flights.ReleaseSeats(ctx, t.DepartingFlightGUID, departing); err != nil {
		log.Printf("release seats for flight %s: %v", t.DepartingFlightGUID, err)
	}
	if len(returning) > 0 {
		if err := s.flights.ReleaseSeats(ctx, t.ReturningFlightGUID, returning); err != nil {
			log.Printf("release seats for flight %s: %v", t.ReturningFlightGUID, err)
		}
	}
}

func (s *TripService) invalidateSeatMaps(ctx context.Context, t *domain.Trip) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateSeatMap(ctx, t.DepartingFlightGUID)
	if t.IsRoundTrip && t.ReturningFlightGUID != "" {
		_ = s.cache.InvalidateSeatMap(ctx, t.ReturningFlightGUID)
	}
}

func (s *TripService) publish(ctx context.Context, eventType string, t *domain.Trip) {
	if s.producer == nil || s.tripsTopic == "" {
		return
	}
	event := kafka.TripEvent{
		Type:                eventType,
		TripGUID:            t.GUID,
		TripName:            t.Name,
		DepartingFlightGUID: t.DepartingFlightGUID,
		ReturningFlightGUID: t.ReturningFlightGUID,
		PassengerCount:      len(t.Passengers),
		Status:              string(t.Status),
		OccurredAt:          time.Now(),
	}
	if err := s.producer.Publish(ctx, s.tripsTopic, t.GUID, event); err != nil {
		log.Printf("publish %s for trip %s: %v", eventType, t.GUID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, t.GUID, event); err != nil {
			log.Printf("publish notification for trip %s: %v", t.GUID, err)
		}
	}
}

var _ TripUseCase = (*TripService)(nil)
