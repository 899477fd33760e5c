// Package seating implements the seat-booking state machine for one active
// booking session: a group of passengers picking seats for one or two flight
// legs, one passenger at a time.
package seating

import (
	"errors"
	"fmt"

	"github.com/roamtravel/roamcore/internal/domain"
)

// SeatState is the selection lifecycle state of one seat within a session.
type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatSelected  SeatState = "selected"
	SeatReserved  SeatState = "reserved"
	SeatTaken     SeatState = "taken"
	// SeatNonInteractive marks map entries excluded from selection
	// entirely (exit-row placeholders, crew seats). They ignore clicks
	// and never change state.
	SeatNonInteractive SeatState = "non-interactive"
	// SeatUnknown is returned for seat ids not present in the leg's map.
	SeatUnknown SeatState = ""
)

// Leg indexes a trip's flight legs.
type Leg int

const (
	LegDeparting Leg = 0
	LegReturning Leg = 1
)

var (
	// ErrNoSeatSelected is the validation error for confirming a
	// passenger who has not picked a seat on the current leg.
	ErrNoSeatSelected = errors.New("no seat selected for current passenger")
	// ErrAtFirstPassenger is returned by GoBack at the start of the flow.
	ErrAtFirstPassenger = errors.New("already at first passenger")
	// ErrBookingIncomplete is returned by Assignments before every
	// passenger has confirmed on every leg.
	ErrBookingIncomplete = errors.New("booking is not complete")
)

// Assignment is one passenger's finalized seat choice. ReturningSeatID is
// nil for one-way sessions.
type Assignment struct {
	PassengerIndex  int
	DepartingSeatID int
	ReturningSeatID *int
}

type legState struct {
	states   map[int]SeatState
	order    []int // seat ids in map order, for deterministic snapshots
	assigned []int // per passenger, 0 until confirmed
}

// Tracker walks a fixed passenger sequence through seat selection. It owns
// no I/O and no durable state; callers construct one per session from
// fetched seat maps and hand its finalized assignments to checkout.
type Tracker struct {
	legs       []*legState
	passengers int
	leg        int
	passenger  int
	selected   int // seat id selected in the current context, 0 if none
	done       bool
}

// Option adjusts tracker construction.
type Option func(*Tracker)

// WithNonInteractiveSeats marks seats on a leg as excluded from selection.
func WithNonInteractiveSeats(leg Leg, seatIDs ...int) Option {
	return func(t *Tracker) {
		if int(leg) >= len(t.legs) {
			return
		}
		ls := t.legs[int(leg)]
		for _, id := range seatIDs {
			if _, ok := ls.states[id]; ok {
				ls.states[id] = SeatNonInteractive
			}
		}
	}
}

// NewTracker builds a tracker for the given passenger count over one
// (one-way) or two (round trip) leg seat maps. Seat availability comes from
// the maps as fetched.
func NewTracker(passengers int, maps []domain.SeatMap, opts ...Option) (*Tracker, error) {
	if passengers < 1 {
		return nil, fmt.Errorf("passenger count must be at least 1, got %d", passengers)
	}
	if len(maps) < 1 || len(maps) > 2 {
		return nil, fmt.Errorf("expected 1 or 2 leg seat maps, got %d", len(maps))
	}

	t := &Tracker{passengers: passengers}
	for _, m := range maps {
		ls := &legState{
			states:   make(map[int]SeatState, len(m.Seats)),
			order:    make([]int, 0, len(m.Seats)),
			assigned: make([]int, passengers),
		}
		for _, seat := range m.Seats {
			if seat.Available {
				ls.states[seat.SeatID] = SeatAvailable
			} else {
				ls.states[seat.SeatID] = SeatTaken
			}
			ls.order = append(ls.order, seat.SeatID)
		}
		t.legs = append(t.legs, ls)
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// CurrentLeg returns the leg the active passenger is choosing a seat on.
func (t *Tracker) CurrentLeg() Leg { return Leg(t.leg) }

// CurrentPassenger returns the active passenger index, in [0, PassengerCount).
func (t *Tracker) CurrentPassenger() int { return t.passenger }

// PassengerCount returns the size of the booking group.
func (t *Tracker) PassengerCount() int { return t.passengers }

// Complete reports whether every passenger has confirmed on every leg.
func (t *Tracker) Complete() bool { return t.done }

// State returns a seat's current state on the active leg.
func (t *Tracker) State(seatID int) SeatState {
	return t.legs[t.leg].states[seatID]
}

// SelectSeat transitions an available seat to selected for the active
// passenger, releasing any previously selected seat. Clicks on seats in any
// other state are silently ignored: the returned state is then the seat's
// unchanged current state.
func (t *Tracker) SelectSeat(seatID int) SeatState {
	ls := t.legs[t.leg]
	state, ok := ls.states[seatID]
	if t.done || !ok || state != SeatAvailable {
		return state
	}
	if t.selected != 0 {
		ls.states[t.selected] = SeatAvailable
	}
	ls.states[seatID] = SeatSelected
	t.selected = seatID
	return SeatSelected
}

// DeselectSeat returns a selected seat to available. No-op for any other
// state.
func (t *Tracker) DeselectSeat(seatID int) SeatState {
	ls := t.legs[t.leg]
	state, ok := ls.states[seatID]
	if t.done || !ok || state != SeatSelected {
		return state
	}
	ls.states[seatID] = SeatAvailable
	if t.selected == seatID {
		t.selected = 0
	}
	return SeatAvailable
}

// ConfirmCurrentPassenger commits the active passenger's selected seat as
// reserved and advances the cursor: next passenger on the same leg, then
// the next leg starting over at passenger 0, then completion. Confirming
// with no seat selected fails validation and changes nothing.
func (t *Tracker) ConfirmCurrentPassenger() error {
	if t.done {
		return ErrBookingIncomplete
	}
	if t.selected == 0 {
		return ErrNoSeatSelected
	}

	ls := t.legs[t.leg]
	ls.states[t.selected] = SeatReserved
	ls.assigned[t.passenger] = t.selected
	t.selected = 0

	if t.passenger < t.passengers-1 {
		t.passenger++
		return nil
	}
	if t.leg < len(t.legs)-1 {
		t.leg++
		t.passenger = 0
		return nil
	}
	t.done = true
	return nil
}

// GoBack reverts the previous confirmation: the cursor steps back one
// position (across a leg boundary if needed) and that passenger's reserved
// seat becomes selected again so it can be edited.
func (t *Tracker) GoBack() error {
	if !t.done && t.leg == 0 && t.passenger == 0 {
		return ErrAtFirstPassenger
	}

	// Drop the in-progress selection before re-opening the previous one.
	if t.selected != 0 {
		t.legs[t.leg].states[t.selected] = SeatAvailable
		t.selected = 0
	}

	switch {
	case t.done:
		t.done = false
	case t.passenger > 0:
		t.passenger--
	default:
		t.leg--
		t.passenger = t.passengers - 1
	}

	ls := t.legs[t.leg]
	seatID := ls.assigned[t.passenger]
	ls.assigned[t.passenger] = 0
	ls.states[seatID] = SeatSelected
	t.selected = seatID
	return nil
}

// Assignments returns the finalized per-passenger seat assignments. It is
// only available once the session is complete.
func (t *Tracker) Assignments() ([]Assignment, error) {
	if !t.done {
		return nil, ErrBookingIncomplete
	}

	out := make([]Assignment, t.passengers)
	for i := 0; i < t.passengers; i++ {
		out[i] = Assignment{
			PassengerIndex:  i,
			DepartingSeatID: t.legs[0].assigned[i],
		}
		if len(t.legs) > 1 {
			id := t.legs[1].assigned[i]
			out[i].ReturningSeatID = &id
		}
	}
	return out, nil
}

// SeatStates returns a snapshot of the active leg's seat states keyed by
// seat id, for rendering.
func (t *Tracker) SeatStates() map[int]SeatState {
	ls := t.legs[t.leg]
	snapshot := make(map[int]SeatState, len(ls.states))
	for _, id := range ls.order {
		snapshot[id] = ls.states[id]
	}
	return snapshot
}
