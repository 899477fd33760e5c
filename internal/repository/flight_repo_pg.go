package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roamtravel/roamcore/internal/domain"
)

var ErrSeatUnavailable = errors.New("seat is not available")

type FlightRepository interface {
	List(ctx context.Context) ([]domain.FlightListing, error)
	GetByGUID(ctx context.Context, guid string) (*domain.FlightListing, error)
	GetSeatMap(ctx context.Context, flightGUID string) (*domain.SeatMap, error)
	RandomReturnCandidate(ctx context.Context, excludeGUID string) (*domain.FlightListing, error)
	OccupySeats(ctx context.Context, flightGUID string, seatIDs []int) error
	ReleaseSeats(ctx context.Context, flightGUID string, seatIDs []int) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `guid, airline, departure_time, arrival_time, price, num_stops, stop_info, trip_length, outgoing_airport, incoming_airport, flight_date, baggage_allowance, created_at, updated_at`

func scanFlight(row pgx.Row) (*domain.FlightListing, error) {
	var f domain.FlightListing
	err := row.Scan(&f.GUID, &f.Airline, &f.DepartureTime, &f.ArrivalTime, &f.Price, &f.NumStops, &f.StopInfo, &f.TripLength, &f.OutgoingAirport, &f.IncomingAirport, &f.FlightDate, &f.Baggage, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.FlightListing, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY flight_date, departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.FlightListing, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByGUID(ctx context.Context, guid string) (*domain.FlightListing, error) {
	return scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE guid=$1`, guid))
}

func (r *PGFlightRepository) GetSeatMap(ctx context.Context, flightGUID string) (*domain.SeatMap, error) {
	row := r.db.QueryRow(ctx, `SELECT guid, seats_available, flight_id, seat_configuration FROM flight_seats WHERE flight_id=$1`, flightGUID)

	var m domain.SeatMap
	var configJSON []byte
	if err := row.Scan(&m.GUID, &m.SeatsAvailable, &m.FlightID, &configJSON); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(configJSON, &m.Seats); err != nil {
		return nil, fmt.Errorf("decode seat configuration for flight %s: %w", flightGUID, err)
	}
	return &m, nil
}

func (r *PGFlightRepository) RandomReturnCandidate(ctx context.Context, excludeGUID string) (*domain.FlightListing, error) {
	return scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE guid <> $1 ORDER BY random() LIMIT 1`, excludeGUID))
}

// OccupySeats marks the given seats unavailable in the flight's seat
// configuration and decrements the availability counter, in one
// transaction. Fails with ErrSeatUnavailable if any seat is already taken.
func (r *PGFlightRepository) OccupySeats(ctx context.Context, flightGUID string, seatIDs []int) error {
	return r.updateSeats(ctx, flightGUID, seatIDs, false)
}

// ReleaseSeats reverts OccupySeats for a cancelled trip.
func (r *PGFlightRepository) ReleaseSeats(ctx context.Context, flightGUID string, seatIDs []int) error {
	return r.updateSeats(ctx, flightGUID, seatIDs, true)
}

func (r *PGFlightRepository) updateSeats(ctx context.Context, flightGUID string, seatIDs []int, makeAvailable bool) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var configJSON []byte
	var available int
	row := tx.QueryRow(ctx, `SELECT seat_configuration, seats_available FROM flight_seats WHERE flight_id=$1 FOR UPDATE`, flightGUID)
	if err := row.Scan(&configJSON, &available); err != nil {
		return err
	}

	var seats []domain.Seat
	if err := json.Unmarshal(configJSON, &seats); err != nil {
		return fmt.Errorf("decode seat configuration for flight %s: %w", flightGUID, err)
	}

	wanted := make(map[int]bool, len(seatIDs))
	for _, id := range seatIDs {
		wanted[id] = true
	}

	changed := 0
	for i := range seats {
		if !wanted[seats[i].SeatID] {
			continue
		}
		if seats[i].Available == makeAvailable {
			if !makeAvailable {
				return fmt.Errorf("seat %d on flight %s: %w", seats[i].SeatID, flightGUID, ErrSeatUnavailable)
			}
			continue
		}
		seats[i].Available = makeAvailable
		changed++
	}
	if !makeAvailable && changed != len(seatIDs) {
		return fmt.Errorf("flight %s: unknown seat in %v", flightGUID, seatIDs)
	}

	updated, err := json.Marshal(seats)
	if err != nil {
		return err
	}

	delta := -changed
	if makeAvailable {
		delta = changed
	}
	if _, err := tx.Exec(ctx, `UPDATE flight_seats SET seat_configuration=$1, seats_available=seats_available+$2 WHERE flight_id=$3`, updated, delta, flightGUID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

var _ FlightRepository = (*PGFlightRepository)(nil)
