package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roamtravel/roamcore/internal/domain"
)

type TripRepository interface {
	Create(ctx context.Context, trip *domain.Trip) error
	GetByGUID(ctx context.Context, guid string) (*domain.Trip, error)
	UpdateStatus(ctx context.Context, guid string, status domain.TripStatus) (*domain.Trip, error)
	Delete(ctx context.Context, guid string) error
	CancelDraftsBefore(ctx context.Context, deadline time.Time) ([]domain.Trip, error)
}

type PGTripRepository struct {
	db *pgxpool.Pool
}

func NewTripRepository(db *pgxpool.Pool) TripRepository {
	return &PGTripRepository{db: db}
}

// Create inserts the trip and its passengers in one transaction.
func (r *PGTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO trips (guid, name, is_round_trip, departing_flight_guid, returning_flight_guid, status)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING created_at, updated_at`,
		trip.GUID, trip.Name, trip.IsRoundTrip, trip.DepartingFlightGUID, trip.ReturningFlightGUID, trip.Status).
		Scan(&trip.CreatedAt, &trip.UpdatedAt); err != nil {
		return err
	}

	for i := range trip.Passengers {
		p := &trip.Passengers[i]
		if _, err := tx.Exec(ctx, `INSERT INTO passengers (guid, trip_guid, name, departing_seat_id, returning_seat_id, email, phone)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.GUID, trip.GUID, p.Name, p.DepartingSeatID, p.ReturningSeatID, p.Email, p.Phone); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PGTripRepository) GetByGUID(ctx context.Context, guid string) (*domain.Trip, error) {
	row := r.db.QueryRow(ctx, `SELECT guid, name, is_round_trip, departing_flight_guid, COALESCE(returning_flight_guid, ''), status, created_at, updated_at FROM trips WHERE guid=$1`, guid)

	var t domain.Trip
	if err := row.Scan(&t.GUID, &t.Name, &t.IsRoundTrip, &t.DepartingFlightGUID, &t.ReturningFlightGUID, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT guid, name, departing_seat_id, returning_seat_id, COALESCE(email, ''), COALESCE(phone, '') FROM passengers WHERE trip_guid=$1 ORDER BY guid`, guid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.GUID, &p.Name, &p.DepartingSeatID, &p.ReturningSeatID, &p.Email, &p.Phone); err != nil {
			return nil, err
		}
		t.Passengers = append(t.Passengers, p)
	}
	return &t, rows.Err()
}

func (r *PGTripRepository) UpdateStatus(ctx context.Context, guid string, status domain.TripStatus) (*domain.Trip, error) {
	if _, err := r.db.Exec(ctx, `UPDATE trips SET status=$1, updated_at=now() WHERE guid=$2`, status, guid); err != nil {
		return nil, err
	}
	return r.GetByGUID(ctx, guid)
}

func (r *PGTripRepository) Delete(ctx context.Context, guid string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM passengers WHERE trip_guid=$1`, guid); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM trips WHERE guid=$1`, guid); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CancelDraftsBefore marks stale draft trips cancelled and returns them so
// the caller can release their seats and holds.
func (r *PGTripRepository) CancelDraftsBefore(ctx context.Context, deadline time.Time) ([]domain.Trip, error) {
	rows, err := r.db.Query(ctx, `UPDATE trips SET status=$1, updated_at=now() WHERE status=$2 AND created_at <= $3 RETURNING guid`, domain.TripStatusCancelled, domain.TripStatusDraft, deadline)
	if err != nil {
		return nil, err
	}

	var guids []string
	for rows.Next() {
		var guid string
		if err := rows.Scan(&guid); err != nil {
			rows.Close()
			return nil, err
		}
		guids = append(guids, guid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cancelled := make([]domain.Trip, 0, len(guids))
	for _, guid := range guids {
		t, err := r.GetByGUID(ctx, guid)
		if err != nil {
			return nil, err
		}
		cancelled = append(cancelled, *t)
	}
	return cancelled, nil
}

var _ TripRepository = (*PGTripRepository)(nil)
