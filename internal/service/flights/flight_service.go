package flights

import (
	"context"

	"github.com/roamtravel/roamcore/internal/domain"
	"github.com/roamtravel/roamcore/internal/repository"
	"github.com/roamtravel/roamcore/internal/search"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.FlightListing, error)
	Search(ctx context.Context, criteria search.Criteria) ([]domain.FlightListing, error)
	GetByGUID(ctx context.Context, guid string) (*domain.FlightListing, error)
	GetSeatMap(ctx context.Context, flightGUID string) (*domain.SeatMap, error)
	RandomReturnFlight(ctx context.Context, excludeGUID string) (*domain.FlightListing, error)
}

type Cache interface {
	GetListings(ctx context.Context) ([]domain.FlightListing, error)
	SetListings(ctx context.Context, listings []domain.FlightListing) error
	GetSeatMap(ctx context.Context, flightGUID string) (*domain.SeatMap, error)
	SetSeatMap(ctx context.Context, m *domain.SeatMap) error
}

type FlightService struct {
	repo   repository.FlightRepository
	cache  Cache
	engine search.Engine
}

func NewFlightService(repo repository.FlightRepository, cache Cache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

// List returns all listings, cache-aside.
func (s *FlightService) List(ctx context.Context) ([]domain.FlightListing, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetListings(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	listings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetListings(ctx, listings)
	}
	return listings, nil
}

// Search applies the filter engine over the full listing set. The engine is
// pure, so the cached list can be filtered directly.
func (s *FlightService) Search(ctx context.Context, criteria search.Criteria) ([]domain.FlightListing, error) {
	listings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.FilterFlights(listings, criteria), nil
}

func (s *FlightService) GetByGUID(ctx context.Context, guid string) (*domain.FlightListing, error) {
	return s.repo.GetByGUID(ctx, guid)
}

func (s *FlightService) GetSeatMap(ctx context.Context, flightGUID string) (*domain.SeatMap, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSeatMap(ctx, flightGUID); err == nil && cached != nil {
			return cached, nil
		}
	}

	m, err := s.repo.GetSeatMap(ctx, flightGUID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSeatMap(ctx, m)
	}
	return m, nil
}

// RandomReturnFlight picks a candidate returning leg for a round trip.
func (s *FlightService) RandomReturnFlight(ctx context.Context, excludeGUID string) (*domain.FlightListing, error) {
	return s.repo.RandomReturnCandidate(ctx, excludeGUID)
}

var _ FlightUseCase = (*FlightService)(nil)
