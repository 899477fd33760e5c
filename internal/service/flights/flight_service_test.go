package flights

import (
	"context"
	"errors"
	"testing"

	"github.com/roamtravel/roamcore/internal/domain"
	"github.com/roamtravel/roamcore/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.FlightListing, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.FlightListing), args.Error(1)
}

func (m *MockFlightRepository) GetByGUID(ctx context.Context, guid string) (*domain.FlightListing, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightListing), args.Error(1)
}

func (m *MockFlightRepository) GetSeatMap(ctx context.Context, flightGUID string) (*domain.SeatMap, error) {
	args := m.Called(ctx, flightGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeatMap), args.Error(1)
}

func (m *MockFlightRepository) RandomReturnCandidate(ctx context.Context, excludeGUID string) (*domain.FlightListing, error) {
	args := m.Called(ctx, excludeGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightListing), args.Error(1)
}

func (m *MockFlightRepository) OccupySeats(ctx context.Context, flightGUID string, seatIDs []int) error {
	args := m.Called(ctx, flightGUID, seatIDs)
	return args.Error(0)
}

func (m *MockFlightRepository) ReleaseSeats(ctx context.Context, flightGUID string, seatIDs []int) error {
	args := m.Called(ctx, flightGUID, seatIDs)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetListings(ctx context.Context) ([]domain.FlightListing, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.FlightListing), args.Error(1)
}

func (m *MockCache) SetListings(ctx context.Context, listings []domain.FlightListing) error {
	args := m.Called(ctx, listings)
	return args.Error(0)
}

func (m *MockCache) GetSeatMap(ctx context.Context, flightGUID string) (*domain.SeatMap, error) {
	args := m.Called(ctx, flightGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeatMap), args.Error(1)
}

func (m *MockCache) SetSeatMap(ctx context.Context, sm *domain.SeatMap) error {
	args := m.Called(ctx, sm)
	return args.Error(0)
}

func sampleListings() []domain.FlightListing {
	return []domain.FlightListing{
		{GUID: "f1", Airline: "Airline A", Price: "$299", NumStops: "Non-stop", DepartureTime: "8:00 AM", ArrivalTime: "11:00 AM"},
		{GUID: "f2", Airline: "Airline B", Price: "$600", NumStops: "1 Stop", DepartureTime: "9:30 AM", ArrivalTime: "1:00 PM"},
	}
}

func TestFlightService_List_CacheMiss(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	listings := sampleListings()
	mockCache.On("GetListings", ctx).Return(([]domain.FlightListing)(nil), nil).Once()
	mockRepo.On("List", ctx).Return(listings, nil).Once()
	mockCache.On("SetListings", ctx, listings).Return(nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, listings, result)
	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_List_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	listings := sampleListings()
	mockCache.On("GetListings", ctx).Return(listings, nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, listings, result)
	mockRepo.AssertNotCalled(t, "List")
	mockCache.AssertNotCalled(t, "SetListings")
}

func TestFlightService_List_CacheErrorFallsThrough(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	listings := sampleListings()
	mockCache.On("GetListings", ctx).Return(([]domain.FlightListing)(nil), errors.New("cache down")).Once()
	mockRepo.On("List", ctx).Return(listings, nil).Once()
	mockCache.On("SetListings", ctx, listings).Return(nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, listings, result)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Search_AppliesCriteria(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	mockCache.On("GetListings", ctx).Return(sampleListings(), nil).Once()

	maxPrice := "$500"
	result, err := service.Search(ctx, search.Criteria{MaxPrice: &maxPrice})

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "f1", result[0].GUID)
}

func TestFlightService_Search_RepoError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(([]domain.FlightListing)(nil), errors.New("db down")).Once()

	_, err := service.Search(ctx, search.Criteria{})
	assert.Error(t, err)
}

func TestFlightService_GetSeatMap_CacheAside(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	m := &domain.SeatMap{GUID: "sm-1", FlightID: "f1", SeatsAvailable: 3, Seats: []domain.Seat{
		{SeatID: 1, Type: domain.SeatClassBusiness, Position: domain.SeatPositionWindow, Available: true},
	}}

	mockCache.On("GetSeatMap", ctx, "f1").Return((*domain.SeatMap)(nil), nil).Once()
	mockRepo.On("GetSeatMap", ctx, "f1").Return(m, nil).Once()
	mockCache.On("SetSeatMap", ctx, m).Return(nil).Once()

	result, err := service.GetSeatMap(ctx, "f1")
	assert.NoError(t, err)
	assert.Equal(t, m, result)

	// Second fetch is served from cache.
	mockCache.On("GetSeatMap", ctx, "f1").Return(m, nil).Once()
	result, err = service.GetSeatMap(ctx, "f1")
	assert.NoError(t, err)
	assert.Equal(t, m, result)
	mockRepo.AssertNumberOfCalls(t, "GetSeatMap", 1)
}

func TestFlightService_RandomReturnFlight(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil)
	ctx := context.Background()

	candidate := &domain.FlightListing{GUID: "f9"}
	mockRepo.On("RandomReturnCandidate", ctx, "f1").Return(candidate, nil).Once()

	result, err := service.RandomReturnFlight(ctx, "f1")
	assert.NoError(t, err)
	assert.Equal(t, "f9", result.GUID)
	mockRepo.AssertExpectations(t)
}
