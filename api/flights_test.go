package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/roamtravel/roamcore/internal/domain"
	"github.com/roamtravel/roamcore/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockFlightUseCase is a mock implementation of flights.FlightUseCase
type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.FlightListing, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.FlightListing), args.Error(1)
}

func (m *MockFlightUseCase) Search(ctx context.Context, criteria search.Criteria) ([]domain.FlightListing, error) {
	args := m.Called(ctx, criteria)
	return args.Get(0).([]domain.FlightListing), args.Error(1)
}

func (m *MockFlightUseCase) GetByGUID(ctx context.Context, guid string) (*domain.FlightListing, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightListing), args.Error(1)
}

func (m *MockFlightUseCase) GetSeatMap(ctx context.Context, flightGUID string) (*domain.SeatMap, error) {
	args := m.Called(ctx, flightGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeatMap), args.Error(1)
}

func (m *MockFlightUseCase) RandomReturnFlight(ctx context.Context, excludeGUID string) (*domain.FlightListing, error) {
	args := m.Called(ctx, excludeGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightListing), args.Error(1)
}

func TestFlightHandler_list(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights", nil)

	listings := []domain.FlightListing{{GUID: "f1", Airline: "Airline A", Price: "$299"}}
	mockService.On("Search", c.Request.Context(), search.Criteria{}).Return(listings, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []domain.FlightListing
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.Equal(t, "f1", response[0].GUID)

	mockService.AssertExpectations(t)
}

func TestFlightHandler_list_withFilters(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights?max_price=$500&stops=0&airline=Airline+A&departure_time=Morning", nil)

	mockService.On("Search", c.Request.Context(), mock.MatchedBy(func(criteria search.Criteria) bool {
		return criteria.MaxPrice != nil && *criteria.MaxPrice == "$500" &&
			criteria.Stops != nil && *criteria.Stops == domain.StopsNonStop &&
			criteria.Airline != nil && *criteria.Airline == "Airline A" &&
			criteria.DepartureTime != nil && *criteria.DepartureTime == search.TimeMorning &&
			criteria.ArrivalTime == nil
	})).Return([]domain.FlightListing{}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_list_badStops(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights?stops=three", nil)

	handler.list(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Search")
}

func TestFlightHandler_get_notFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "guid", Value: "missing"}}
	c.Request = httptest.NewRequest("GET", "/flights/missing", nil)

	mockService.On("GetByGUID", c.Request.Context(), "missing").Return(nil, pgx.ErrNoRows)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlightHandler_seats(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "guid", Value: "f1"}}
	c.Request = httptest.NewRequest("GET", "/flights/f1/seats", nil)

	seatMap := &domain.SeatMap{GUID: "sm-1", FlightID: "f1", SeatsAvailable: 2, Seats: []domain.Seat{
		{SeatID: 1, Type: domain.SeatClassBusiness, Position: domain.SeatPositionWindow, Available: true},
		{SeatID: 21, Type: domain.SeatClassEconomy, Position: domain.SeatPositionMiddle, Available: true},
	}}
	mockService.On("GetSeatMap", c.Request.Context(), "f1").Return(seatMap, nil)

	handler.seats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response domain.SeatMap
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "f1", response.FlightID)
	assert.Len(t, response.Seats, 2)
}

func TestFlightHandler_randomReturn(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "guid", Value: "f1"}}
	c.Request = httptest.NewRequest("GET", "/flights/f1/return", nil)

	mockService.On("RandomReturnFlight", c.Request.Context(), "f1").Return(&domain.FlightListing{GUID: "f7"}, nil)

	handler.randomReturn(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response domain.FlightListing
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "f7", response.GUID)
}
