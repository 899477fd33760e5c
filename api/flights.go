package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/roamtravel/roamcore/internal/domain"
	"github.com/roamtravel/roamcore/internal/search"
	"github.com/roamtravel/roamcore/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:guid", h.get)
	router.GET("/:guid/seats", h.seats)
	router.GET("/:guid/return", h.randomReturn)
}

// list serves the search results. With no query parameters it returns the
// full listing set; any of max_price, stops, arrival_time, departure_time
// and airline narrows it via the filter engine.
func (h *FlightHandler) list(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Search(c.Request.Context(), criteria)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByGUID(c.Request.Context(), c.Param("guid"))
	if err != nil {
		c.JSON(flightErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) seats(c *gin.Context) {
	seatMap, err := h.service.GetSeatMap(c.Request.Context(), c.Param("guid"))
	if err != nil {
		c.JSON(flightErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, seatMap)
}

func (h *FlightHandler) randomReturn(c *gin.Context) {
	flight, err := h.service.RandomReturnFlight(c.Request.Context(), c.Param("guid"))
	if err != nil {
		c.JSON(flightErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flight)
}

func flightErrStatus(err error) int {
	if errors.Is(err, pgx.ErrNoRows) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

var validCategories = map[search.TimeCategory]bool{
	search.TimeMorning:   true,
	search.TimeAfternoon: true,
	search.TimeEvening:   true,
}

var validBuckets = map[domain.StopBucket]bool{
	domain.StopsNonStop: true,
	domain.StopsOne:     true,
	domain.StopsTwo:     true,
	domain.StopsMore:    true,
}

func criteriaFromQuery(c *gin.Context) (search.Criteria, error) {
	var criteria search.Criteria

	if v, ok := c.GetQuery("max_price"); ok {
		criteria.MaxPrice = &v
	}
	if v, ok := c.GetQuery("stops"); ok {
		bucket := domain.StopBucket(v)
		if !validBuckets[bucket] {
			return criteria, errors.New("stops must be one of 0, 1, 2, 2+")
		}
		criteria.Stops = &bucket
	}
	if v, ok := c.GetQuery("arrival_time"); ok {
		category := search.TimeCategory(v)
		if !validCategories[category] {
			return criteria, errors.New("arrival_time must be Morning, Afternoon or Evening")
		}
		criteria.ArrivalTime = &category
	}
	if v, ok := c.GetQuery("departure_time"); ok {
		category := search.TimeCategory(v)
		if !validCategories[category] {
			return criteria, errors.New("departure_time must be Morning, Afternoon or Evening")
		}
		criteria.DepartureTime = &category
	}
	if v, ok := c.GetQuery("airline"); ok {
		criteria.Airline = &v
	}
	return criteria, nil
}
