package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/roamtravel/roamcore/internal/repository"
	"github.com/roamtravel/roamcore/internal/service/trips"
)

type TripHandler struct {
	service trips.TripUseCase
}

func NewTripHandler(service trips.TripUseCase) *TripHandler {
	return &TripHandler{service: service}
}

func (h *TripHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:guid", h.get)
	router.PUT("/:guid/confirm", h.confirm)
	router.PUT("/:guid/cancel", h.cancel)
	router.DELETE("/:guid", h.remove)
}

func (h *TripHandler) create(c *gin.Context) {
	var input trips.CreateTripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.service.CreateTrip(c.Request.Context(), input)
	if err != nil {
		c.JSON(tripErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, trip)
}

func (h *TripHandler) get(c *gin.Context) {
	trip, err := h.service.GetTrip(c.Request.Context(), c.Param("guid"))
	if err != nil {
		c.JSON(tripErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *TripHandler) confirm(c *gin.Context) {
	trip, err := h.service.ConfirmTrip(c.Request.Context(), c.Param("guid"))
	if err != nil {
		c.JSON(tripErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *TripHandler) cancel(c *gin.Context) {
	trip, err := h.service.CancelTrip(c.Request.Context(), c.Param("guid"))
	if err != nil {
		c.JSON(tripErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *TripHandler) remove(c *gin.Context) {
	if err := h.service.RemoveTrip(c.Request.Context(), c.Param("guid")); err != nil {
		c.JSON(tripErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func tripErrStatus(err error) int {
	switch {
	case errors.Is(err, trips.ErrInvalidAssignment):
		return http.StatusBadRequest
	case errors.Is(err, trips.ErrSeatConflict), errors.Is(err, repository.ErrSeatUnavailable):
		return http.StatusConflict
	case errors.Is(err, pgx.ErrNoRows):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
