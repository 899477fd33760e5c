package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roamtravel/roamcore/api"
	"github.com/roamtravel/roamcore/config"
	"github.com/roamtravel/roamcore/internal/ratelimit"
	"github.com/roamtravel/roamcore/internal/service/flights"
	"github.com/roamtravel/roamcore/internal/service/trips"
)

// Run starts the HTTP API server and blocks until the context is canceled
// or the server fails.
func Run(ctx context.Context, cfg *config.Config, flightSvc flights.FlightUseCase, tripSvc trips.TripUseCase) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, flightSvc, tripSvc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, flightSvc flights.FlightUseCase, tripSvc trips.TripUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	limiter := ratelimit.NewClientLimiter(ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
	})

	apiGroup := router.Group("/api", limiter.Middleware())
	api.NewFlightHandler(flightSvc).Register(apiGroup.Group("/flights"))
	api.NewTripHandler(tripSvc).Register(apiGroup.Group("/trips"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
