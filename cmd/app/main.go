package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roamtravel/roamcore/config"
	"github.com/roamtravel/roamcore/internal/bootstrap"
	"github.com/roamtravel/roamcore/internal/cache"
	"github.com/roamtravel/roamcore/internal/kafka"
	"github.com/roamtravel/roamcore/internal/repository"
	"github.com/roamtravel/roamcore/internal/service/flights"
	"github.com/roamtravel/roamcore/internal/service/trips"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.ListingsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	tripRepo := repository.NewTripRepository(pool)
	flightService := flights.NewFlightService(flightRepo, redisCache)
	tripService := trips.NewTripService(
		tripRepo,
		flightRepo,
		redisCache,
		producer,
		cfg.Kafka.TripsTopic,
		time.Duration(cfg.Booking.SeatHoldTTLMinutes)*time.Minute,
		time.Duration(cfg.Booking.DraftTripTTLMinutes)*time.Minute,
		trips.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, flightService, tripService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
