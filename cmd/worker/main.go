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
	"github.com/roamtravel/roamcore/internal/cache"
	"github.com/roamtravel/roamcore/internal/email"
	"github.com/roamtravel/roamcore/internal/kafka"
	"github.com/roamtravel/roamcore/internal/repository"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.ConsumeTripEvents(ctx, func(ctx context.Context, event kafka.TripEvent) error {
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	expireTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer expireTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-expireTicker.C:
			expired, err := tripService.ExpireDraftTrips(ctx)
			if err != nil {
				log.Printf("expire draft trips error: %v", err)
				continue
			}
			if len(expired) > 0 {
				log.Printf("expired %d draft trips", len(expired))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
