package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/roamtravel/roamcore/config"
	"github.com/roamtravel/roamcore/internal/domain"
)

type RedisCache struct {
	client      *redis.Client
	listingsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, listingsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		listingsTTL: listingsTTL,
	}
}

func (c *RedisCache) GetListings(ctx context.Context) ([]domain.FlightListing, error) {
	data, err := c.client.Get(ctx, listingsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var listings []domain.FlightListing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *RedisCache) SetListings(ctx context.Context, listings []domain.FlightListing) error {
	payload, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingsKey(), payload, c.listingsTTL).Err()
}

func (c *RedisCache) GetSeatMap(ctx context.Context, flightGUID string) (*domain.SeatMap, error) {
	data, err := c.client.Get(ctx, seatMapKey(flightGUID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var m domain.SeatMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *RedisCache) SetSeatMap(ctx context.Context, m *domain.SeatMap) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, seatMapKey(m.FlightID), payload, c.listingsTTL).Err()
}

// InvalidateSeatMap drops the cached seat map after seats change hands.
func (c *RedisCache) InvalidateSeatMap(ctx context.Context, flightGUID string) error {
	return c.client.Del(ctx, seatMapKey(flightGUID)).Err()
}

// AcquireSeatHold places a short-lived exclusive hold on a seat while a
// trip submission is in flight. Returns false when someone else holds it.
func (c *RedisCache) AcquireSeatHold(ctx context.Context, flightGUID string, seatID int, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatHoldKey(flightGUID, seatID), "held", ttl).Result()
}

func (c *RedisCache) ReleaseSeatHold(ctx context.Context, flightGUID string, seatID int) error {
	return c.client.Del(ctx, seatHoldKey(flightGUID, seatID)).Err()
}

func listingsKey() string {
	return "cache:flights"
}

func seatMapKey(flightGUID string) string {
	return fmt.Sprintf("cache:seatmap:%s", flightGUID)
}

func seatHoldKey(flightGUID string, seatID int) string {
	return fmt.Sprintf("hold:flight:%s:seat:%d", flightGUID, seatID)
}
