package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/amadeus"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    *redis.Client
	offersTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, offersTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		offersTTL: offersTTL,
	}
}

// GetOffers returns the cached search result for key, or nil on a miss.
func (c *RedisCache) GetOffers(ctx context.Context, key string) (*amadeus.OffersResponse, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var offers amadeus.OffersResponse
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, err
	}
	return &offers, nil
}

func (c *RedisCache) SetOffers(ctx context.Context, key string, offers *amadeus.OffersResponse) error {
	payload, err := json.Marshal(offers)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.offersTTL).Err()
}
