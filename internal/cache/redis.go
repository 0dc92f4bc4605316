package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/hotelportal/config"
	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client   *redis.Client
	hotelTTL time.Duration
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

func NewRedisCache(client *redis.Client, hotelTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, hotelTTL: hotelTTL}
}

// GetHotel returns nil, nil on a cache miss.
func (c *RedisCache) GetHotel(ctx context.Context, hotelID string) (*domain.Hotel, error) {
	data, err := c.client.Get(ctx, hotelKey(hotelID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var hotel domain.Hotel
	if err := json.Unmarshal(data, &hotel); err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (c *RedisCache) SetHotel(ctx context.Context, hotel *domain.Hotel) error {
	payload, err := json.Marshal(hotel)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, hotelKey(hotel.ID), payload, c.hotelTTL).Err()
}

func (c *RedisCache) DeleteHotel(ctx context.Context, hotelID string) error {
	return c.client.Del(ctx, hotelKey(hotelID)).Err()
}

func hotelKey(hotelID string) string {
	return fmt.Sprintf("cache:hotel:%s", hotelID)
}
