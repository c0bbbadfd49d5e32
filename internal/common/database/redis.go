package database

import (
	"context"
	"fmt"
	"time"

	"pitchcraft/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs the deck cache and the extract worker's profile cache.
type RedisClient struct {
	Client *redis.Client

	deckTTL    time.Duration
	profileTTL time.Duration
}

func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisClient{
		Client:     rdb,
		deckTTL:    time.Duration(cfg.DeckTTL) * time.Second,
		profileTTL: time.Duration(cfg.CacheTTL) * time.Second,
	}, nil
}

// DeckTTL is how long a generated deck stays in the cache.
func (c *RedisClient) DeckTTL() time.Duration { return c.deckTTL }

// ProfileTTL is how long an extracted profile stays in the cache.
func (c *RedisClient) ProfileTTL() time.Duration { return c.profileTTL }

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.Client.Options().Addr, err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
