package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodgram/backend/config"
)

const redisPingTimeout = 5 * time.Second

// redisOptions builds client options from the config. REDIS_URL wins over
// the individual host/port/password settings.
func redisOptions(cfg *config.Config) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// NewRedisClient connects to Redis and pings it before handing the client back.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	log.Printf("[Redis] Connected to %s (db %d)", opts.Addr, opts.DB)
	return client, nil
}

// OptionalRedisClient is NewRedisClient for callers that can run without
// Redis. A bad config or an unreachable server is logged and yields nil;
// only recipe rate limiting depends on the client.
func OptionalRedisClient(ctx context.Context, cfg *config.Config) *redis.Client {
	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		log.Printf("[Redis] Unavailable, recipe writes will not be rate limited: %v", err)
		return nil
	}
	return client
}
