package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
)

func TestRedisOptions(t *testing.T) {
	t.Run("host and port", func(t *testing.T) {
		opts, err := redisOptions(&config.Config{RedisHost: "cache", RedisPort: "6380", RedisPassword: "pw", RedisDB: 2})
		require.NoError(t, err)
		assert.Equal(t, "cache:6380", opts.Addr)
		assert.Equal(t, "pw", opts.Password)
		assert.Equal(t, 2, opts.DB)
	})

	t.Run("url overrides host", func(t *testing.T) {
		opts, err := redisOptions(&config.Config{RedisHost: "ignored", RedisPort: "1", RedisURL: "redis://:secret@redis.internal:6379/3"})
		require.NoError(t, err)
		assert.Equal(t, "redis.internal:6379", opts.Addr)
		assert.Equal(t, "secret", opts.Password)
		assert.Equal(t, 3, opts.DB)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := redisOptions(&config.Config{RedisURL: "http://nope"})
		assert.Error(t, err)
	})
}

func TestOptionalRedisClientFallsBackToNil(t *testing.T) {
	cfg := &config.Config{RedisHost: "127.0.0.1", RedisPort: "1"}

	_, err := NewRedisClient(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, OptionalRedisClient(context.Background(), cfg))

	assert.Nil(t, OptionalRedisClient(context.Background(), &config.Config{RedisURL: "http://nope"}))
}
