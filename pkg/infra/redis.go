package infra

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// InitRedis initializes the single Redis client. A failed ping panics.
func InitRedis(opts RedisOptions) {
	redisOnce.Do(func() {
		if opts.Addr == "" {
			log.Panic().Msg("redis addr is not set")
		}
		redisClient = redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Panic().Msgf("redis ping failed for %s: %v", opts.Addr, err)
		}
		log.Info().Msgf("redis client initialized for %s", opts.Addr)
	})
}

// GetRedisClient returns the shared Redis client. InitRedis must be called first.
func GetRedisClient() *redis.Client {
	return redisClient
}

func CloseRedis() error {
	if redisClient == nil {
		return nil
	}
	if err := redisClient.Close(); err != nil {
		return fmt.Errorf("error closing redis client: %w", err)
	}
	return nil
}
