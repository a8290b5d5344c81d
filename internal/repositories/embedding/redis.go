package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "emb:"

// RedisStore keeps codec-encoded embeddings under emb:<type>:<id> with no expiry
type RedisStore struct {
	client redis.Cmdable
	codec  Codec
}

func NewRedisStore(client redis.Cmdable, codec Codec) *RedisStore {
	return &RedisStore{client: client, codec: codec}
}

func redisKey(entityType, entityID string) string {
	return redisKeyPrefix + Key(entityType, entityID)
}

func (s *RedisStore) GetEmbedding(ctx context.Context, entityType, entityID string) ([]float32, bool, error) {
	data, err := s.client.Get(ctx, redisKey(entityType, entityID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", redisKey(entityType, entityID), err)
	}
	embedding, err := s.codec.Decode(data)
	if err != nil {
		return nil, false, err
	}
	return embedding, true, nil
}

func (s *RedisStore) SetEmbedding(ctx context.Context, entityType, entityID string, embedding []float32) error {
	if err := s.client.Set(ctx, redisKey(entityType, entityID), s.codec.Encode(embedding), 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", redisKey(entityType, entityID), err)
	}
	return nil
}

func (s *RedisStore) GetSystemStats(ctx context.Context) (SystemStats, error) {
	size, err := s.client.DBSize(ctx).Result()
	if err != nil {
		return SystemStats{}, fmt.Errorf("redis dbsize: %w", err)
	}
	return SystemStats{TableStats: map[string]TableStats{
		"redis": {Entries: size, Backend: StoreTypeRedis},
	}}, nil
}
