package embedding

import (
	"context"
	"errors"
)

const (
	StoreTypeInMemory = "IN_MEMORY"
	StoreTypeRedis    = "REDIS"
	StoreTypeScylla   = "SCYLLA"
	StoreTypeQdrant   = "QDRANT"
)

var ErrUnknownStoreType = errors.New("unknown embedding store type")

// Store is a key-value store of fixed-length vectors keyed by (entity type, entity id).
// A missing embedding is reported as ok == false with a nil error.
type Store interface {
	GetEmbedding(ctx context.Context, entityType, entityID string) ([]float32, bool, error)
	SetEmbedding(ctx context.Context, entityType, entityID string, embedding []float32) error
	GetSystemStats(ctx context.Context) (SystemStats, error)
}
