package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/Meesho/BharatMLStack/online-learner/pkg/inmemorycache"
	"github.com/coocood/freecache"
)

const inMemoryTable = "in_memory_embeddings"

// InMemoryStore keeps codec-encoded embeddings in a size bounded freecache. Entries may be
// evicted under memory pressure, which the learner treats as a missing embedding.
type InMemoryStore struct {
	cache inmemorycache.InMemoryCache
	codec Codec
}

func NewInMemoryStore(cache inmemorycache.InMemoryCache, codec Codec) *InMemoryStore {
	return &InMemoryStore{cache: cache, codec: codec}
}

func (s *InMemoryStore) GetEmbedding(_ context.Context, entityType, entityID string) ([]float32, bool, error) {
	data, err := s.cache.Get([]byte(Key(entityType, entityID)))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("in-memory get %s: %w", Key(entityType, entityID), err)
	}
	embedding, err := s.codec.Decode(data)
	if err != nil {
		return nil, false, err
	}
	return embedding, true, nil
}

func (s *InMemoryStore) SetEmbedding(_ context.Context, entityType, entityID string, embedding []float32) error {
	if err := s.cache.Set([]byte(Key(entityType, entityID)), s.codec.Encode(embedding)); err != nil {
		return fmt.Errorf("in-memory set %s: %w", Key(entityType, entityID), err)
	}
	return nil
}

func (s *InMemoryStore) GetSystemStats(_ context.Context) (SystemStats, error) {
	return SystemStats{TableStats: map[string]TableStats{
		inMemoryTable: {Entries: s.cache.Stats().Entries, Backend: StoreTypeInMemory},
	}}, nil
}
