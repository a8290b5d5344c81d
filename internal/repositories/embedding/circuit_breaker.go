package embedding

import (
	"context"

	"github.com/Meesho/BharatMLStack/online-learner/pkg/circuitbreaker"
)

// CircuitBreakerStore fails fast while the wrapped store keeps erroring. A missing
// embedding is a successful call and never trips the breaker.
type CircuitBreakerStore struct {
	store Store
	cb    circuitbreaker.CircuitBreaker
}

func NewCircuitBreakerStore(store Store, cb circuitbreaker.CircuitBreaker) *CircuitBreakerStore {
	return &CircuitBreakerStore{store: store, cb: cb}
}

func (s *CircuitBreakerStore) GetEmbedding(ctx context.Context, entityType, entityID string) ([]float32, bool, error) {
	var (
		embedding []float32
		ok        bool
	)
	err := s.cb.Execute(func() error {
		var err error
		embedding, ok, err = s.store.GetEmbedding(ctx, entityType, entityID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return embedding, ok, nil
}

func (s *CircuitBreakerStore) SetEmbedding(ctx context.Context, entityType, entityID string, embedding []float32) error {
	return s.cb.Execute(func() error {
		return s.store.SetEmbedding(ctx, entityType, entityID, embedding)
	})
}

func (s *CircuitBreakerStore) GetSystemStats(ctx context.Context) (SystemStats, error) {
	return s.store.GetSystemStats(ctx)
}
