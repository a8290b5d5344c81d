package weights

import (
	"context"
	"maps"
	"sync"
)

// InMemorySink keeps the last published weights
type InMemorySink struct {
	mu        sync.RWMutex
	last      *DenseWeights
	published int
}

func NewInMemorySink() *InMemorySink {
	return &InMemorySink{}
}

func (s *InMemorySink) Publish(_ context.Context, weights DenseWeights) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := DenseWeights{
		Weights:   maps.Clone(weights.Weights),
		Momentum:  maps.Clone(weights.Momentum),
		UpdatedAt: weights.UpdatedAt,
	}
	s.last = &copied
	s.published++
	return nil
}

// Last returns the most recently published weights, false if nothing was published
func (s *InMemorySink) Last() (DenseWeights, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return DenseWeights{}, false
	}
	return *s.last, true
}

func (s *InMemorySink) PublishedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.published
}

type noopSink struct{}

func (noopSink) Publish(context.Context, DenseWeights) error {
	return nil
}
