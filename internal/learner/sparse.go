package learner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Meesho/BharatMLStack/online-learner/internal/repositories/embedding"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/metric"
	"github.com/rs/zerolog/log"
)

// SparseUpdater applies noisy gradient steps to entity embeddings. Every step is written
// to the store immediately and staged as a pending update for the next sync.
type SparseUpdater struct {
	store        embedding.Store
	noise        NoiseSource
	learningRate float64
	now          func() time.Time

	mu      sync.Mutex
	pending map[string]PendingUpdate
	version uint64
}

func NewSparseUpdater(store embedding.Store, noise NoiseSource, learningRate float64, now func() time.Time) *SparseUpdater {
	if now == nil {
		now = time.Now
	}
	return &SparseUpdater{
		store:        store,
		noise:        noise,
		learningRate: learningRate,
		now:          now,
		pending:      make(map[string]PendingUpdate),
	}
}

// UpdateEmbedding moves every component of the entity embedding by learningRate*gradient*noise.
// A missing embedding is a no-op. When the eager write fails the update is still staged,
// so the next sync pushes it, and the write error is returned.
func (s *SparseUpdater) UpdateEmbedding(ctx context.Context, entityType, entityID string, gradient float64) error {
	current, ok, err := s.store.GetEmbedding(ctx, entityType, entityID)
	if err != nil {
		return fmt.Errorf("error reading embedding %s: %w", entityKey(entityType, entityID), err)
	}
	if !ok {
		log.Debug().Ctx(ctx).Msgf("no embedding for %s, skipping sparse update", entityKey(entityType, entityID))
		return nil
	}

	updated := make([]float32, len(current))
	gradients := make([]float32, len(current))
	for i, v := range current {
		updated[i] = float32(float64(v) + s.learningRate*gradient*perturbation(s.noise))
		gradients[i] = float32(gradient)
	}

	writeErr := s.store.SetEmbedding(ctx, entityType, entityID, updated)
	if writeErr != nil {
		metric.Incr("sparse_eager_write_failure", metric.BuildTag(metric.NewTag(metric.TagEntityType, entityType)))
		log.Error().Ctx(ctx).Err(writeErr).Msgf("eager write failed for %s, staged for next sync", entityKey(entityType, entityID))
	}

	s.stage(PendingUpdate{
		EntityType: entityType,
		EntityID:   entityID,
		Embedding:  updated,
		Gradient:   gradients,
		Timestamp:  s.now(),
	})
	metric.Incr("sparse_update_applied", metric.BuildTag(metric.NewTag(metric.TagEntityType, entityType)))
	if writeErr != nil {
		return fmt.Errorf("error writing embedding %s: %w", entityKey(entityType, entityID), writeErr)
	}
	return nil
}

func (s *SparseUpdater) stage(update PendingUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	update.version = s.version
	s.pending[update.Key()] = update
}

// Pending returns a copy of the staged updates keyed by entity key
func (s *SparseUpdater) Pending() map[string]PendingUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]PendingUpdate, len(s.pending))
	for k, v := range s.pending {
		out[k] = v
	}
	return out
}

func (s *SparseUpdater) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *SparseUpdater) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

func (s *SparseUpdater) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.pending)
}

// ClearFlushed removes the entries of flushed that were not rewritten since they were captured
func (s *SparseUpdater) ClearFlushed(flushed map[string]PendingUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, update := range flushed {
		if current, ok := s.pending[key]; ok && current.version == update.version {
			delete(s.pending, key)
		}
	}
}

// Flush writes every update to the store in key order. A failed key is logged, counted and
// skipped. Flush stops early only when ctx is done, returning the context error.
func (s *SparseUpdater) Flush(ctx context.Context, updates map[string]PendingUpdate) (int, error) {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	written := 0
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return written, fmt.Errorf("sparse flush interrupted after %d of %d keys: %w", written, len(keys), err)
		}
		update := updates[key]
		if err := s.store.SetEmbedding(ctx, update.EntityType, update.EntityID, update.Embedding); err != nil {
			metric.Incr("sparse_sync_key_failure", metric.BuildTag(metric.NewTag(metric.TagEntityType, update.EntityType)))
			log.Error().Ctx(ctx).Err(err).Msgf("failed to sync sparse update for %s", key)
			continue
		}
		written++
	}
	return written, nil
}
