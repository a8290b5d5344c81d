package learner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Meesho/BharatMLStack/online-learner/internal/repositories/embedding"
	"github.com/Meesho/BharatMLStack/online-learner/internal/repositories/weights"
	"github.com/Meesho/BharatMLStack/online-learner/internal/scheduler"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	m.Run()
}

var (
	testNow        = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	errStoreDown   = errors.New("store down")
	errSinkRefused = errors.New("sink refused")
)

// fixedNoise always draws the same value
type fixedNoise float64

func (n fixedNoise) Float64() float64 {
	return float64(n)
}

// mapStore is an in-process embedding.Store. onSet runs after every successful write,
// outside the store lock.
type mapStore struct {
	mu        sync.Mutex
	data      map[string][]float32
	failSet   map[string]bool
	sets      int
	onSet     func(key string)
	statsFail bool
}

func newMapStore(keys ...string) *mapStore {
	s := &mapStore{data: make(map[string][]float32), failSet: make(map[string]bool)}
	for _, key := range keys {
		s.data[key] = []float32{0, 0, 0}
	}
	return s
}

func (s *mapStore) GetEmbedding(_ context.Context, entityType, entityID string) ([]float32, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[embedding.Key(entityType, entityID)]
	if !ok {
		return nil, false, nil
	}
	return append([]float32(nil), v...), true, nil
}

func (s *mapStore) SetEmbedding(_ context.Context, entityType, entityID string, value []float32) error {
	key := embedding.Key(entityType, entityID)
	s.mu.Lock()
	if s.failSet[key] {
		s.mu.Unlock()
		return errStoreDown
	}
	s.data[key] = append([]float32(nil), value...)
	s.sets++
	hook := s.onSet
	s.mu.Unlock()
	if hook != nil {
		hook(key)
	}
	return nil
}

func (s *mapStore) GetSystemStats(_ context.Context) (embedding.SystemStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statsFail {
		return embedding.SystemStats{}, errStoreDown
	}
	return embedding.SystemStats{TableStats: map[string]embedding.TableStats{
		"map": {Entries: int64(len(s.data)), Backend: "MAP"},
	}}, nil
}

func (s *mapStore) get(key string) []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

func (s *mapStore) setHook(hook func(key string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSet = hook
}

type failingSink struct {
	calls int
}

func (s *failingSink) Publish(context.Context, weights.DenseWeights) error {
	s.calls++
	return errSinkRefused
}

type recordingSnapshotSink struct {
	mu        sync.Mutex
	snapshots []Snapshot
	err       error
}

func (s *recordingSnapshotSink) Write(_ context.Context, snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
	return s.err
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.BufferLockTimeout = 20 * time.Millisecond
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, deps Dependencies) *Engine {
	t.Helper()
	if deps.Store == nil {
		deps.Store = newMapStore()
	}
	if deps.Scheduler == nil {
		deps.Scheduler = scheduler.NewManual()
	}
	if deps.Noise == nil {
		deps.Noise = fixedNoise(0.9)
	}
	if deps.Clock == nil {
		deps.Clock = func() time.Time { return testNow }
	}
	e, err := NewEngine(cfg, deps)
	require.NoError(t, err)
	t.Cleanup(e.Destroy)
	return e
}

func followFeatures(userID, authorID string, topics ...string) FeatureVector {
	return FeatureVector{UserID: userID, AuthorID: authorID, ContentTopics: topics}
}

func onesFeatures() FeatureVector {
	return FeatureVector{
		UserEngagementRate:      1,
		ContentLengthNormalized: 1,
		ContentAgeHours:         1,
		SocialProofScore:        1,
		AuthorUserAffinity:      1,
		TopicSimilarityScore:    1,
		TemporalMatchScore:      1,
		CommunitySizeFactor:     1,
		PersonalizationStrength: 1,
		DiscoveryBoost:          1,
	}
}
