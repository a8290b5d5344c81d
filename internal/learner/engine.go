package learner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Meesho/BharatMLStack/online-learner/internal/repositories/embedding"
	"github.com/Meesho/BharatMLStack/online-learner/internal/repositories/weights"
	"github.com/Meesho/BharatMLStack/online-learner/internal/scheduler"
	"github.com/rs/zerolog/log"
)

const (
	syncTaskName     = "incremental_sync"
	snapshotTaskName = "snapshot"
)

var (
	ErrEngagementDropped = errors.New("engagement dropped")
	errBufferLockTimeout = errors.New("buffer lock timeout")
)

// Dependencies are the collaborators of an Engine. Store and Scheduler are required.
type Dependencies struct {
	Store         embedding.Store
	Scheduler     scheduler.Scheduler
	WeightSink    weights.Sink
	SnapshotSinks []SnapshotSink
	// Noise defaults to a time seeded source
	Noise NoiseSource
	// Clock defaults to time.Now
	Clock func() time.Time
}

// Engine owns the learner state: training buffer, touched keys, sparse and dense
// parameters and sync accounting.
type Engine struct {
	config        Config
	store         embedding.Store
	sparse        *SparseUpdater
	dense         *DenseLearner
	weightSink    weights.Sink
	snapshotSinks []SnapshotSink
	scheduler     scheduler.Scheduler
	now           func() time.Time

	// bufferLock is a one slot semaphore guarding buffer and touched
	bufferLock chan struct{}
	buffer     *trainingBuffer
	touched    *touchedKeys

	syncing atomic.Bool
	passSeq atomic.Uint64

	statsMu sync.RWMutex
	stats   SyncStats

	snapshotMu     sync.RWMutex
	latestSnapshot *Snapshot

	lifecycleMu sync.Mutex
	tasks       []scheduler.Task
}

func NewEngine(config Config, deps Dependencies) (*Engine, error) {
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid learner config: %w", err)
	}
	if deps.Store == nil {
		return nil, errors.New("embedding store is required")
	}
	if deps.Scheduler == nil {
		return nil, errors.New("scheduler is required")
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Noise == nil {
		deps.Noise = NewNoiseSource(time.Now().UnixNano())
	}
	return &Engine{
		config:        config,
		store:         deps.Store,
		sparse:        NewSparseUpdater(deps.Store, deps.Noise, config.LearningRate, deps.Clock),
		dense:         NewDenseLearner(config.LearningRate, config.MomentumDecay, config.GradientClipping),
		weightSink:    deps.WeightSink,
		snapshotSinks: deps.SnapshotSinks,
		scheduler:     deps.Scheduler,
		now:           deps.Clock,
		bufferLock:    make(chan struct{}, 1),
		buffer:        newTrainingBuffer(config.MaxTrainingBuffer),
		touched:       newTouchedKeys(),
	}, nil
}

func (e *Engine) Config() Config {
	return e.config
}

// lockBuffer waits up to BufferLockTimeout for the buffer lock
func (e *Engine) lockBuffer(ctx context.Context) error {
	select {
	case e.bufferLock <- struct{}{}:
		return nil
	default:
	}
	timer := time.NewTimer(e.config.BufferLockTimeout)
	defer timer.Stop()
	select {
	case e.bufferLock <- struct{}{}:
		return nil
	case <-timer.C:
		return errBufferLockTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) unlockBuffer() {
	<-e.bufferLock
}

// Start schedules the periodic sync and snapshot. Calling it again is a no-op.
func (e *Engine) Start() error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()
	if len(e.tasks) > 0 {
		return nil
	}
	syncTask, err := e.scheduler.Every(syncTaskName, e.config.SyncInterval, e.periodicSync)
	if err != nil {
		return fmt.Errorf("error scheduling sync: %w", err)
	}
	snapshotTask, err := e.scheduler.Every(snapshotTaskName, e.config.SnapshotInterval, e.periodicSnapshot)
	if err != nil {
		syncTask.Cancel()
		return fmt.Errorf("error scheduling snapshot: %w", err)
	}
	e.tasks = []scheduler.Task{syncTask, snapshotTask}

	e.statsMu.Lock()
	e.stats.NextSyncTime = e.now().Add(e.config.SyncInterval)
	e.statsMu.Unlock()
	log.Info().Msgf("online learner started, sync every %s, snapshot every %s", e.config.SyncInterval, e.config.SnapshotInterval)
	return nil
}

// Destroy cancels the periodic triggers and clears the buffer, touched keys and pending
// updates. It is idempotent and safe to call without Start.
func (e *Engine) Destroy() {
	e.lifecycleMu.Lock()
	for _, task := range e.tasks {
		task.Cancel()
	}
	e.tasks = nil
	e.lifecycleMu.Unlock()

	e.bufferLock <- struct{}{}
	e.buffer.clear()
	e.touched.clear()
	e.unlockBuffer()
	e.sparse.Clear()
	log.Info().Msg("online learner destroyed")
}

func (e *Engine) periodicSync() {
	if err := e.PerformIncrementalSync(context.Background()); err != nil {
		log.Error().Err(err).Msg("periodic sync failed")
	}
}

// GetModelWeights returns a copy of the dense weights
func (e *Engine) GetModelWeights() map[string]float64 {
	return e.dense.Weights()
}

// BufferLen returns the number of buffered samples
func (e *Engine) BufferLen() int {
	e.bufferLock <- struct{}{}
	defer e.unlockBuffer()
	return e.buffer.len()
}

// TouchedKeys returns the keys touched since the last successful sync
func (e *Engine) TouchedKeys() []string {
	e.bufferLock <- struct{}{}
	defer e.unlockBuffer()
	return e.touched.keys()
}

// PendingUpdates returns a copy of the staged sparse updates
func (e *Engine) PendingUpdates() map[string]PendingUpdate {
	return e.sparse.Pending()
}
