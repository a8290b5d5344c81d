package learner

import (
	"context"
	"time"

	"github.com/Meesho/BharatMLStack/online-learner/internal/repositories/embedding"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/metric"
	"github.com/rs/zerolog/log"
)

// SnapshotSink persists captured snapshots
type SnapshotSink interface {
	Write(ctx context.Context, snapshot Snapshot) error
}

// Snapshot is a point in time copy of the model and sync state
type Snapshot struct {
	Timestamp  time.Time             `json:"timestamp"`
	Weights    map[string]float64    `json:"weights"`
	Momentum   map[string]float64    `json:"momentum"`
	StoreStats embedding.SystemStats `json:"store_stats"`
	SyncStats  SyncStats             `json:"sync_stats"`
}

// CaptureSnapshot collects weights, momentum, store stats and sync stats. A store stats
// error is logged and leaves StoreStats empty.
func (e *Engine) CaptureSnapshot(ctx context.Context) Snapshot {
	snapshot := Snapshot{
		Timestamp: e.now(),
		Weights:   e.dense.Weights(),
		Momentum:  e.dense.Momentum(),
		SyncStats: e.GetSyncStats(),
	}
	stats, err := e.store.GetSystemStats(ctx)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Msg("error reading embedding store stats for snapshot")
	} else {
		snapshot.StoreStats = stats
	}
	return snapshot
}

// LatestSnapshot returns the last snapshot taken by the periodic trigger
func (e *Engine) LatestSnapshot() (Snapshot, bool) {
	e.snapshotMu.RLock()
	defer e.snapshotMu.RUnlock()
	if e.latestSnapshot == nil {
		return Snapshot{}, false
	}
	return *e.latestSnapshot, true
}

func (e *Engine) periodicSnapshot() {
	e.takeSnapshot(context.Background())
}

func (e *Engine) takeSnapshot(ctx context.Context) Snapshot {
	snapshot := e.CaptureSnapshot(ctx)
	e.snapshotMu.Lock()
	e.latestSnapshot = &snapshot
	e.snapshotMu.Unlock()

	for _, sink := range e.snapshotSinks {
		if err := sink.Write(ctx, snapshot); err != nil {
			metric.Incr("snapshot_sink_failure", nil)
			log.Error().Ctx(ctx).Err(err).Msg("error writing snapshot")
		}
	}
	metric.Incr("snapshot_captured", nil)
	log.Info().Ctx(ctx).Msgf("snapshot captured at %s, %d successful syncs", snapshot.Timestamp.Format(time.RFC3339), snapshot.SyncStats.SuccessCount)
	return snapshot
}
