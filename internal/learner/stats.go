package learner

import "time"

// SyncStats is the running accounting of sync passes. SuccessCount, FailureCount and
// DroppedEngagements only grow; the other fields describe the last pass.
type SyncStats struct {
	SuccessCount       int64     `json:"success_count"`
	FailureCount       int64     `json:"failure_count"`
	LastSyncTime       time.Time `json:"last_sync_time"`
	NextSyncTime       time.Time `json:"next_sync_time"`
	SparseUpdatesCount int       `json:"sparse_updates_count"`
	DenseUpdatesCount  int       `json:"dense_updates_count"`
	SyncDurationMs     int64     `json:"sync_duration_ms"`
	TouchedKeysCount   int       `json:"touched_keys_count"`
	DroppedEngagements int64     `json:"dropped_engagements"`
}

// GetSyncStats returns a copy of the current stats
func (e *Engine) GetSyncStats() SyncStats {
	e.statsMu.RLock()
	defer e.statsMu.RUnlock()
	return e.stats
}

type passResult struct {
	sparseUpdates int
	denseUpdates  int
	touchedKeys   int
}

func (e *Engine) recordSuccess(start, end time.Time, result passResult) {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.stats.SuccessCount++
	e.stats.LastSyncTime = end
	e.stats.NextSyncTime = end.Add(e.config.SyncInterval)
	e.stats.SparseUpdatesCount = result.sparseUpdates
	e.stats.DenseUpdatesCount = result.denseUpdates
	e.stats.SyncDurationMs = end.Sub(start).Milliseconds()
	e.stats.TouchedKeysCount = result.touchedKeys
}

func (e *Engine) recordFailure(start, end time.Time) {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.stats.FailureCount++
	e.stats.LastSyncTime = end
	e.stats.NextSyncTime = end.Add(e.config.SyncInterval)
	e.stats.SyncDurationMs = end.Sub(start).Milliseconds()
}

func (e *Engine) recordDrop() {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.stats.DroppedEngagements++
}
