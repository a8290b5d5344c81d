package learner

import (
	"context"
	"fmt"

	"github.com/Meesho/BharatMLStack/online-learner/internal/repositories/weights"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/logger"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/metric"
	"github.com/rs/zerolog/log"
)

// passInput is the state a sync pass captured under the buffer lock
type passInput struct {
	touched []string
	pending map[string]PendingUpdate
	samples []TrainingSample
	flushed bool
}

// PerformIncrementalSync flushes pending sparse updates to the store, runs one dense pass over
// the buffer and publishes the dense weights. At most one pass runs at a time; a call made while
// a pass is in progress returns nil without doing anything. A failed pass is counted and keeps
// touched keys and pending updates for the next attempt. Cancelling ctx does not interrupt a pass.
func (e *Engine) PerformIncrementalSync(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	if !e.syncing.CompareAndSwap(false, true) {
		metric.Incr("sync_skipped", nil)
		log.Info().Ctx(ctx).Msg("sync already in progress, skipping")
		return nil
	}
	defer e.syncing.Store(false)

	ctx = logger.WithPassID(ctx, fmt.Sprintf("sync-%d", e.passSeq.Add(1)))
	start := e.now()

	input, err := e.capture(ctx)
	if err == nil {
		var result passResult
		result, err = e.runPass(ctx, &input)
		if err == nil {
			end := e.now()
			e.recordSuccess(start, end, result)
			e.clearSynced(input)
			metric.Incr("sync_success", nil)
			metric.Timing("sync_latency", end.Sub(start), nil)
			metric.Histogram("sparse_updates_per_sync", float64(result.sparseUpdates), nil)
			log.Info().Ctx(ctx).Msgf("sync completed: %d sparse, %d dense, %d touched keys in %s",
				result.sparseUpdates, result.denseUpdates, result.touchedKeys, end.Sub(start))
			return nil
		}
	}

	e.recordFailure(start, e.now())
	metric.Incr("sync_failure", nil)
	log.Error().Ctx(ctx).Err(err).Msg("sync failed, touched keys and pending updates kept")
	return fmt.Errorf("incremental sync failed: %w", err)
}

func (e *Engine) capture(ctx context.Context) (passInput, error) {
	if err := e.lockBuffer(ctx); err != nil {
		return passInput{}, fmt.Errorf("error capturing sync state: %w", err)
	}
	defer e.unlockBuffer()
	return passInput{
		touched: e.touched.keys(),
		pending: e.sparse.Pending(),
		samples: e.buffer.snapshot(),
	}, nil
}

// runPass converts a panic in either phase into a pass failure
func (e *Engine) runPass(ctx context.Context, input *passInput) (result passResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sync pass panicked: %v", r)
		}
	}()
	result.touchedKeys = len(input.touched)

	if e.config.EnableSparseUpdates && (len(input.touched) > 0 || len(input.pending) > 0) {
		result.sparseUpdates, err = e.sparse.Flush(ctx, input.pending)
		if err != nil {
			return result, err
		}
		input.flushed = true
	}

	if e.config.EnableDenseUpdates && len(input.samples) > 0 {
		now := e.now()
		result.denseUpdates = e.dense.Update(input.samples, now)
		if e.weightSink != nil {
			err = e.weightSink.Publish(ctx, weights.DenseWeights{
				Weights:   e.dense.Weights(),
				Momentum:  e.dense.Momentum(),
				UpdatedAt: now,
			})
			if err != nil {
				return result, fmt.Errorf("error publishing dense weights: %w", err)
			}
		}
	}
	return result, nil
}

// clearSynced drops what the pass consumed. In scoped mode only flushed updates are removed,
// and a captured key stays touched while any update for it is still pending.
func (e *Engine) clearSynced(input passInput) {
	if e.config.ClearMode == ClearModeAll {
		e.bufferLock <- struct{}{}
		e.touched.clear()
		e.unlockBuffer()
		e.sparse.Clear()
		return
	}

	if input.flushed {
		e.sparse.ClearFlushed(input.pending)
	}
	e.bufferLock <- struct{}{}
	defer e.unlockBuffer()
	cleared := make([]string, 0, len(input.touched))
	for _, key := range input.touched {
		if !e.sparse.Has(key) {
			cleared = append(cleared, key)
		}
	}
	e.touched.removeAll(cleared)
}
