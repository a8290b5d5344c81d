package learner

import (
	"context"
	"fmt"

	"github.com/Meesho/BharatMLStack/online-learner/pkg/metric"
	"github.com/rs/zerolog/log"
)

// RecordEngagement buffers a sample for the engagement and touches its entity keys.
// High value engagements also trigger immediate learning on that single sample.
// When the buffer lock cannot be taken within BufferLockTimeout the event is dropped
// and an error wrapping ErrEngagementDropped is returned.
func (e *Engine) RecordEngagement(ctx context.Context, features FeatureVector, engagementType string) error {
	score := EngagementScore(engagementType)
	sample := TrainingSample{
		Features:   features,
		Engagement: score,
		Timestamp:  e.now(),
		Weight:     1 + score,
	}
	tags := metric.BuildTag(metric.NewTag(metric.TagEngagementType, normalizeEngagementType(engagementType)))

	if err := e.lockBuffer(ctx); err != nil {
		e.recordDrop()
		metric.Incr("engagement_dropped", tags)
		log.Warn().Ctx(ctx).Err(err).Msgf("dropping %s engagement for user %s", engagementType, features.UserID)
		return fmt.Errorf("%w: %w", ErrEngagementDropped, err)
	}
	if evicted := e.buffer.add(sample); evicted > 0 {
		metric.Count("training_buffer_evicted", int64(evicted), nil)
	}
	e.touched.touch(&sample.Features)
	e.unlockBuffer()
	metric.Incr("engagement_recorded", tags)

	if IsHighValue(engagementType) {
		e.learnImmediately(ctx, sample)
	}
	return nil
}

// learnImmediately applies the sparse and dense steps for one sample. Sparse write
// failures are logged; the updates stay staged for the next sync.
func (e *Engine) learnImmediately(ctx context.Context, sample TrainingSample) {
	errorTerm := sample.Engagement - e.dense.Predict(&sample.Features)
	if e.config.EnableSparseUpdates {
		for _, ref := range entityRefs(&sample.Features) {
			if err := e.sparse.UpdateEmbedding(ctx, ref.entityType, ref.entityID, errorTerm*ref.scale); err != nil {
				log.Error().Ctx(ctx).Err(err).Msgf("immediate sparse update failed for %s", entityKey(ref.entityType, ref.entityID))
			}
		}
		e.retouch(&sample.Features)
	}
	if e.config.EnableDenseUpdates {
		e.dense.Update([]TrainingSample{sample}, e.now())
	}
	metric.Incr("immediate_learning", nil)
}

// retouch marks the sample's keys again once their updates are staged. A sync that ran
// between the first touch and the staging may have cleared them, which would leave the
// staged updates without a touched key.
func (e *Engine) retouch(features *FeatureVector) {
	e.bufferLock <- struct{}{}
	e.touched.touch(features)
	e.unlockBuffer()
}
