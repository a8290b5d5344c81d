package engagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/Meesho/BharatMLStack/online-learner/internal/data/model"
	"github.com/Meesho/BharatMLStack/online-learner/internal/learner"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/kafka"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/metric"
	confluent "github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	consumerName = "engagement"
	tagReason    = "reason"
)

type Consumer struct {
	recorder Recorder
	limiter  *rate.Limiter
}

// NewConsumer returns a consumer feeding recorder. A nil limiter means no rate limit.
func NewConsumer(recorder Recorder, limiter *rate.Limiter) *Consumer {
	return &Consumer{recorder: recorder, limiter: limiter}
}

// NewRateLimiter allows eventsPerSecond events with the given burst, or returns nil when
// eventsPerSecond is not positive
func NewRateLimiter(eventsPerSecond float64, burst int) *rate.Limiter {
	if eventsPerSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(eventsPerSecond), burst)
}

// Start runs one listener per kafka id in kafkaIds until ctx is done
func (c *Consumer) Start(ctx context.Context, kafkaIds string) []*kafka.Listener {
	return kafka.StartConsumers(ctx, kafkaIds, consumerName, c.HandleBatch)
}

// HandleBatch records every decodable event of the batch. Malformed events and dropped
// engagements are logged and counted; neither fails the batch, so nothing is redelivered.
// Only a rate limiter wait cut short by ctx fails the batch.
func (c *Consumer) HandleBatch(ctx context.Context, msgs []*confluent.Message) error {
	for _, record := range kafka.ToRecords(msgs) {
		var event model.EngagementEvent
		if err := json.Unmarshal(record.Value, &event); err != nil {
			metric.Incr("engagement_consumer_invalid_event", metric.BuildTag(metric.NewTag(tagReason, "json")))
			log.Error().Msgf("error in json deserialization at %s: %s", record.Position(), err)
			continue
		}
		payload := event.EngagementEventData.Payload
		if err := payload.Validate(); err != nil {
			metric.Incr("engagement_consumer_invalid_event", metric.BuildTag(metric.NewTag(tagReason, "payload")))
			log.Error().Msgf("invalid engagement event %s: %s", event.KafkaMetaData.RequestId, err)
			continue
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				log.Error().Err(err).Msg("engagement rate limiter wait failed, batch will be redelivered")
				return fmt.Errorf("rate limiter wait: %w", err)
			}
		}
		metric.Incr("engagement_consumer_event", metric.BuildTag(metric.NewTag(metric.TagEngagementType, payload.EngagementType)))

		if err := c.recorder.RecordEngagement(ctx, payload.Features, payload.EngagementType); err != nil {
			if errors.Is(err, learner.ErrEngagementDropped) {
				log.Warn().Msgf("engagement %s dropped: %s", event.KafkaMetaData.RequestId, err)
				continue
			}
			log.Error().Err(err).Msgf("error recording engagement %s", event.KafkaMetaData.RequestId)
		}
	}
	return nil
}
