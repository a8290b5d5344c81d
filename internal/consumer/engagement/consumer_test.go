package engagement

import (
	"context"
	"fmt"
	"testing"

	"github.com/Meesho/BharatMLStack/online-learner/internal/learner"
	confluent "github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	m.Run()
}

func message(value string) *confluent.Message {
	topic := "engagements"
	return &confluent.Message{
		TopicPartition: confluent.TopicPartition{Topic: &topic, Partition: 0},
		Value:          []byte(value),
	}
}

func engagementJSON(requestId, engagementType, userId string) string {
	return fmt.Sprintf(`{"meta":{"requestId":%q,"requestTimestamp":"2025-03-01T12:00:00Z"},`+
		`"data":{"payload":{"engagement_type":%q,"features":{"user_id":%q,"author_id":"a1",`+
		`"content_topics":["sports"],"social_proof_score":0.4}}}}`, requestId, engagementType, userId)
}

func TestHandleBatchRecordsEvents(t *testing.T) {
	recorder := &MockRecorder{}
	expected := learner.FeatureVector{UserID: "u1", AuthorID: "a1", ContentTopics: []string{"sports"}, SocialProofScore: 0.4}
	recorder.On("RecordEngagement", mock.Anything, expected, "follow").Return(nil).Once()
	recorder.On("RecordEngagement", mock.Anything, mock.MatchedBy(func(f learner.FeatureVector) bool {
		return f.UserID == "u2"
	}), "view").Return(nil).Once()

	err := NewConsumer(recorder, nil).HandleBatch(context.Background(), []*confluent.Message{
		message(engagementJSON("r1", "follow", "u1")),
		message(engagementJSON("r2", "view", "u2")),
	})

	assert.NoError(t, err)
	recorder.AssertExpectations(t)
}

func TestHandleBatchSkipsInvalidEvents(t *testing.T) {
	recorder := &MockRecorder{}
	recorder.On("RecordEngagement", mock.Anything, mock.Anything, "reply").Return(nil).Once()

	err := NewConsumer(recorder, nil).HandleBatch(context.Background(), []*confluent.Message{
		message(`{"meta":`),
		message(engagementJSON("r1", "  ", "u1")),
		nil,
		message(engagementJSON("r2", "reply", "u1")),
	})

	assert.NoError(t, err)
	recorder.AssertNumberOfCalls(t, "RecordEngagement", 1)
}

func TestHandleBatchDoesNotFailOnRecorderErrors(t *testing.T) {
	recorder := &MockRecorder{}
	recorder.On("RecordEngagement", mock.Anything, mock.Anything, "follow").
		Return(fmt.Errorf("%w: buffer lock timeout", learner.ErrEngagementDropped)).Once()
	recorder.On("RecordEngagement", mock.Anything, mock.Anything, "renote").
		Return(fmt.Errorf("unexpected")).Once()
	recorder.On("RecordEngagement", mock.Anything, mock.Anything, "view").Return(nil).Once()

	err := NewConsumer(recorder, nil).HandleBatch(context.Background(), []*confluent.Message{
		message(engagementJSON("r1", "follow", "u1")),
		message(engagementJSON("r2", "renote", "u1")),
		message(engagementJSON("r3", "view", "u1")),
	})

	assert.NoError(t, err)
	recorder.AssertExpectations(t)
}

func TestHandleBatchWithEngine(t *testing.T) {
	engine := newEngine(t)

	err := NewConsumer(engine, nil).HandleBatch(context.Background(), []*confluent.Message{
		message(engagementJSON("r1", "view", "u1")),
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, engine.BufferLen())
	assert.ElementsMatch(t, []string{"user:u1", "author:a1", "topic:sports"}, engine.TouchedKeys())
}

func TestHandleBatchRateLimited(t *testing.T) {
	recorder := &MockRecorder{}
	recorder.On("RecordEngagement", mock.Anything, mock.Anything, "view").Return(nil)
	consumer := NewConsumer(recorder, NewRateLimiter(1000, 2))

	err := consumer.HandleBatch(context.Background(), []*confluent.Message{
		message(engagementJSON("r1", "view", "u1")),
		message(engagementJSON("r2", "view", "u1")),
		message(engagementJSON("r3", "view", "u1")),
	})

	assert.NoError(t, err)
	recorder.AssertNumberOfCalls(t, "RecordEngagement", 3)
}

func TestHandleBatchRateLimiterCancelled(t *testing.T) {
	recorder := &MockRecorder{}
	consumer := NewConsumer(recorder, NewRateLimiter(0.001, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := consumer.HandleBatch(ctx, []*confluent.Message{message(engagementJSON("r1", "view", "u1"))})

	assert.Error(t, err)
	recorder.AssertNotCalled(t, "RecordEngagement", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewRateLimiter(t *testing.T) {
	assert.Nil(t, NewRateLimiter(0, 10))
	limiter := NewRateLimiter(50, 0)
	assert.NotNil(t, limiter)
	assert.Equal(t, 1, limiter.Burst())
}
