package snapshot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Meesho/BharatMLStack/online-learner/internal/learner"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/kafka"
	"github.com/goccy/go-json"
)

const (
	headerContentType = "content-type"
	contentTypeJSON   = "application/json"
)

// KafkaSink publishes each snapshot as one JSON message keyed by its unix millis timestamp
type KafkaSink struct {
	kafkaId int
	send    func(kafkaId int, msgs []kafka.ProducerMessage) error
}

// NewKafkaSink registers the producer for kafkaId, configured from KAFKA_PRODUCER_<kafkaId>_*
func NewKafkaSink(kafkaId int) (*KafkaSink, error) {
	if err := kafka.InitProducer(kafkaId); err != nil {
		return nil, err
	}
	return &KafkaSink{kafkaId: kafkaId, send: kafka.SendAndForget}, nil
}

func (s *KafkaSink) Write(_ context.Context, snap learner.Snapshot) error {
	value, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("error marshalling snapshot: %w", err)
	}
	key := strconv.FormatInt(snap.Timestamp.UnixMilli(), 10)
	msg := kafka.ProducerMessage{
		Key:     &key,
		Value:   value,
		Headers: map[string][]byte{headerContentType: []byte(contentTypeJSON)},
	}
	if err := s.send(s.kafkaId, []kafka.ProducerMessage{msg}); err != nil {
		return fmt.Errorf("error publishing snapshot to kafkaId=%d: %w", s.kafkaId, err)
	}
	return nil
}
