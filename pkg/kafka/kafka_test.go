package kafka

import (
	"testing"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConsumerConfigFromEnvDefaults(t *testing.T) {
	viper.Reset()
	viper.Set("KAFKA_1_TOPICS", "engagements")
	viper.Set("KAFKA_1_BOOTSTRAP_SERVERS", "localhost:9092")
	viper.Set("KAFKA_1_GROUP_ID", "online-learner")
	viper.Set("KAFKA_1_CLIENT_ID", "learner")

	cfg, err := BuildConsumerConfigFromEnv("KAFKA_1")
	require.NoError(t, err)
	assert.Equal(t, "engagements", cfg.Topics)
	assert.Equal(t, defaultAutoOffsetReset, cfg.AutoOffsetReset)
	assert.Equal(t, defaultConcurrency, cfg.Concurrency)
	assert.Equal(t, defaultBatchSize, cfg.BatchSize)
	assert.Equal(t, defaultPollTimeoutMs, cfg.PollTimeoutMs)
	assert.Equal(t, defaultFlushIntervalMs, cfg.FlushIntervalMs)
}

func TestBuildConsumerConfigFromEnvMissing(t *testing.T) {
	viper.Reset()
	viper.Set("KAFKA_1_TOPICS", "engagements")

	_, err := BuildConsumerConfigFromEnv("KAFKA_1")
	assert.EqualError(t, err, "KAFKA_1_BOOTSTRAP_SERVERS not set")
}

func TestBuildProducerConfigFromEnv(t *testing.T) {
	viper.Reset()
	viper.Set("KAFKA_PRODUCER_2_TOPICS", "snapshots")
	viper.Set("KAFKA_PRODUCER_2_BOOTSTRAP_SERVERS", "localhost:9092")
	viper.Set("KAFKA_PRODUCER_2_CLIENT_ID", "learner")

	cfg, err := BuildProducerConfigFromEnv("KAFKA_PRODUCER_2")
	require.NoError(t, err)
	assert.Equal(t, "snapshots", cfg.Topics)
	assert.Equal(t, "localhost:9092|||", clusterKey(cfg))
}

func TestSendAndForgetUnknownProducer(t *testing.T) {
	err := SendAndForget(999, []ProducerMessage{{Value: []byte("x")}})
	assert.Error(t, err)
}

func TestToKafkaMessage(t *testing.T) {
	topic := "snapshots"
	key := "1700000000000"
	km := toKafkaMessage(&topic, ProducerMessage{
		Key:     &key,
		Value:   []byte("{}"),
		Headers: map[string][]byte{"content-type": []byte("application/json")},
	})

	assert.Equal(t, "snapshots", *km.TopicPartition.Topic)
	assert.Equal(t, kafka.PartitionAny, km.TopicPartition.Partition)
	assert.Equal(t, []byte(key), km.Key)
	require.Len(t, km.Headers, 1)
	assert.Equal(t, "content-type", km.Headers[0].Key)

	assert.Nil(t, toKafkaMessage(&topic, ProducerMessage{}).Key)
}

func TestSetAuth(t *testing.T) {
	cm := kafka.ConfigMap{}
	setAuth(cm, "SASL_SSL", "PLAIN", "", "")
	assert.Equal(t, kafka.ConfigMap{securityProtocol: "SASL_SSL", saslMechanism: "PLAIN"}, cm)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a, b ,,"))
	assert.Empty(t, splitAndTrim(""))
}

func TestFirstOffsets(t *testing.T) {
	topic := "engagements"
	msgs := []*kafka.Message{
		{TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 0, Offset: 12}},
		{TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 1, Offset: 7}},
		{TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 0, Offset: 10}},
	}
	out := firstOffsets(msgs)
	require.Len(t, out, 2)
	assert.Equal(t, kafka.Offset(10), out[0].Offset)
	assert.Equal(t, int32(1), out[1].Partition)
	assert.Equal(t, kafka.Offset(7), out[1].Offset)
}

func TestToRecords(t *testing.T) {
	topic := "engagements"
	msgs := []*kafka.Message{
		{Key: []byte("k"), Value: nil, TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 3, Offset: 1042}},
		nil,
	}
	records := ToRecords(msgs)
	require.Len(t, records, 1)
	assert.Equal(t, "k", records[0].Key)
	assert.Equal(t, []byte{}, records[0].Value)
	assert.Equal(t, "p3@1042", records[0].Position())
}
