package kafka

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Meesho/BharatMLStack/online-learner/pkg/metric"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/rs/zerolog/log"
)

const (
	bootstrapServers     = "bootstrap.servers"
	groupID              = "group.id"
	autoOffsetReset      = "auto.offset.reset"
	enableAutoCommit     = "enable.auto.commit"
	autoCommitIntervalMs = "auto.commit.interval.ms"
	saslUsername         = "sasl.username"
	saslPassword         = "sasl.password"
	saslMechanism        = "sasl.mechanisms"
	securityProtocol     = "security.protocol"
	clientId             = "client.id"
)

// BatchHandler processes a batch of raw Kafka messages.
// Return nil on success (the batch is committed); return error to seek back and redeliver.
type BatchHandler func(ctx context.Context, msgs []*kafka.Message) error

type Listener struct {
	consumers    []*kafka.Consumer
	config       *ConsumerConfig
	batchHandler BatchHandler
	wg           sync.WaitGroup
}

// StartConsumers splits a comma-separated list of kafka ids, builds a ConsumerConfig per id
// from env prefix KAFKA_<id>, and starts a Listener for each. Listeners stop when ctx is done.
func StartConsumers(ctx context.Context, kafkaIds string, consumerName string, handler BatchHandler) []*Listener {
	listeners := make([]*Listener, 0)
	for _, kafkaId := range splitAndTrim(kafkaIds) {
		cfg, err := BuildConsumerConfigFromEnv("KAFKA_" + kafkaId)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to build kafka config for %s (kafkaId=%s)", consumerName, kafkaId)
			continue
		}
		log.Info().Str("topic", cfg.Topics).Str("bootstrap", cfg.BootstrapURLs).Str("group", cfg.GroupID).
			Msgf("Starting %s consumer kafkaId=%s", consumerName, kafkaId)
		l := NewListener(cfg, handler)
		if err := l.Init(); err != nil {
			log.Error().Err(err).Msgf("Failed to init %s consumer kafkaId=%s", consumerName, kafkaId)
			continue
		}
		l.Consume(ctx)
		listeners = append(listeners, l)
	}
	return listeners
}

func NewListener(cfg *ConsumerConfig, batchHandler BatchHandler) *Listener {
	return &Listener{
		config:       cfg,
		batchHandler: batchHandler,
	}
}

func (l *Listener) configMap(index int) *kafka.ConfigMap {
	configMap := &kafka.ConfigMap{
		bootstrapServers: l.config.BootstrapURLs,
		groupID:          l.config.GroupID,
		autoOffsetReset:  l.config.AutoOffsetReset,
		enableAutoCommit: l.config.AutoCommitEnable,
		clientId:         l.config.ClientID + "-" + strconv.Itoa(index),
	}
	if l.config.AutoCommitIntervalInMs > 0 {
		(*configMap)[autoCommitIntervalMs] = l.config.AutoCommitIntervalInMs
	}
	setAuth(*configMap, l.config.SecurityProtocol, l.config.SaslMechanism, l.config.SaslUsername, l.config.SaslPassword)
	return configMap
}

// Init creates and subscribes one consumer per configured concurrency slot
func (l *Listener) Init() error {
	topics := splitAndTrim(l.config.Topics)
	for i := 0; i < l.config.Concurrency; i++ {
		consumer, err := kafka.NewConsumer(l.configMap(i))
		if err != nil {
			return err
		}
		if err := consumer.SubscribeTopics(topics, nil); err != nil {
			_ = consumer.Close()
			return err
		}
		l.consumers = append(l.consumers, consumer)
	}
	return nil
}

// Consume starts one poll loop per consumer. Each loop flushes a batch when it is full or when
// the flush interval elapses, and drains the pending batch before closing on ctx cancellation.
func (l *Listener) Consume(ctx context.Context) {
	for i, c := range l.consumers {
		consumer := c
		log.Info().Msgf("Starting consumption on consumer %d for group %s", i, l.config.GroupID)
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			l.run(ctx, consumer)
		}()
	}
}

// Wait blocks until every poll loop has exited
func (l *Listener) Wait() {
	l.wg.Wait()
}

func (l *Listener) run(ctx context.Context, consumer *kafka.Consumer) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("%v : Recovered from panic: %v", consumer, r)
			metric.Incr("consumer_panic", metric.BuildTag(
				metric.NewTag("group", l.config.GroupID),
				metric.NewTag("client", l.config.ClientID),
			))
		}
	}()
	messages := make([]*kafka.Message, 0, l.config.BatchSize)
	flushTimer := time.NewTicker(time.Duration(l.config.FlushIntervalMs) * time.Millisecond)
	defer flushTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("Terminating consumer %v", consumer)
			l.processBatch(ctx, consumer, messages)
			if err := consumer.Unsubscribe(); err != nil {
				log.Error().Err(err).Msg("Error while unsubscribing topic")
			}
			if err := consumer.Close(); err != nil {
				log.Error().Err(err).Msg("Error while closing consumer")
			}
			return

		case <-flushTimer.C:
			if len(messages) > 0 {
				log.Debug().Int("msgCount", len(messages)).Msg("Flushing batch due to timeout")
				l.processBatch(ctx, consumer, messages)
				messages = messages[:0]
			}

		default:
			ev := consumer.Poll(l.config.PollTimeoutMs)
			if ev == nil {
				continue
			}
			switch e := ev.(type) {
			case *kafka.Message:
				metric.Incr("events_consumed", metric.BuildTag(
					metric.NewTag("topic", *e.TopicPartition.Topic),
					metric.NewTag("group", l.config.GroupID),
				))
				messages = append(messages, e)
				if len(messages) == l.config.BatchSize {
					l.processBatch(ctx, consumer, messages)
					messages = messages[:0]
				}
			case kafka.Error:
				if e.IsFatal() {
					log.Error().Err(e).Msg("Fatal Kafka error. Shutting down consumer.")
					l.processBatch(ctx, consumer, messages)
					_ = consumer.Close()
					return
				}
				log.Error().Err(e).Msg("Non-fatal Kafka error encountered.")
			default:
				log.Debug().Msgf("Ignored event: %#v", e)
			}
		}
	}
}

func (l *Listener) processBatch(ctx context.Context, consumer *kafka.Consumer, messages []*kafka.Message) {
	if len(messages) == 0 {
		return
	}
	if err := l.batchHandler(ctx, messages); err != nil {
		log.Error().Err(err).Msg("Batch processing failed, seeking back")
		if _, seekErr := consumer.SeekPartitions(firstOffsets(messages)); seekErr != nil {
			log.Error().Err(seekErr).Msg("Failed to seek partitions")
		}
		return
	}
	if !l.config.AutoCommitEnable {
		if _, err := consumer.Commit(); err != nil {
			log.Error().Err(err).Msg("Failed to commit")
		}
	}
}

// firstOffsets returns, per topic partition, the earliest offset present in the batch
func firstOffsets(messages []*kafka.Message) []kafka.TopicPartition {
	type key struct {
		topic     string
		partition int32
	}
	earliest := make(map[key]kafka.TopicPartition)
	order := make([]key, 0)
	for _, m := range messages {
		topic := ""
		if m.TopicPartition.Topic != nil {
			topic = *m.TopicPartition.Topic
		}
		k := key{topic: topic, partition: m.TopicPartition.Partition}
		tp, ok := earliest[k]
		if !ok {
			order = append(order, k)
		}
		if !ok || m.TopicPartition.Offset < tp.Offset {
			earliest[k] = m.TopicPartition
		}
	}
	out := make([]kafka.TopicPartition, 0, len(order))
	for _, k := range order {
		out = append(out, earliest[k])
	}
	return out
}

// splitAndTrim splits a comma-separated list and trims spaces (e.g. "a, b" -> ["a", "b"]).
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
