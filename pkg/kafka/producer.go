package kafka

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/Meesho/BharatMLStack/online-learner/pkg/metric"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/rs/zerolog/log"
)

// ProducerMessage is one message for the topic registered under a kafka id
type ProducerMessage struct {
	Key     *string
	Value   []byte
	Headers map[string][]byte
}

type route struct {
	producer *kafka.Producer
	topic    string
}

// producerRegistry maps kafka ids to topics. Ids whose broker and credentials match share
// one confluent producer.
type producerRegistry struct {
	mu     sync.RWMutex
	routes map[int]route
	shared map[string]*kafka.Producer
}

var producers = newProducerRegistry()

func newProducerRegistry() *producerRegistry {
	return &producerRegistry{routes: make(map[int]route), shared: make(map[string]*kafka.Producer)}
}

func clusterKey(cfg *ProducerConfig) string {
	return cfg.BootstrapURLs + "|" + cfg.SecurityProtocol + "|" + cfg.SaslMechanism + "|" + cfg.SaslUsername
}

// setAuth copies the optional security settings into cm
func setAuth(cm kafka.ConfigMap, protocol, mechanism, username, password string) {
	for key, value := range map[string]string{
		securityProtocol: protocol,
		saslMechanism:    mechanism,
		saslUsername:     username,
		saslPassword:     password,
	} {
		if value != "" {
			cm[key] = value
		}
	}
}

func openProducer(cfg *ProducerConfig) (*kafka.Producer, error) {
	cm := kafka.ConfigMap{bootstrapServers: cfg.BootstrapURLs, clientId: cfg.ClientID}
	setAuth(cm, cfg.SecurityProtocol, cfg.SaslMechanism, cfg.SaslUsername, cfg.SaslPassword)

	p, err := kafka.NewProducer(&cm)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	go drainDeliveryReports(p)
	return p, nil
}

// drainDeliveryReports runs until the producer is closed
func drainDeliveryReports(p *kafka.Producer) {
	for e := range p.Events() {
		m, ok := e.(*kafka.Message)
		if !ok || m.TopicPartition.Error == nil {
			continue
		}
		topic := ""
		if m.TopicPartition.Topic != nil {
			topic = *m.TopicPartition.Topic
		}
		metric.Incr("kafka_delivery_failure", metric.BuildTag(metric.NewTag("topic", topic)))
		log.Error().Err(m.TopicPartition.Error).Msgf("kafka delivery to %s failed", topic)
	}
}

func (r *producerRegistry) register(kafkaId int, cfg *ProducerConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.routes[kafkaId]; ok {
		return nil
	}
	key := clusterKey(cfg)
	p, ok := r.shared[key]
	if !ok {
		var err error
		if p, err = openProducer(cfg); err != nil {
			return err
		}
		r.shared[key] = p
	}
	r.routes[kafkaId] = route{producer: p, topic: cfg.Topics}
	log.Info().Msgf("kafka producer %d registered for topic %s (shared: %v)", kafkaId, cfg.Topics, ok)
	return nil
}

func (r *producerRegistry) lookup(kafkaId int) (route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.routes[kafkaId]
	return rt, ok
}

func (r *producerRegistry) closeAll(flushTimeoutMs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, p := range r.shared {
		if pending := p.Flush(flushTimeoutMs); pending > 0 {
			log.Warn().Msgf("%d messages to %s not delivered before close", pending, key)
		}
		p.Close()
	}
	r.routes = make(map[int]route)
	r.shared = make(map[string]*kafka.Producer)
}

func toKafkaMessage(topic *string, m ProducerMessage) *kafka.Message {
	km := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: topic, Partition: kafka.PartitionAny},
		Value:          m.Value,
	}
	if m.Key != nil {
		km.Key = []byte(*m.Key)
	}
	for k, v := range m.Headers {
		km.Headers = append(km.Headers, kafka.Header{Key: k, Value: v})
	}
	return km
}

// InitProducer registers kafkaId using the KAFKA_PRODUCER_<kafkaId>_* settings. Registering
// an id twice is a no-op.
func InitProducer(kafkaId int) error {
	if _, ok := producers.lookup(kafkaId); ok {
		return nil
	}
	cfg, err := BuildProducerConfigFromEnv("KAFKA_PRODUCER_" + strconv.Itoa(kafkaId))
	if err != nil {
		return fmt.Errorf("failed to build producer config for kafkaId=%d: %w", kafkaId, err)
	}
	return producers.register(kafkaId, cfg)
}

// SendAndForget enqueues msgs for the topic of kafkaId. Delivery failures are only logged.
func SendAndForget(kafkaId int, msgs []ProducerMessage) error {
	rt, ok := producers.lookup(kafkaId)
	if !ok {
		return fmt.Errorf("producer not initialised for kafkaId=%d", kafkaId)
	}
	topic := rt.topic
	for _, m := range msgs {
		if err := rt.producer.Produce(toKafkaMessage(&topic, m), nil); err != nil {
			return fmt.Errorf("kafka produce error: %w", err)
		}
	}
	return nil
}

// CloseProducers flushes and closes every producer, waiting up to flushTimeoutMs for each
func CloseProducers(flushTimeoutMs int) {
	producers.closeAll(flushTimeoutMs)
}
