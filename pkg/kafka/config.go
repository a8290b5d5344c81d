package kafka

import (
	"errors"

	"github.com/spf13/viper"
)

const (
	topicsSuffix               = "_TOPICS"
	bootstrapURLsSuffix        = "_BOOTSTRAP_SERVERS"
	saslUsernameSuffix         = "_SASL_USERNAME"
	saslPasswordSuffix         = "_SASL_PASSWORD"
	saslMechanismSuffix        = "_SASL_MECHANISM"
	securityProtocolSuffix     = "_SECURITY_PROTOCOL"
	groupIDSuffix              = "_GROUP_ID"
	autoOffsetResetSuffix      = "_AUTO_OFFSET_RESET"
	autoCommitEnableSuffix     = "_ENABLE_AUTO_COMMIT"
	autoCommitIntervalMsSuffix = "_AUTO_COMMIT_INTERVAL_MS"
	concurrencySuffix          = "_LISTENER_CONCURRENCY"
	clientIdSuffix             = "_CLIENT_ID"
	batchSizeSuffix            = "_BATCH_SIZE"
	pollTimeoutSuffix          = "_POLL_TIMEOUT"
	flushIntervalMsSuffix      = "_FLUSH_INTERVAL_MS"

	defaultAutoOffsetReset = "latest"
	defaultConcurrency     = 1
	defaultBatchSize       = 100
	defaultPollTimeoutMs   = 100
	defaultFlushIntervalMs = 30000
)

type ConsumerConfig struct {
	BootstrapURLs          string
	SaslUsername           string
	SaslPassword           string
	SaslMechanism          string
	SecurityProtocol       string
	GroupID                string
	ClientID               string
	Topics                 string
	AutoOffsetReset        string
	AutoCommitIntervalInMs int
	AutoCommitEnable       bool
	Concurrency            int
	BatchSize              int
	PollTimeoutMs          int
	FlushIntervalMs        int
}

// ProducerConfig holds Kafka producer connection settings.
type ProducerConfig struct {
	BootstrapURLs    string
	SaslUsername     string
	SaslPassword     string
	SaslMechanism    string
	SecurityProtocol string
	ClientID         string
	Topics           string
}

// BuildConsumerConfigFromEnv reads <envPrefix>_* keys. Topics, bootstrap servers, group id and
// client id are mandatory; everything else falls back to a default.
func BuildConsumerConfigFromEnv(envPrefix string) (*ConsumerConfig, error) {
	for _, suffix := range []string{topicsSuffix, bootstrapURLsSuffix, groupIDSuffix, clientIdSuffix} {
		if !viper.IsSet(envPrefix + suffix) {
			return nil, errors.New(envPrefix + suffix + " not set")
		}
	}
	cfg := &ConsumerConfig{
		Topics:                 viper.GetString(envPrefix + topicsSuffix),
		BootstrapURLs:          viper.GetString(envPrefix + bootstrapURLsSuffix),
		SaslUsername:           viper.GetString(envPrefix + saslUsernameSuffix),
		SaslPassword:           viper.GetString(envPrefix + saslPasswordSuffix),
		SaslMechanism:          viper.GetString(envPrefix + saslMechanismSuffix),
		SecurityProtocol:       viper.GetString(envPrefix + securityProtocolSuffix),
		GroupID:                viper.GetString(envPrefix + groupIDSuffix),
		ClientID:               viper.GetString(envPrefix + clientIdSuffix),
		AutoOffsetReset:        viper.GetString(envPrefix + autoOffsetResetSuffix),
		AutoCommitEnable:       viper.GetBool(envPrefix + autoCommitEnableSuffix),
		AutoCommitIntervalInMs: viper.GetInt(envPrefix + autoCommitIntervalMsSuffix),
		Concurrency:            viper.GetInt(envPrefix + concurrencySuffix),
		BatchSize:              viper.GetInt(envPrefix + batchSizeSuffix),
		PollTimeoutMs:          viper.GetInt(envPrefix + pollTimeoutSuffix),
		FlushIntervalMs:        viper.GetInt(envPrefix + flushIntervalMsSuffix),
	}
	if cfg.AutoOffsetReset == "" {
		cfg.AutoOffsetReset = defaultAutoOffsetReset
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.PollTimeoutMs <= 0 {
		cfg.PollTimeoutMs = defaultPollTimeoutMs
	}
	if cfg.FlushIntervalMs <= 0 {
		cfg.FlushIntervalMs = defaultFlushIntervalMs
	}
	return cfg, nil
}

// BuildProducerConfigFromEnv builds a ProducerConfig from env vars with the given prefix.
// Only requires topic, bootstrap servers, and client ID; auth fields are optional.
func BuildProducerConfigFromEnv(envPrefix string) (*ProducerConfig, error) {
	for _, suffix := range []string{topicsSuffix, bootstrapURLsSuffix, clientIdSuffix} {
		if !viper.IsSet(envPrefix + suffix) {
			return nil, errors.New(envPrefix + suffix + " not set")
		}
	}
	return &ProducerConfig{
		Topics:           viper.GetString(envPrefix + topicsSuffix),
		BootstrapURLs:    viper.GetString(envPrefix + bootstrapURLsSuffix),
		SaslUsername:     viper.GetString(envPrefix + saslUsernameSuffix),
		SaslPassword:     viper.GetString(envPrefix + saslPasswordSuffix),
		SaslMechanism:    viper.GetString(envPrefix + saslMechanismSuffix),
		SecurityProtocol: viper.GetString(envPrefix + securityProtocolSuffix),
		ClientID:         viper.GetString(envPrefix + clientIdSuffix),
	}, nil
}
