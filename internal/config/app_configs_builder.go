package config

import (
	"github.com/Meesho/BharatMLStack/online-learner/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type ConfigHolder interface {
	GetStaticConfig() interface{}
	GetDynamicConfig() interface{}
}

func InitConfig(configHolder ConfigHolder) {
	config.InitEnv()
	staticConfig := configHolder.GetStaticConfig()
	cfg, ok := staticConfig.(*Configs)
	if !ok {
		log.Fatal().Msg("Failed to cast static config to *Configs")
	}
	if err := config.BindEnvs(configKeys...); err != nil {
		log.Fatal().Err(err).Msg("Failed to bind config keys to env")
	}
	setDefaults()
	if err := viper.Unmarshal(cfg); err != nil {
		log.Fatal().Msgf("Failed to unmarshal config from environment: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("app_port", 8080)
	viper.SetDefault("learner_enable_sparse_updates", true)
	viper.SetDefault("learner_enable_dense_updates", true)
	viper.SetDefault("learner_clear_mode", "scoped")
	viper.SetDefault("embedding_store_type", "IN_MEMORY")
	viper.SetDefault("embedding_codec", "FP32")
	viper.SetDefault("in_memory_cache_size_in_bytes", 64*1024*1024)
	viper.SetDefault("storage_scylla_table", "entity_embeddings")
	viper.SetDefault("storage_qdrant_port", 6334)
	viper.SetDefault("weight_sink_type", "NONE")
	viper.SetDefault("etcd_weights_prefix", "/online-learner")
	viper.SetDefault("snapshot_compression", "ZSTD")
	viper.SetDefault("snapshot_kafka_producer_id", -1)
}

// configKeys are bound to their upper-case environment variables
var configKeys = []string{
	// App configuration
	"app_name",
	"app_env",
	"app_log_level",
	"app_metric_sampling_rate",
	"app_port",

	// Learner configuration
	"learner_sync_interval_ms",
	"learner_max_training_buffer",
	"learner_learning_rate",
	"learner_momentum_decay",
	"learner_gradient_clipping",
	"learner_enable_sparse_updates",
	"learner_enable_dense_updates",
	"learner_snapshot_interval_ms",
	"learner_buffer_lock_timeout_ms",
	"learner_clear_mode",
	"learner_noise_seed",

	// Embedding store configuration
	"embedding_store_type",
	"embedding_codec",
	"in_memory_cache_size_in_bytes",
	"storage_redis_addr",
	"storage_redis_password",
	"storage_redis_db",
	"storage_scylla_contact_points",
	"storage_scylla_keyspace",
	"storage_scylla_table",
	"storage_scylla_num_conns",
	"storage_scylla_port",
	"storage_scylla_timeout_in_ms",
	"storage_qdrant_host",
	"storage_qdrant_port",
	"storage_qdrant_collection",

	// Circuit breaker configuration
	"store_circuit_breaker_enabled",
	"store_circuit_breaker_failure_rate_percent",
	"store_circuit_breaker_min_executions",
	"store_circuit_breaker_window_ms",
	"store_circuit_breaker_success_threshold",
	"store_circuit_breaker_success_executions",
	"store_circuit_breaker_open_delay_ms",

	// Dense weight sink configuration
	"weight_sink_type",
	"etcd_server",
	"etcd_username",
	"etcd_password",
	"etcd_weights_prefix",

	// Snapshot configuration
	"snapshot_dir",
	"snapshot_compression",
	"snapshot_kafka_producer_id",

	// Ingest configuration
	"engagement_consumer_kafka_ids",
	"engagement_consumer_rate_limit",
	"engagement_consumer_burst_limit",

	// Profiling configuration
	"profiling_enabled",
	"profiling_port",
}
