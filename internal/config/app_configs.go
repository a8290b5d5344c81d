package config

var (
	appConfig AppConfig
)

type AppConfig struct {
	Configs        Configs
	DynamicConfigs DynamicConfigs
}

func (cfg *AppConfig) GetStaticConfig() interface{} {
	return &cfg.Configs
}

func (cfg *AppConfig) GetDynamicConfig() interface{} {
	return &cfg.DynamicConfigs
}

func GetAppConfig() *AppConfig {
	return &appConfig
}

type Configs struct {
	AppName string `mapstructure:"app_name"`
	AppEnv  string `mapstructure:"app_env"`
	AppPort int    `mapstructure:"app_port"`

	LearnerSyncIntervalMs      int      `mapstructure:"learner_sync_interval_ms"`
	LearnerMaxTrainingBuffer   int      `mapstructure:"learner_max_training_buffer"`
	LearnerLearningRate        *float64 `mapstructure:"learner_learning_rate"`
	LearnerMomentumDecay       *float64 `mapstructure:"learner_momentum_decay"`
	LearnerGradientClipping    float64  `mapstructure:"learner_gradient_clipping"`
	LearnerEnableSparseUpdates bool     `mapstructure:"learner_enable_sparse_updates"`
	LearnerEnableDenseUpdates  bool     `mapstructure:"learner_enable_dense_updates"`
	LearnerSnapshotIntervalMs  int      `mapstructure:"learner_snapshot_interval_ms"`
	LearnerBufferLockTimeoutMs int      `mapstructure:"learner_buffer_lock_timeout_ms"`
	LearnerClearMode           string   `mapstructure:"learner_clear_mode"`
	LearnerNoiseSeed           int64    `mapstructure:"learner_noise_seed"`

	EmbeddingStoreType       string `mapstructure:"embedding_store_type"`
	EmbeddingCodec           string `mapstructure:"embedding_codec"`
	InMemoryCacheSizeInBytes int    `mapstructure:"in_memory_cache_size_in_bytes"`

	RedisAddr     string `mapstructure:"storage_redis_addr"`
	RedisPassword string `mapstructure:"storage_redis_password"`
	RedisDB       int    `mapstructure:"storage_redis_db"`

	ScyllaContactPoints string `mapstructure:"storage_scylla_contact_points"`
	ScyllaKeyspace      string `mapstructure:"storage_scylla_keyspace"`
	ScyllaTable         string `mapstructure:"storage_scylla_table"`
	ScyllaNumConns      int    `mapstructure:"storage_scylla_num_conns"`
	ScyllaPort          int    `mapstructure:"storage_scylla_port"`
	ScyllaTimeoutMs     int    `mapstructure:"storage_scylla_timeout_in_ms"`

	QdrantHost       string `mapstructure:"storage_qdrant_host"`
	QdrantPort       int    `mapstructure:"storage_qdrant_port"`
	QdrantCollection string `mapstructure:"storage_qdrant_collection"`

	StoreCircuitBreakerEnabled            bool `mapstructure:"store_circuit_breaker_enabled"`
	StoreCircuitBreakerFailureRatePercent int  `mapstructure:"store_circuit_breaker_failure_rate_percent"`
	StoreCircuitBreakerMinExecutions      int  `mapstructure:"store_circuit_breaker_min_executions"`
	StoreCircuitBreakerWindowMs           int  `mapstructure:"store_circuit_breaker_window_ms"`
	StoreCircuitBreakerSuccessThreshold   int  `mapstructure:"store_circuit_breaker_success_threshold"`
	StoreCircuitBreakerSuccessExecutions  int  `mapstructure:"store_circuit_breaker_success_executions"`
	StoreCircuitBreakerOpenDelayMs        int  `mapstructure:"store_circuit_breaker_open_delay_ms"`

	WeightSinkType    string `mapstructure:"weight_sink_type"`
	EtcdServer        string `mapstructure:"etcd_server"`
	EtcdUsername      string `mapstructure:"etcd_username"`
	EtcdPassword      string `mapstructure:"etcd_password"`
	EtcdWeightsPrefix string `mapstructure:"etcd_weights_prefix"`

	SnapshotDir             string `mapstructure:"snapshot_dir"`
	SnapshotCompression     string `mapstructure:"snapshot_compression"`
	SnapshotKafkaProducerId int    `mapstructure:"snapshot_kafka_producer_id"`

	EngagementConsumerKafkaIds   string  `mapstructure:"engagement_consumer_kafka_ids"`
	EngagementConsumerRateLimit  float64 `mapstructure:"engagement_consumer_rate_limit"`
	EngagementConsumerBurstLimit int     `mapstructure:"engagement_consumer_burst_limit"`

	ProfilingEnabled bool `mapstructure:"profiling_enabled"`
	ProfilingPort    int  `mapstructure:"profiling_port"`
}

type DynamicConfigs struct {
}
