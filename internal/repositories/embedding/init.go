package embedding

import (
	"fmt"
	"strings"

	"github.com/Meesho/BharatMLStack/online-learner/internal/config"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/circuitbreaker"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/infra"
	"github.com/Meesho/BharatMLStack/online-learner/pkg/inmemorycache"
	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	scyllaEnvPrefix = "STORAGE_SCYLLA"
	cacheName       = "embeddings"
)

// NewStore builds the backend named by EMBEDDING_STORE_TYPE, wrapped in a circuit breaker
// when STORE_CIRCUIT_BREAKER_ENABLED is set
func NewStore(cfg config.Configs) (Store, error) {
	store, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.StoreCircuitBreakerEnabled {
		store = NewCircuitBreakerStore(store, circuitbreaker.New(circuitBreakerConfig(cfg)))
	}
	log.Info().Msgf("embedding store %s initialized (circuit breaker: %v)", cfg.EmbeddingStoreType, cfg.StoreCircuitBreakerEnabled)
	return store, nil
}

func newBackend(cfg config.Configs) (Store, error) {
	codec, err := NewCodec(cfg.EmbeddingCodec)
	if err != nil {
		return nil, err
	}
	switch strings.ToUpper(cfg.EmbeddingStoreType) {
	case StoreTypeInMemory:
		inmemorycache.Init(cacheName, cfg.InMemoryCacheSizeInBytes)
		return NewInMemoryStore(inmemorycache.Instance(), codec), nil
	case StoreTypeRedis:
		infra.InitRedis(infra.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		return NewRedisStore(infra.GetRedisClient(), codec), nil
	case StoreTypeScylla:
		session, err := infra.NewScyllaSession(scyllaEnvPrefix)
		if err != nil {
			return nil, fmt.Errorf("error connecting scylla: %w", err)
		}
		return NewScyllaStore(session, cfg.ScyllaKeyspace, cfg.ScyllaTable), nil
	case StoreTypeQdrant:
		client, err := qdrant.NewClient(&qdrant.Config{
			Host: cfg.QdrantHost,
			Port: cfg.QdrantPort,
			GrpcOptions: []grpc.DialOption{
				grpc.WithTransportCredentials(insecure.NewCredentials()),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("could not create qdrant client: %w", err)
		}
		return NewQdrantStore(client, cfg.QdrantCollection), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStoreType, cfg.EmbeddingStoreType)
	}
}

func circuitBreakerConfig(cfg config.Configs) *circuitbreaker.Config {
	cbConfig := circuitbreaker.DefaultConfig("embedding_store")
	if cfg.StoreCircuitBreakerFailureRatePercent > 0 {
		cbConfig.FailureRateThreshold = cfg.StoreCircuitBreakerFailureRatePercent
	}
	if cfg.StoreCircuitBreakerMinExecutions > 0 {
		cbConfig.FailureRateMinimumWindow = cfg.StoreCircuitBreakerMinExecutions
	}
	if cfg.StoreCircuitBreakerWindowMs > 0 {
		cbConfig.FailureRateWindowInMs = cfg.StoreCircuitBreakerWindowMs
	}
	if cfg.StoreCircuitBreakerSuccessThreshold > 0 {
		cbConfig.SuccessCountThreshold = cfg.StoreCircuitBreakerSuccessThreshold
	}
	if cfg.StoreCircuitBreakerSuccessExecutions > 0 {
		cbConfig.SuccessCountWindow = cfg.StoreCircuitBreakerSuccessExecutions
	}
	if cfg.StoreCircuitBreakerOpenDelayMs > 0 {
		cbConfig.WithDelayInMS = cfg.StoreCircuitBreakerOpenDelayMs
	}
	return cbConfig
}
