package snapshot

import (
	"github.com/Meesho/BharatMLStack/online-learner/internal/compression"
	"github.com/Meesho/BharatMLStack/online-learner/internal/config"
	"github.com/Meesho/BharatMLStack/online-learner/internal/learner"
	"github.com/rs/zerolog/log"
)

// NewSinks builds a FileSink when SNAPSHOT_DIR is set and a KafkaSink when
// SNAPSHOT_KAFKA_PRODUCER_ID is not negative
func NewSinks(cfg config.Configs) ([]learner.SnapshotSink, error) {
	var sinks []learner.SnapshotSink
	if cfg.SnapshotDir != "" {
		compressionType, err := compression.ParseType(cfg.SnapshotCompression)
		if err != nil {
			return nil, err
		}
		fileSink, err := NewFileSink(cfg.SnapshotDir, compressionType)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fileSink)
		log.Info().Msgf("snapshot file sink writing to %s", cfg.SnapshotDir)
	}
	if cfg.SnapshotKafkaProducerId >= 0 {
		kafkaSink, err := NewKafkaSink(cfg.SnapshotKafkaProducerId)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, kafkaSink)
		log.Info().Msgf("snapshot kafka sink publishing to kafkaId=%d", cfg.SnapshotKafkaProducerId)
	}
	return sinks, nil
}
