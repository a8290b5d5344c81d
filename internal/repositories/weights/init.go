package weights

import (
	"fmt"
	"strings"

	"github.com/Meesho/BharatMLStack/online-learner/internal/config"
	"github.com/rs/zerolog/log"
)

// NewSink builds the sink named by WEIGHT_SINK_TYPE
func NewSink(cfg config.Configs) (Sink, error) {
	sinkType := strings.ToUpper(cfg.WeightSinkType)
	var (
		sink Sink
		err  error
	)
	switch sinkType {
	case "", SinkTypeNone:
		sink = noopSink{}
	case SinkTypeInMemory:
		sink = NewInMemorySink()
	case SinkTypeEtcd:
		sink, err = NewEtcdSink(EtcdConfig{
			Endpoints: ParseEndpoints(cfg.EtcdServer),
			Username:  cfg.EtcdUsername,
			Password:  cfg.EtcdPassword,
			Prefix:    cfg.EtcdWeightsPrefix,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSinkType, cfg.WeightSinkType)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Msgf("dense weight sink %s initialized", sinkType)
	return sink, nil
}
