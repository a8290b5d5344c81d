package weights

import (
	"context"
	"errors"
	"time"
)

const (
	SinkTypeEtcd     = "ETCD"
	SinkTypeInMemory = "IN_MEMORY"
	SinkTypeNone     = "NONE"
)

var ErrUnknownSinkType = errors.New("unknown weight sink type")

// DenseWeights is the published state of the dense model after a sync pass
type DenseWeights struct {
	Weights   map[string]float64 `json:"weights"`
	Momentum  map[string]float64 `json:"momentum"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Sink receives the dense model after every sync pass that ran a dense update
type Sink interface {
	Publish(ctx context.Context, weights DenseWeights) error
}
