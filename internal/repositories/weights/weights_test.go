package weights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Meesho/BharatMLStack/online-learner/internal/config"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clientv3 "go.etcd.io/etcd/client/v3"
)

type fakeKV struct {
	clientv3.KV
	puts map[string]string
	err  error
}

func (f *fakeKV) Put(_ context.Context, key, val string, _ ...clientv3.OpOption) (*clientv3.PutResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts[key] = val
	return &clientv3.PutResponse{}, nil
}

func sampleWeights() DenseWeights {
	return DenseWeights{
		Weights:   map[string]float64{"discovery_boost": 0.1},
		Momentum:  map[string]float64{"discovery_boost": 0.02},
		UpdatedAt: time.Unix(1700000000, 0).UTC(),
	}
}

func TestEtcdSinkPublish(t *testing.T) {
	kv := &fakeKV{puts: map[string]string{}}
	sink := newEtcdSink(kv, "/online-learner/", time.Second)

	require.NoError(t, sink.Publish(context.Background(), sampleWeights()))
	raw, ok := kv.puts["/online-learner/dense-weights"]
	require.True(t, ok)

	var got DenseWeights
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, sampleWeights(), got)
	assert.NoError(t, sink.Close())
}

func TestEtcdSinkPublishError(t *testing.T) {
	kv := &fakeKV{puts: map[string]string{}, err: errors.New("etcdserver: request timed out")}
	sink := newEtcdSink(kv, "/p", time.Second)

	err := sink.Publish(context.Background(), sampleWeights())
	assert.ErrorContains(t, err, "/p/dense-weights")
}

func TestNewEtcdSinkRequiresEndpoints(t *testing.T) {
	_, err := NewEtcdSink(EtcdConfig{})
	assert.Error(t, err)
}

func TestInMemorySinkCopies(t *testing.T) {
	sink := NewInMemorySink()
	_, ok := sink.Last()
	assert.False(t, ok)

	w := sampleWeights()
	require.NoError(t, sink.Publish(context.Background(), w))
	w.Weights["discovery_boost"] = 99

	last, ok := sink.Last()
	require.True(t, ok)
	assert.Equal(t, 0.1, last.Weights["discovery_boost"])
	assert.Equal(t, 1, sink.PublishedCount())
}

func TestNewSink(t *testing.T) {
	sink, err := NewSink(config.Configs{})
	require.NoError(t, err)
	assert.IsType(t, noopSink{}, sink)

	sink, err = NewSink(config.Configs{WeightSinkType: "in_memory"})
	require.NoError(t, err)
	assert.IsType(t, &InMemorySink{}, sink)

	_, err = NewSink(config.Configs{WeightSinkType: "ZOOKEEPER"})
	assert.ErrorIs(t, err, ErrUnknownSinkType)
}

func TestParseEndpoints(t *testing.T) {
	assert.Equal(t, []string{"http://a:2379", "http://b:2379"}, ParseEndpoints(" http://a:2379, ,http://b:2379"))
}
