package weights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const (
	weightsKey         = "dense-weights"
	defaultEtcdTimeout = 5 * time.Second
)

type EtcdConfig struct {
	Endpoints []string
	Username  string
	Password  string
	Prefix    string
	Timeout   time.Duration
}

// EtcdSink writes the dense weights as JSON under <prefix>/dense-weights so that
// serving nodes can watch the key for model refreshes
type EtcdSink struct {
	kv      clientv3.KV
	closer  func() error
	key     string
	timeout time.Duration
}

func NewEtcdSink(cfg EtcdConfig) (*EtcdSink, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("at least one ETCD_SERVER endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultEtcdTimeout
	}
	client, err := clientv3.New(clientv3.Config{
		Endpoints:           cfg.Endpoints,
		Username:            cfg.Username,
		Password:            cfg.Password,
		DialTimeout:         timeout,
		DialKeepAliveTime:   timeout,
		PermitWithoutStream: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating etcd client: %w", err)
	}
	sink := newEtcdSink(client, cfg.Prefix, timeout)
	sink.closer = client.Close
	return sink, nil
}

func newEtcdSink(kv clientv3.KV, prefix string, timeout time.Duration) *EtcdSink {
	return &EtcdSink{kv: kv, key: weightsPath(prefix), timeout: timeout}
}

func weightsPath(prefix string) string {
	return strings.TrimRight(prefix, "/") + "/" + weightsKey
}

func (s *EtcdSink) Publish(ctx context.Context, weights DenseWeights) error {
	payload, err := json.Marshal(weights)
	if err != nil {
		return fmt.Errorf("error marshalling dense weights: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.kv.Put(ctx, s.key, string(payload)); err != nil {
		return fmt.Errorf("error writing dense weights to etcd key %s: %w", s.key, err)
	}
	return nil
}

func (s *EtcdSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// ParseEndpoints splits a comma separated endpoint list
func ParseEndpoints(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
