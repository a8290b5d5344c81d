package metric

import (
	"sync"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	ApiRequestCount   = "api_request_count"
	ApiRequestLatency = "api_request_latency"

	defaultTelegrafAddress = "localhost:8125"
)

var (
	// statsd clients are safe for concurrent use; until Init runs metrics go nowhere
	client       statsd.ClientInterface = &statsd.NoOpClient{}
	samplingRate                        = 1.0
	serviceTag                          = TagAsString(TagService, "")
	mu           sync.RWMutex
	once         sync.Once
)

// Init connects the statsd client to TELEGRAF_ADDRESS, tagging every metric with APP_ENV and
// APP_NAME and sampling at APP_METRIC_SAMPLING_RATE
func Init() {
	once.Do(func() {
		address := defaultTelegrafAddress
		if viper.IsSet("TELEGRAF_ADDRESS") {
			address = viper.GetString("TELEGRAF_ADDRESS")
		}
		rate := 1.0
		if viper.IsSet("APP_METRIC_SAMPLING_RATE") {
			rate = viper.GetFloat64("APP_METRIC_SAMPLING_RATE")
		}
		globalTags := getGlobalTags()
		c, err := statsd.New(address, statsd.WithTags(globalTags))
		if err != nil {
			log.Panic().Err(err).Msg("StatsD client initialization failed")
		}
		SetClient(c, rate, viper.GetString("APP_NAME"))
		log.Info().Msgf("Metrics client initialized with telegraf address - %s, global tags - %v, and "+
			"sampling rate - %f", address, globalTags, rate)
	})
}

// SetClient swaps the statsd client, used by Init and by tests that capture metrics
func SetClient(c statsd.ClientInterface, rate float64, service string) {
	mu.Lock()
	defer mu.Unlock()
	client = c
	samplingRate = rate
	serviceTag = TagAsString(TagService, service)
}

func getGlobalTags() []string {
	env := viper.GetString("APP_ENV")
	if len(env) == 0 {
		log.Warn().Msg("APP_ENV is not set")
	}
	service := viper.GetString("APP_NAME")
	if len(service) == 0 {
		log.Warn().Msg("APP_NAME is not set")
	}
	return []string{
		TagAsString(TagEnv, env),
		TagAsString(TagService, service),
	}
}

// send hands the tagged metric to fn and logs, never returns, client errors
func send(kind, name string, tags []string, fn func(c statsd.ClientInterface, tags []string, rate float64) error) {
	mu.RLock()
	c, rate, service := client, samplingRate, serviceTag
	mu.RUnlock()
	if err := fn(c, append(tags, service), rate); err != nil {
		log.Warn().Err(err).Msgf("Error occurred while doing statsd %s for %s", kind, name)
	}
}

// Timing sends timing information
func Timing(name string, value time.Duration, tags []string) {
	send("timing", name, tags, func(c statsd.ClientInterface, tags []string, rate float64) error {
		return c.Timing(name, value, tags, rate)
	})
}

// Count increases the metric counter by value
func Count(name string, value int64, tags []string) {
	send("count", name, tags, func(c statsd.ClientInterface, tags []string, rate float64) error {
		return c.Count(name, value, tags, rate)
	})
}

// Incr increases the metric counter by 1
func Incr(name string, tags []string) {
	Count(name, 1, tags)
}

func Gauge(name string, value float64, tags []string) {
	send("gauge", name, tags, func(c statsd.ClientInterface, tags []string, rate float64) error {
		return c.Gauge(name, value, tags, rate)
	})
}

// Histogram records a value distribution, such as keys flushed per sync pass
func Histogram(name string, value float64, tags []string) {
	send("histogram", name, tags, func(c statsd.ClientInterface, tags []string, rate float64) error {
		return c.Histogram(name, value, tags, rate)
	})
}
