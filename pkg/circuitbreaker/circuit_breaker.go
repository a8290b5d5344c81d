package circuitbreaker

import (
	"time"

	"github.com/Meesho/BharatMLStack/online-learner/pkg/metric"
	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/rs/zerolog/log"
)

// CircuitBreaker guards calls to an unreliable dependency
type CircuitBreaker interface {
	Execute(task func() error) error
	IsOpen() bool
}

// New returns a failsafe backed breaker, or a pass-through one when config is nil or disabled
func New(config *Config) CircuitBreaker {
	if config == nil || !config.Enabled {
		return &passThroughBreaker{}
	}
	return newFailSafe(config)
}

type failSafeCB struct {
	cb circuitbreaker.CircuitBreaker[any]
}

func newFailSafe(config *Config) *failSafeCB {
	cb := circuitbreaker.Builder[any]().
		WithFailureRateThreshold(uint(config.FailureRateThreshold), uint(config.FailureRateMinimumWindow), time.Duration(config.FailureRateWindowInMs)*time.Millisecond).
		WithSuccessThresholdRatio(uint(config.SuccessCountThreshold), uint(config.SuccessCountWindow)).
		WithDelay(time.Duration(config.WithDelayInMS) * time.Millisecond).
		OnStateChanged(func(event circuitbreaker.StateChangedEvent) {
			log.Warn().Msgf("circuit breaker %s changed state from %s to %s", config.Name, event.OldState, event.NewState)
			metric.Incr("circuit_breaker_state_changed", metric.BuildTag(
				metric.NewTag("name", config.Name),
				metric.NewTag("from", event.OldState.String()),
				metric.NewTag("to", event.NewState.String()),
			))
		}).
		Build()
	return &failSafeCB{cb: cb}
}

func (f *failSafeCB) Execute(task func() error) error {
	return failsafe.Run(task, f.cb)
}

func (f *failSafeCB) IsOpen() bool {
	return f.cb.IsOpen()
}

type passThroughBreaker struct{}

func (p *passThroughBreaker) Execute(task func() error) error {
	return task()
}

func (p *passThroughBreaker) IsOpen() bool {
	return false
}
