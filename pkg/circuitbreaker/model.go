package circuitbreaker

// Config defines the thresholds of a circuit breaker.
type Config struct {
	// Enabled determines whether the circuit breaker is active. A disabled breaker passes every call through.
	Enabled bool

	// Name identifies the breaker in logs and metrics.
	Name string

	// FailureRateThreshold is the failure percentage (1 to 100) within FailureRateWindowInMs that opens the circuit,
	// once at least FailureRateMinimumWindow executions have been recorded.
	FailureRateThreshold     int
	FailureRateMinimumWindow int
	FailureRateWindowInMs    int

	// SuccessCountThreshold out of SuccessCountWindow trial executions close a half-open circuit.
	SuccessCountThreshold int
	SuccessCountWindow    int

	// WithDelayInMS is how long the circuit stays open before moving to half-open.
	WithDelayInMS int
}

// DefaultConfig returns a breaker that opens at 50% failures over 10s with at least 20 calls.
func DefaultConfig(name string) *Config {
	return &Config{
		Enabled:                  true,
		Name:                     name,
		FailureRateThreshold:     50,
		FailureRateMinimumWindow: 20,
		FailureRateWindowInMs:    10000,
		SuccessCountThreshold:    5,
		SuccessCountWindow:       10,
		WithDelayInMS:            5000,
	}
}
