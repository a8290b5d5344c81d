package scheduler

import (
	"errors"
	"time"
)

var ErrInvalidInterval = errors.New("scheduler interval must be positive")

// Task is a handle to a registered periodic job
type Task interface {
	Cancel()
}

// Scheduler runs named jobs on a fixed interval. A panicking job is recovered and logged,
// and its next tick still fires.
type Scheduler interface {
	Every(name string, interval time.Duration, job func()) (Task, error)
	Stop()
}
