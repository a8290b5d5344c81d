package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type Cron struct {
	c *cron.Cron
}

// NewCron returns a started robfig/cron scheduler. Intervals below one second are rounded up by cron.
func NewCron() *Cron {
	logger := zerologCronLogger{}
	c := cron.New(cron.WithChain(cron.Recover(logger)), cron.WithLogger(logger))
	c.Start()
	return &Cron{c: c}
}

func (s *Cron) Every(name string, interval time.Duration, job func()) (Task, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	id, err := s.c.AddFunc(fmt.Sprintf("@every %s", interval), job)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	log.Info().Msgf("scheduled %s every %s", name, interval)
	return &cronTask{c: s.c, id: id, name: name}, nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Cron) Stop() {
	<-s.c.Stop().Done()
}

type cronTask struct {
	c    *cron.Cron
	id   cron.EntryID
	name string
}

func (t *cronTask) Cancel() {
	t.c.Remove(t.id)
	log.Info().Msgf("cancelled %s", t.name)
}

// zerologCronLogger routes cron's internal logging to zerolog
type zerologCronLogger struct{}

func (zerologCronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (zerologCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
