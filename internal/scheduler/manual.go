package scheduler

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Manual is a virtual-time Scheduler. Jobs only fire when Advance moves the clock past their due time.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	tasks  map[int]*manualTask
	closed bool
}

type manualTask struct {
	s        *Manual
	id       int
	name     string
	interval time.Duration
	next     time.Duration
	job      func()
}

func NewManual() *Manual {
	return &Manual{tasks: make(map[int]*manualTask)}
}

func (s *Manual) Every(name string, interval time.Duration, job func()) (Task, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTask{s: s, id: s.seq, name: name, interval: interval, next: s.now + interval, job: job}
	if !s.closed {
		s.tasks[t.id] = t
	}
	return t, nil
}

// Advance moves virtual time forward by d, running every due job in due-time order on the
// calling goroutine. It returns the number of runs per job name.
func (s *Manual) Advance(d time.Duration) map[string]int {
	fired := make(map[string]int)
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		t := s.nextDue(target)
		if t == nil {
			s.now = target
			s.mu.Unlock()
			return fired
		}
		s.now = t.next
		t.next += t.interval
		name, job := t.name, t.job
		s.mu.Unlock()

		runRecovered(name, job)
		fired[name]++
	}
}

// Pending returns the names of the registered jobs
func (s *Manual) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tasks))
	for _, t := range s.tasks {
		names = append(names, t.name)
	}
	sort.Strings(names)
	return names
}

func (s *Manual) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.tasks = make(map[int]*manualTask)
}

// nextDue returns the earliest job due at or before target, ties broken by registration order
func (s *Manual) nextDue(target time.Duration) *manualTask {
	var due *manualTask
	for _, t := range s.tasks {
		if t.next > target {
			continue
		}
		if due == nil || t.next < due.next || (t.next == due.next && t.id < due.id) {
			due = t
		}
	}
	return due
}

func (t *manualTask) Cancel() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.tasks, t.id)
}

func runRecovered(name string, job func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("scheduled job %s panicked: %v", name, r)
		}
	}()
	job()
}
