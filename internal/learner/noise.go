package learner

import (
	"math/rand"
	"sync"
)

// NoiseSource yields uniform values in [0,1). *rand.Rand satisfies it.
type NoiseSource interface {
	Float64() float64
}

type lockedSource struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewNoiseSource returns a goroutine safe seeded source
func NewNoiseSource(seed int64) NoiseSource {
	return &lockedSource{src: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Float64()
}

// perturbation maps a source draw onto (-0.05, 0.05)
func perturbation(src NoiseSource) float64 {
	return (src.Float64() - 0.5) * 0.1
}
