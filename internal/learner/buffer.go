package learner

// trainingBuffer is a bounded FIFO of samples. It is not safe for concurrent use,
// the engine guards it with the buffer lock.
type trainingBuffer struct {
	samples []TrainingSample
	max     int
}

func newTrainingBuffer(max int) *trainingBuffer {
	return &trainingBuffer{samples: make([]TrainingSample, 0, max), max: max}
}

// add appends the sample and evicts from the front past capacity, returning the eviction count
func (b *trainingBuffer) add(sample TrainingSample) int {
	b.samples = append(b.samples, sample)
	evicted := len(b.samples) - b.max
	if evicted <= 0 {
		return 0
	}
	copy(b.samples, b.samples[evicted:])
	clear(b.samples[len(b.samples)-evicted:])
	b.samples = b.samples[:len(b.samples)-evicted]
	return evicted
}

func (b *trainingBuffer) snapshot() []TrainingSample {
	out := make([]TrainingSample, len(b.samples))
	copy(out, b.samples)
	return out
}

func (b *trainingBuffer) len() int {
	return len(b.samples)
}

func (b *trainingBuffer) clear() {
	clear(b.samples)
	b.samples = b.samples[:0]
}
