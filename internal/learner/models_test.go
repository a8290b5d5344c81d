package learner

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEngagementScore(t *testing.T) {
	tests := []struct {
		engagementType string
		score          float64
		highValue      bool
	}{
		{"view", 0.1, false},
		{"reaction", 0.3, false},
		{"reply", 0.6, true},
		{"renote", 0.7, true},
		{"follow", 0.8, true},
		{"bookmark", 0.5, true},
		{" Follow ", 0.8, true},
		{"RENOTE", 0.7, true},
		{"share", 0.1, false},
		{"", 0.1, false},
	}
	for _, tt := range tests {
		t.Run(tt.engagementType, func(t *testing.T) {
			assert.Equal(t, tt.score, EngagementScore(tt.engagementType))
			assert.Equal(t, tt.highValue, IsHighValue(tt.engagementType))
		})
	}
}

func TestTrainingSampleWeightAt(t *testing.T) {
	sample := TrainingSample{Engagement: 0.7, Timestamp: testNow, Weight: 1.7}

	assert.InDelta(t, 1.7, sample.WeightAt(testNow), 1e-12)
	assert.InDelta(t, 1.7/math.E, sample.WeightAt(testNow.Add(time.Hour)), 1e-12)
	assert.InDelta(t, 1.7, sample.WeightAt(testNow.Add(-time.Minute)), 1e-12, "future samples are not boosted")
}

func TestTrainingBufferEvictsOldestFirst(t *testing.T) {
	b := newTrainingBuffer(3)
	for i := 0; i < 5; i++ {
		evicted := b.add(TrainingSample{Engagement: float64(i)})
		assert.LessOrEqual(t, b.len(), 3)
		if i < 3 {
			assert.Equal(t, 0, evicted)
		} else {
			assert.Equal(t, 1, evicted)
		}
	}

	got := b.snapshot()
	assert.Len(t, got, 3)
	for i, sample := range got {
		assert.Equal(t, float64(i+2), sample.Engagement)
	}

	b.clear()
	assert.Equal(t, 0, b.len())
}

func TestEntityRefsSkipEmptyIds(t *testing.T) {
	refs := entityRefs(&FeatureVector{AuthorID: "a1", ContentTopics: []string{"sports", "", "music"}})

	assert.Equal(t, []entityRef{
		{EntityTypeAuthor, "a1", 0.1},
		{EntityTypeTopic, "sports", 0.05},
		{EntityTypeTopic, "music", 0.05},
	}, refs)
}

func TestTouchedKeys(t *testing.T) {
	touched := newTouchedKeys()
	features := followFeatures("u1", "a1", "sports")
	touched.touch(&features)
	touched.touch(&features)

	assert.Equal(t, []string{"user:u1", "author:a1", "topic:sports"}, touched.keys())

	touched.removeAll([]string{"author:a1"})
	assert.Equal(t, []string{"user:u1", "topic:sports"}, touched.keys())

	touched.clear()
	assert.Empty(t, touched.keys())
}

func TestPerturbationRange(t *testing.T) {
	assert.InDelta(t, -0.05, perturbation(fixedNoise(0)), 1e-12)
	assert.InDelta(t, 0.04, perturbation(fixedNoise(0.9)), 1e-12)

	src := NewNoiseSource(7)
	for i := 0; i < 1000; i++ {
		p := perturbation(src)
		assert.GreaterOrEqual(t, p, -0.05)
		assert.Less(t, p, 0.05)
	}
}
