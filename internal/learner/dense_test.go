package learner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictStaysInOpenInterval(t *testing.T) {
	d := NewDenseLearner(0.01, 0.9, 1.0)
	for i := range d.weights {
		d.weights[i] = 1e6
	}
	huge := onesFeatures()
	assert.Less(t, d.Predict(&huge), 1.0)
	assert.Greater(t, d.Predict(&huge), 0.0)
	assert.InDelta(t, 1/(1+math.Exp(-10)), d.Predict(&huge), 1e-12)

	for i := range d.weights {
		d.weights[i] = -1e6
	}
	assert.Greater(t, d.Predict(&huge), 0.0)
	assert.InDelta(t, 1/(1+math.Exp(10)), d.Predict(&huge), 1e-12)

	assert.Equal(t, 0.5, d.Predict(&FeatureVector{}))
}

func TestDenseUpdateClipsGradient(t *testing.T) {
	d := NewDenseLearner(0.01, 0.9, 1.0)
	features := onesFeatures()
	scaleFeatures(&features, 100)

	updated := d.Update([]TrainingSample{{Features: features, Engagement: 0, Timestamp: testNow, Weight: 1}}, testNow)
	require.Equal(t, numFeatures, updated)

	momentum := d.Momentum()
	weights := d.Weights()
	for i, name := range FeatureNames {
		assert.InDelta(t, -0.1, momentum[name], 1e-12, name)
		assert.InDelta(t, DefaultWeights[i]-0.001, weights[name], 1e-12, name)
	}
}

func TestDenseMomentumRecurrence(t *testing.T) {
	d := NewDenseLearner(0.01, 0.9, 1.0)
	var expected [numFeatures]float64
	engagements := []float64{1, 0, 1}

	for _, engagement := range engagements {
		features := onesFeatures()
		sample := TrainingSample{Features: features, Engagement: engagement, Timestamp: testNow, Weight: 1}
		gradient := (engagement - d.Predict(&features)) * 1
		gradient = math.Max(-1, math.Min(1, gradient))
		for k := range expected {
			expected[k] = 0.9*expected[k] + 0.1*gradient
		}

		d.Update([]TrainingSample{sample}, testNow)

		momentum := d.Momentum()
		for k, name := range FeatureNames {
			assert.InDelta(t, expected[k], momentum[name], 1e-12, name)
		}
	}
}

func TestDenseUpdateRaisesAllWeightsOnPositiveError(t *testing.T) {
	d := NewDenseLearner(0.01, 0.9, 1.0)
	before := d.Weights()
	features := onesFeatures()
	require.Less(t, d.Predict(&features), 1.0)

	d.Update([]TrainingSample{{Features: features, Engagement: 1.0, Timestamp: testNow, Weight: 1}}, testNow)

	after := d.Weights()
	for _, name := range FeatureNames {
		assert.Greater(t, after[name], before[name], name)
	}
}

func TestDenseUpdateEmptyBatch(t *testing.T) {
	d := NewDenseLearner(0.01, 0.9, 1.0)

	assert.Equal(t, 0, d.Update(nil, testNow))
	assert.Equal(t, toNamed(DefaultWeights), d.Weights())
}

func TestDenseWeightsAreCopies(t *testing.T) {
	d := NewDenseLearner(0.01, 0.9, 1.0)
	w := d.Weights()
	w[UserEngagementRate] = 42

	assert.Equal(t, DefaultWeights[0], d.Weights()[UserEngagementRate])
}

func scaleFeatures(f *FeatureVector, factor float64) {
	f.UserEngagementRate *= factor
	f.ContentLengthNormalized *= factor
	f.ContentAgeHours *= factor
	f.SocialProofScore *= factor
	f.AuthorUserAffinity *= factor
	f.TopicSimilarityScore *= factor
	f.TemporalMatchScore *= factor
	f.CommunitySizeFactor *= factor
	f.PersonalizationStrength *= factor
	f.DiscoveryBoost *= factor
}
