package learner

import (
	"math"
	"sync"
	"time"
)

const sigmoidClamp = 10.0

// DefaultWeights are the initial dense weights, in FeatureNames order
var DefaultWeights = [numFeatures]float64{0.3, 0.05, -0.1, 0.25, 0.35, 0.3, 0.1, 0.05, 0.2, 0.1}

// DenseLearner is a logistic linear model over FeatureNames trained with momentum
// gradient descent and gradient clipping
type DenseLearner struct {
	mu               sync.RWMutex
	weights          [numFeatures]float64
	momentum         [numFeatures]float64
	learningRate     float64
	momentumDecay    float64
	gradientClipping float64
}

func NewDenseLearner(learningRate, momentumDecay, gradientClipping float64) *DenseLearner {
	return &DenseLearner{
		weights:          DefaultWeights,
		learningRate:     learningRate,
		momentumDecay:    momentumDecay,
		gradientClipping: gradientClipping,
	}
}

func sigmoid(x float64) float64 {
	x = math.Max(-sigmoidClamp, math.Min(sigmoidClamp, x))
	return 1 / (1 + math.Exp(-x))
}

// Predict returns the predicted engagement in (0,1)
func (d *DenseLearner) Predict(features *FeatureVector) float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.predictLocked(features)
}

func (d *DenseLearner) predictLocked(features *FeatureVector) float64 {
	values := features.values()
	sum := 0.0
	for i, w := range d.weights {
		sum += w * values[i]
	}
	return sigmoid(sum)
}

// Update runs one mini-batch step over samples, weighting each error by the sample weight at now.
// Every prediction uses the weights from the start of the batch. It returns the number of
// weights updated, zero for an empty batch.
func (d *DenseLearner) Update(samples []TrainingSample, now time.Time) int {
	if len(samples) == 0 {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var gradients [numFeatures]float64
	for i := range samples {
		sample := &samples[i]
		weightedError := (sample.Engagement - d.predictLocked(&sample.Features)) * sample.WeightAt(now)
		values := sample.Features.values()
		for k := range gradients {
			gradients[k] += weightedError * values[k]
		}
	}

	n := float64(len(samples))
	for k := range gradients {
		avg := gradients[k] / n
		clipped := math.Max(-d.gradientClipping, math.Min(d.gradientClipping, avg))
		d.momentum[k] = d.momentumDecay*d.momentum[k] + (1-d.momentumDecay)*clipped
		d.weights[k] += d.learningRate * d.momentum[k]
	}
	return numFeatures
}

// Weights returns a copy of the weights keyed by feature name
func (d *DenseLearner) Weights() map[string]float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return toNamed(d.weights)
}

// Momentum returns a copy of the momentum accumulators keyed by feature name
func (d *DenseLearner) Momentum() map[string]float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return toNamed(d.momentum)
}

func toNamed(values [numFeatures]float64) map[string]float64 {
	out := make(map[string]float64, numFeatures)
	for i, name := range FeatureNames {
		out[name] = values[i]
	}
	return out
}
