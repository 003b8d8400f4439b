package learning

import "math"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/sentiment/layer"
import "github.com/neurlang/sentiment/tensor"

func TestCrossentropy(t *testing.T) {
	pred := tensor.FromData([]float64{0.9, 0.1, 0.2, 0.8}, 2, 2)
	target := tensor.FromData([]float64{1, 0, 0, 1}, 2, 2)
	var l CategoricalCrossentropy
	want := -(math.Log(0.9) + math.Log(0.8)) / 2
	assert.InDelta(t, want, l.Loss(pred, target), 1e-12)

	g := l.Gradient(pred, target)
	assert.InDeltaSlice(t, []float64{-1 / 0.9 / 2, 0, 0, -1 / 0.8 / 2}, g.Data, 1e-12)

	// a certain wrong prediction is bounded by the clipping
	bad := tensor.FromData([]float64{0, 1}, 1, 2)
	assert.InDelta(t, -math.Log(Epsilon), l.Loss(bad, tensor.FromData([]float64{1, 0}, 1, 2)), 1e-9)
}

func TestMetrics(t *testing.T) {
	pred := tensor.FromData([]float64{0.9, 0.1, 0.6, 0.4, 0.3, 0.7}, 3, 2)
	target := tensor.FromData([]float64{1, 0, 0, 1, 0, 1}, 3, 2)
	assert.InDelta(t, 4.0/6, BinaryAccuracy{}.Compute(pred, target), 1e-12)
	assert.InDelta(t, 2.0/3, CategoricalAccuracy{}.Compute(pred, target), 1e-12)
	assert.InDelta(t, CategoricalCrossentropy{}.Loss(pred, target), CrossentropyMetric{}.Compute(pred, target), 1e-12)
	assert.Equal(t, 0, Argmax([]float64{0.5, 0.5}))
}

func TestMetricByName(t *testing.T) {
	for _, name := range []string{"binary_accuracy", "categorical_crossentropy", "categorical_accuracy"} {
		m, err := MetricByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.Name())
	}
	_, err := MetricByName("auc")
	assert.Error(t, err)
}

func TestAdamFirstStep(t *testing.T) {
	p := layer.NewParam("w", 3)
	copy(p.Value.Data, []float64{1, 2, 3})
	copy(p.Grad.Data, []float64{0.5, -2, 0})
	a := NewAdam(DefaultHyperParameters())
	a.Step([]*layer.Param{p})
	// the first bias corrected step moves by the learning rate in the gradient sign
	assert.InDelta(t, 1-0.001, p.Value.Data[0], 1e-6)
	assert.InDelta(t, 2+0.001, p.Value.Data[1], 1e-6)
	assert.Equal(t, 3.0, p.Value.Data[2])
	assert.Equal(t, 1, a.Iterations())
}

func TestAdamMinimizesQuadratic(t *testing.T) {
	p := layer.NewParam("w", 1)
	p.Value.Data[0] = 5
	h := DefaultHyperParameters()
	h.LearningRate = 0.1
	a := NewAdam(h)
	for i := 0; i < 500; i++ {
		p.Grad.Data[0] = 2 * (p.Value.Data[0] - 1)
		a.Step([]*layer.Param{p})
	}
	assert.InDelta(t, 1, p.Value.Data[0], 0.05)
}
