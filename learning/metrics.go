package learning

import "math"

import "github.com/pkg/errors"

import "github.com/neurlang/sentiment/tensor"

// Metric is a batch statistic reported during training.
type Metric interface {
	Name() string
	Compute(pred, target *tensor.Tensor) float64
}

// BinaryAccuracy is the share of output entries which round to their target.
type BinaryAccuracy struct{}

func (BinaryAccuracy) Name() string {
	return "binary_accuracy"
}

func (BinaryAccuracy) Compute(pred, target *tensor.Tensor) float64 {
	if len(pred.Data) == 0 {
		return 0
	}
	var hit int
	for i, p := range pred.Data {
		if math.RoundToEven(p) == target.Data[i] {
			hit++
		}
	}
	return float64(hit) / float64(len(pred.Data))
}

// CategoricalAccuracy is the share of samples whose most probable class is
// the target class.
type CategoricalAccuracy struct{}

func (CategoricalAccuracy) Name() string {
	return "categorical_accuracy"
}

func (CategoricalAccuracy) Compute(pred, target *tensor.Tensor) float64 {
	rows := pred.Rows()
	if rows == 0 {
		return 0
	}
	var hit int
	for n := 0; n < rows; n++ {
		if Argmax(pred.Row(n)) == Argmax(target.Row(n)) {
			hit++
		}
	}
	return float64(hit) / float64(rows)
}

// CrossentropyMetric reports the categorical cross-entropy as a metric.
type CrossentropyMetric struct{}

func (CrossentropyMetric) Name() string {
	return CategoricalCrossentropy{}.Name()
}

func (CrossentropyMetric) Compute(pred, target *tensor.Tensor) float64 {
	return CategoricalCrossentropy{}.Loss(pred, target)
}

// Argmax is the index of the first largest value.
func Argmax(row []float64) int {
	best := 0
	for i, v := range row {
		if v > row[best] {
			best = i
		}
	}
	return best
}

// MetricByName resolves the metric names stored in checkpoints.
func MetricByName(name string) (Metric, error) {
	for _, m := range []Metric{BinaryAccuracy{}, CategoricalAccuracy{}, CrossentropyMetric{}} {
		if m.Name() == name {
			return m, nil
		}
	}
	return nil, errors.Errorf("unknown metric %q", name)
}

// MetricNames lists the names of the given metrics.
func MetricNames(metrics []Metric) []string {
	out := make([]string, len(metrics))
	for i, m := range metrics {
		out[i] = m.Name()
	}
	return out
}
