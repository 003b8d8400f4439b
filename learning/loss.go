package learning

import "math"

import "github.com/pkg/errors"

import "github.com/neurlang/sentiment/tensor"

// Epsilon bounds predicted probabilities away from 0 and 1 inside the loss.
const Epsilon = 1e-7

// Loss scores a batch of predictions against targets.
type Loss interface {

	// Name identifies the loss in logs and checkpoints.
	Name() string

	// Loss is the mean loss over the batch.
	Loss(pred, target *tensor.Tensor) float64

	// Gradient is the derivative of Loss with respect to pred.
	Gradient(pred, target *tensor.Tensor) *tensor.Tensor
}

// CategoricalCrossentropy is the cross-entropy between one-hot targets and
// predicted class probabilities.
type CategoricalCrossentropy struct{}

func (CategoricalCrossentropy) Name() string {
	return "categorical_crossentropy"
}

func clip(p float64) float64 {
	return math.Min(math.Max(p, Epsilon), 1-Epsilon)
}

func (CategoricalCrossentropy) Loss(pred, target *tensor.Tensor) float64 {
	if pred.Rows() == 0 {
		return 0
	}
	var sum float64
	for i, t := range target.Data {
		if t != 0 {
			sum -= t * math.Log(clip(pred.Data[i]))
		}
	}
	return sum / float64(pred.Rows())
}

func (CategoricalCrossentropy) Gradient(pred, target *tensor.Tensor) *tensor.Tensor {
	g := tensor.New(pred.Shape...)
	n := float64(pred.Rows())
	for i, t := range target.Data {
		if t != 0 {
			g.Data[i] = -t / clip(pred.Data[i]) / n
		}
	}
	return g
}

// LossByName finds a loss by the name it reports.
func LossByName(name string) (Loss, error) {
	switch name {
	case CategoricalCrossentropy{}.Name():
		return CategoricalCrossentropy{}, nil
	}
	return nil, errors.Errorf("unknown loss %q", name)
}
