// Package flatten implements the layer collapsing samples into vectors
package flatten

import "math/rand/v2"

import "github.com/pkg/errors"

import "github.com/neurlang/sentiment/layer"
import "github.com/neurlang/sentiment/tensor"

// Kind names the layer in specs and checkpoints.
const Kind = "Flatten"

func init() {
	layer.Register(Kind, func(layer.Spec) (layer.Layer, error) {
		return New(), nil
	})
}

// Layer reshapes (batch, d1, d2, ...) into (batch, d1*d2*...).
type Layer struct {
	shape []int
}

// New creates a new flatten layer
func New() *Layer {
	return new(Layer)
}

func (l *Layer) Build(in []int, rng *rand.Rand) ([]int, error) {
	if len(in) == 0 {
		return nil, errors.New("flatten: scalar samples")
	}
	return []int{tensor.Volume(in)}, nil
}

func (l *Layer) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	l.shape = append(l.shape[:0], x.Shape...)
	return x.Reshape(x.Rows(), x.RowSize())
}

func (l *Layer) Backward(dy *tensor.Tensor) *tensor.Tensor {
	return dy.Reshape(l.shape...)
}

func (l *Layer) Params() []*layer.Param {
	return nil
}

func (l *Layer) Spec() layer.Spec {
	return layer.Spec{Kind: Kind}
}
