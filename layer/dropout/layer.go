// Package dropout implements inverted dropout regularization
package dropout

import "math/rand/v2"

import "github.com/pkg/errors"

import "github.com/neurlang/sentiment/layer"
import "github.com/neurlang/sentiment/tensor"

// Kind names the layer in specs and checkpoints.
const Kind = "Dropout"

func init() {
	layer.Register(Kind, func(s layer.Spec) (layer.Layer, error) {
		return New(s.Rate)
	})
}

// Layer zeroes a Rate fraction of its inputs during training and scales the
// kept ones by 1/(1-Rate). Outside of training it is the identity.
type Layer struct {
	rate float64
	rng  *rand.Rand
	mask []float64
}

// MustNew creates a new dropout layer or panics
func MustNew(rate float64) *Layer {
	o, err := New(rate)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new dropout layer dropping the fraction rate of activations.
func New(rate float64) (*Layer, error) {
	if rate < 0 || rate >= 1 {
		return nil, errors.Errorf("dropout: rate %v outside of [0, 1)", rate)
	}
	return &Layer{rate: rate}, nil
}

func (l *Layer) Build(in []int, rng *rand.Rand) ([]int, error) {
	l.rng = rng
	return append([]int(nil), in...), nil
}

func (l *Layer) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	if !training || l.rate == 0 {
		l.mask = l.mask[:0]
		return x
	}
	if cap(l.mask) < len(x.Data) {
		l.mask = make([]float64, len(x.Data))
	}
	l.mask = l.mask[:len(x.Data)]
	scale := 1 / (1 - l.rate)
	out := tensor.New(x.Shape...)
	for i, v := range x.Data {
		if l.rng.Float64() < l.rate {
			l.mask[i] = 0
		} else {
			l.mask[i] = scale
		}
		out.Data[i] = v * l.mask[i]
	}
	return out
}

func (l *Layer) Backward(dy *tensor.Tensor) *tensor.Tensor {
	if len(l.mask) == 0 {
		return dy
	}
	dx := tensor.New(dy.Shape...)
	for i, v := range dy.Data {
		dx.Data[i] = v * l.mask[i]
	}
	return dx
}

func (l *Layer) Params() []*layer.Param {
	return nil
}

func (l *Layer) Spec() layer.Spec {
	return layer.Spec{Kind: Kind, Rate: l.rate}
}
