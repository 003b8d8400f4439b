// Package leakyrelu implements the leaky rectified linear activation layer
package leakyrelu

import "math/rand/v2"

import "github.com/pkg/errors"

import "github.com/neurlang/sentiment/layer"
import "github.com/neurlang/sentiment/tensor"

// Kind names the layer in specs and checkpoints.
const Kind = "LeakyReLU"

func init() {
	layer.Register(Kind, func(s layer.Spec) (layer.Layer, error) {
		return New(s.Alpha)
	})
}

// Layer passes positive values and scales the others by alpha.
type Layer struct {
	alpha float64
	x     *tensor.Tensor
}

// MustNew creates a new leaky relu layer or panics
func MustNew(alpha float64) *Layer {
	o, err := New(alpha)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new leaky relu layer with negative slope alpha.
func New(alpha float64) (*Layer, error) {
	if alpha < 0 {
		return nil, errors.Errorf("leakyrelu: negative slope %v", alpha)
	}
	return &Layer{alpha: alpha}, nil
}

func (l *Layer) Build(in []int, rng *rand.Rand) ([]int, error) {
	return append([]int(nil), in...), nil
}

func (l *Layer) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	l.x = x
	out := tensor.New(x.Shape...)
	for i, v := range x.Data {
		if v > 0 {
			out.Data[i] = v
		} else {
			out.Data[i] = l.alpha * v
		}
	}
	return out
}

func (l *Layer) Backward(dy *tensor.Tensor) *tensor.Tensor {
	dx := tensor.New(dy.Shape...)
	for i, v := range l.x.Data {
		if v > 0 {
			dx.Data[i] = dy.Data[i]
		} else {
			dx.Data[i] = l.alpha * dy.Data[i]
		}
	}
	return dx
}

func (l *Layer) Params() []*layer.Param {
	return nil
}

func (l *Layer) Spec() layer.Spec {
	return layer.Spec{Kind: Kind, Alpha: l.alpha}
}
