// Package full implements a fully connected layer with an optional softmax
package full

import "math"
import "math/rand/v2"

import "github.com/pkg/errors"

import "github.com/neurlang/sentiment/layer"
import "github.com/neurlang/sentiment/tensor"

// Kind names the layer in specs and checkpoints.
const Kind = "Dense"

// Activations applied to the output of the layer.
const (
	Linear  = "linear"
	Softmax = "softmax"
)

func init() {
	layer.Register(Kind, func(s layer.Spec) (layer.Layer, error) {
		return New(s.Units, s.Activation)
	})
}

// FullLayer computes activation(x * kernel + bias) over vector samples.
type FullLayer struct {
	units      int
	activation string
	inputs     int

	kernel, bias *layer.Param

	x, y *tensor.Tensor
}

// MustNew creates a new full layer or panics
func MustNew(units int, activation string) *FullLayer {
	o, err := New(units, activation)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new full layer with units outputs. An empty activation means linear.
func New(units int, activation string) (o *FullLayer, err error) {
	if units <= 0 {
		return nil, errors.Errorf("full: invalid number of units %d", units)
	}
	if activation == "" {
		activation = Linear
	}
	if activation != Linear && activation != Softmax {
		return nil, errors.Errorf("full: unknown activation %q", activation)
	}
	return &FullLayer{units: units, activation: activation}, nil
}

func (l *FullLayer) Build(in []int, rng *rand.Rand) ([]int, error) {
	if len(in) != 1 || in[0] <= 0 {
		return nil, errors.Errorf("full: want vector samples, got %v", in)
	}
	l.inputs = in[0]
	l.kernel = layer.NewParam("kernel", l.inputs, l.units)
	limit := math.Sqrt(6 / float64(l.inputs+l.units))
	for i := range l.kernel.Value.Data {
		l.kernel.Value.Data[i] = (rng.Float64()*2 - 1) * limit
	}
	l.bias = layer.NewParam("bias", l.units)
	return []int{l.units}, nil
}

func (l *FullLayer) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	b := x.Rows()
	y := tensor.New(b, l.units)
	tensor.MatMul(false, false, 1, tensor.Dense(x.Data, b, l.inputs), tensor.Dense(l.kernel.Value.Data, l.inputs, l.units), 0, tensor.Dense(y.Data, b, l.units))
	for n := 0; n < b; n++ {
		row := y.Row(n)
		for j := range row {
			row[j] += l.bias.Value.Data[j]
		}
		if l.activation == Softmax {
			softmax(row)
		}
	}
	l.x, l.y = x, y
	return y
}

func softmax(row []float64) {
	max := math.Inf(-1)
	for _, v := range row {
		if v > max {
			max = v
		}
	}
	var sum float64
	for j, v := range row {
		row[j] = math.Exp(v - max)
		sum += row[j]
	}
	for j := range row {
		row[j] /= sum
	}
}

func (l *FullLayer) Backward(dy *tensor.Tensor) *tensor.Tensor {
	b := l.x.Rows()
	dz := dy
	if l.activation == Softmax {
		dz = tensor.New(dy.Shape...)
		for n := 0; n < b; n++ {
			p, g, out := l.y.Row(n), dy.Row(n), dz.Row(n)
			var dot float64
			for j := range p {
				dot += p[j] * g[j]
			}
			for j := range p {
				out[j] = p[j] * (g[j] - dot)
			}
		}
	}
	dzm := tensor.Dense(dz.Data, b, l.units)
	tensor.MatMul(true, false, 1, tensor.Dense(l.x.Data, b, l.inputs), dzm, 1, tensor.Dense(l.kernel.Grad.Data, l.inputs, l.units))
	for n := 0; n < b; n++ {
		for j, v := range dz.Row(n) {
			l.bias.Grad.Data[j] += v
		}
	}
	dx := tensor.New(l.x.Shape...)
	tensor.MatMul(false, true, 1, dzm, tensor.Dense(l.kernel.Value.Data, l.inputs, l.units), 0, tensor.Dense(dx.Data, b, l.inputs))
	return dx
}

func (l *FullLayer) Params() []*layer.Param {
	return []*layer.Param{l.kernel, l.bias}
}

func (l *FullLayer) Spec() layer.Spec {
	return layer.Spec{Kind: Kind, Units: l.units, Activation: l.activation}
}
