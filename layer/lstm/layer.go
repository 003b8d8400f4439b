// Package lstm implements a long short-term memory recurrent layer.
//
// Weights are laid out with the gates side by side in the order input,
// forget, cell, output: the kernel is (features, 4*units), the recurrent
// kernel (units, 4*units) and the bias (4*units).
package lstm

import "math"
import "math/rand/v2"

import "github.com/pkg/errors"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/sentiment/layer"
import "github.com/neurlang/sentiment/tensor"

// Kind names the layer in specs and checkpoints.
const Kind = "LSTM"

func init() {
	layer.Register(Kind, func(s layer.Spec) (layer.Layer, error) {
		return New(s.Units, s.ReturnSequences)
	})
}

// Layer is an LSTM over (batch, steps, features) inputs.
type Layer struct {
	units           int
	returnSequences bool

	features, steps int

	kernel, recurrent, bias *layer.Param

	// forward pass state kept for Backward
	x     *tensor.Tensor
	gates []float64 // activated gates, (batch*steps, 4*units)
	cells []float64 // cell states, (batch*steps, units)
	hs    []float64 // hidden states, (batch*steps, units)
}

// MustNew creates a new LSTM layer or panics
func MustNew(units int, returnSequences bool) *Layer {
	o, err := New(units, returnSequences)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new LSTM layer with the given number of units. With
// returnSequences the hidden state of every step is returned, otherwise
// only the last one.
func New(units int, returnSequences bool) (*Layer, error) {
	if units <= 0 {
		return nil, errors.Errorf("lstm: invalid number of units %d", units)
	}
	return &Layer{units: units, returnSequences: returnSequences}, nil
}

func (l *Layer) Build(in []int, rng *rand.Rand) ([]int, error) {
	if len(in) != 2 || in[0] <= 0 || in[1] <= 0 {
		return nil, errors.Errorf("lstm: want (steps, features) samples, got %v", in)
	}
	l.steps, l.features = in[0], in[1]
	g := 4 * l.units

	l.kernel = layer.NewParam("kernel", l.features, g)
	glorotUniform(l.kernel.Value.Data, l.features, g, rng)

	l.recurrent = layer.NewParam("recurrent_kernel", l.units, g)
	copy(l.recurrent.Value.Data, orthogonal(l.units, g, rng))

	l.bias = layer.NewParam("bias", g)
	for j := l.units; j < 2*l.units; j++ {
		l.bias.Value.Data[j] = 1 // forget gate
	}

	if l.returnSequences {
		return []int{l.steps, l.units}, nil
	}
	return []int{l.units}, nil
}

func glorotUniform(w []float64, fanIn, fanOut int, rng *rand.Rand) {
	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	for i := range w {
		w[i] = (rng.Float64()*2 - 1) * limit
	}
}

// orthogonal returns a rows x cols matrix with orthonormal rows (or columns,
// whichever are fewer), from the QR decomposition of a gaussian matrix.
func orthogonal(rows, cols int, rng *rand.Rand) []float64 {
	m, n := rows, cols
	if m < n {
		m, n = n, m
	}
	a := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, rng.NormFloat64())
		}
	}
	var qr mat.QR
	qr.Factorize(a)
	var q, r mat.Dense
	qr.QTo(&q)
	qr.RTo(&r)

	// thin q is (m, n), make the decomposition unique by the signs of diag(r)
	out := make([]float64, rows*cols)
	for i := 0; i < m; i++ {
		for k := 0; k < n; k++ {
			v := q.At(i, k)
			if r.At(k, k) < 0 {
				v = -v
			}
			if rows >= cols {
				out[i*cols+k] = v
			} else {
				out[k*cols+i] = v
			}
		}
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func (l *Layer) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	b, t, u := x.Rows(), l.steps, l.units
	g := 4 * u

	l.x = x
	l.gates = resize(l.gates, b*t*g)
	l.cells = resize(l.cells, b*t*u)
	l.hs = resize(l.hs, b*t*u)
	z, c, h := l.gates, l.cells, l.hs

	// input projections of all steps at once
	tensor.MatMul(false, false, 1, tensor.Dense(x.Data, b*t, l.features), tensor.Dense(l.kernel.Value.Data, l.features, g), 0, tensor.Dense(z, b*t, g))
	bias := l.bias.Value.Data
	for row := 0; row < b*t; row++ {
		zr := z[row*g : (row+1)*g]
		for j := range zr {
			zr[j] += bias[j]
		}
	}

	u4 := tensor.Dense(l.recurrent.Value.Data, u, g)
	for s := 0; s < t; s++ {
		if s > 0 {
			tensor.MatMul(false, false, 1, tensor.View(h[(s-1)*u:], b, u, t*u), u4, 1, tensor.View(z[s*g:], b, g, t*g))
		}
		for n := 0; n < b; n++ {
			row := n*t + s
			zr := z[row*g : (row+1)*g]
			cr := c[row*u : (row+1)*u]
			hr := h[row*u : (row+1)*u]
			for j := 0; j < u; j++ {
				i := sigmoid(zr[j])
				f := sigmoid(zr[u+j])
				cc := math.Tanh(zr[2*u+j])
				o := sigmoid(zr[3*u+j])
				zr[j], zr[u+j], zr[2*u+j], zr[3*u+j] = i, f, cc, o

				var prev float64
				if s > 0 {
					prev = c[(row-1)*u+j]
				}
				cr[j] = f*prev + i*cc
				hr[j] = o * math.Tanh(cr[j])
			}
		}
	}

	if l.returnSequences {
		return tensor.FromData(append([]float64(nil), h...), b, t, u)
	}
	out := tensor.New(b, u)
	for n := 0; n < b; n++ {
		copy(out.Row(n), h[(n*t+t-1)*u:(n*t+t)*u])
	}
	return out
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}

// Backward runs backpropagation through time over the last forward pass.
func (l *Layer) Backward(dy *tensor.Tensor) *tensor.Tensor {
	b, t, u := l.x.Rows(), l.steps, l.units
	g := 4 * u
	z, c, h := l.gates, l.cells, l.hs

	dh := dy.Data
	if !l.returnSequences {
		dh = make([]float64, b*t*u)
		for n := 0; n < b; n++ {
			copy(dh[(n*t+t-1)*u:(n*t+t)*u], dy.Row(n))
		}
	}

	dz := make([]float64, b*t*g)
	dhNext := make([]float64, b*u)
	dcNext := make([]float64, b*u)
	u4 := tensor.Dense(l.recurrent.Value.Data, u, g)
	du4 := tensor.Dense(l.recurrent.Grad.Data, u, g)

	for s := t - 1; s >= 0; s-- {
		for n := 0; n < b; n++ {
			row := n*t + s
			zr := z[row*g : (row+1)*g]
			dzr := dz[row*g : (row+1)*g]
			for j := 0; j < u; j++ {
				i, f, cc, o := zr[j], zr[u+j], zr[2*u+j], zr[3*u+j]
				var prev float64
				if s > 0 {
					prev = c[(row-1)*u+j]
				}
				tc := math.Tanh(c[row*u+j])

				dhj := dh[row*u+j] + dhNext[n*u+j]
				dc := dcNext[n*u+j] + dhj*o*(1-tc*tc)
				dcNext[n*u+j] = dc * f

				dzr[j] = dc * cc * i * (1 - i)
				dzr[u+j] = dc * prev * f * (1 - f)
				dzr[2*u+j] = dc * i * (1 - cc*cc)
				dzr[3*u+j] = dhj * tc * o * (1 - o)
			}
		}
		if s > 0 {
			dzs := tensor.View(dz[s*g:], b, g, t*g)
			tensor.MatMul(false, true, 1, dzs, u4, 0, tensor.Dense(dhNext, b, u))
			tensor.MatMul(true, false, 1, tensor.View(h[(s-1)*u:], b, u, t*u), dzs, 1, du4)
		}
	}

	dzAll := tensor.Dense(dz, b*t, g)
	kernel := tensor.Dense(l.kernel.Value.Data, l.features, g)
	tensor.MatMul(true, false, 1, tensor.Dense(l.x.Data, b*t, l.features), dzAll, 1, tensor.Dense(l.kernel.Grad.Data, l.features, g))
	db := l.bias.Grad.Data
	for row := 0; row < b*t; row++ {
		for j, v := range dz[row*g : (row+1)*g] {
			db[j] += v
		}
	}

	dx := tensor.New(l.x.Shape...)
	tensor.MatMul(false, true, 1, dzAll, kernel, 0, tensor.Dense(dx.Data, b*t, l.features))
	return dx
}

func (l *Layer) Params() []*layer.Param {
	return []*layer.Param{l.kernel, l.recurrent, l.bias}
}

func (l *Layer) Spec() layer.Spec {
	return layer.Spec{Kind: Kind, Units: l.units, ReturnSequences: l.returnSequences}
}
