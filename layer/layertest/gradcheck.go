// Package layertest checks backpropagated layer gradients against central
// finite differences.
package layertest

import "math"
import "math/rand/v2"
import "testing"

import "github.com/neurlang/sentiment/layer"
import "github.com/neurlang/sentiment/tensor"

const step = 1e-5

// weightedSum is the scalar probe loss sum(y * w).
func weightedSum(y, w *tensor.Tensor) (s float64) {
	for i := range y.Data {
		s += y.Data[i] * w.Data[i]
	}
	return
}

// CheckGradients compares the analytic gradients of a built layer with
// numerical ones on input x. The probe loss is a fixed random weighting of
// the output. Input gradients are checked when checkInput is set.
func CheckGradients(t testing.TB, l layer.Layer, x *tensor.Tensor, checkInput bool, tol float64) {
	t.Helper()
	rng := rand.New(rand.NewPCG(11, 13))

	y := l.Forward(x, false)
	w := tensor.New(y.Shape...)
	for i := range w.Data {
		w.Data[i] = rng.Float64()*2 - 1
	}
	for _, p := range l.Params() {
		p.Grad.Zero()
	}
	dx := l.Backward(w)

	loss := func() float64 {
		return weightedSum(l.Forward(x, false), w)
	}
	compare := func(what string, i int, analytic float64, value *float64) {
		orig := *value
		*value = orig + step
		plus := loss()
		*value = orig - step
		minus := loss()
		*value = orig
		numeric := (plus - minus) / (2 * step)
		scale := math.Max(1, math.Max(math.Abs(analytic), math.Abs(numeric)))
		if math.Abs(analytic-numeric) > tol*scale {
			t.Errorf("%s[%d]: analytic %g, numeric %g", what, i, analytic, numeric)
		}
	}

	for _, p := range l.Params() {
		grad := append([]float64(nil), p.Grad.Data...)
		for _, i := range sample(len(p.Value.Data), rng) {
			compare(p.Name, i, grad[i], &p.Value.Data[i])
		}
	}
	if checkInput {
		if dx == nil {
			t.Fatalf("layer returned no input gradient")
		}
		grad := append([]float64(nil), dx.Data...)
		for _, i := range sample(len(x.Data), rng) {
			compare("input", i, grad[i], &x.Data[i])
		}
	}
}

// sample picks up to 40 indices below n.
func sample(n int, rng *rand.Rand) []int {
	const most = 40
	if n <= most {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	return rng.Perm(n)[:most]
}

// Random fills a tensor of the given shape with values uniform in (-1, 1)
// keeping them at least 0.05 away from 0, where piecewise layers have kinks.
func Random(rng *rand.Rand, shape ...int) *tensor.Tensor {
	x := tensor.New(shape...)
	for i := range x.Data {
		v := 0.05 + 0.95*rng.Float64()
		if rng.IntN(2) == 0 {
			v = -v
		}
		x.Data[i] = v
	}
	return x
}
