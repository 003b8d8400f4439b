package tensor

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/sentiment/parallel"

func naive(a []float64, m, k int, b []float64, n int) []float64 {
	out := make([]float64, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			for p := 0; p < k; p++ {
				out[i*n+j] += a[i*k+p] * b[p*n+j]
			}
		}
	}
	return out
}

func TestMatMulMatchesNaive(t *testing.T) {
	defer parallel.SetWorkers(0)
	const m, k, n = 300, 7, 5
	a := make([]float64, m*k)
	b := make([]float64, k*n)
	for i := range a {
		a[i] = float64(i%13) - 6
	}
	for i := range b {
		b[i] = float64(i%5) * 0.5
	}
	want := naive(a, m, k, b, n)
	for _, w := range []int{1, 4} {
		parallel.SetWorkers(w)
		c := make([]float64, m*n)
		MatMul(false, false, 1, Dense(a, m, k), Dense(b, k, n), 0, Dense(c, m, n))
		assert.InDeltaSlice(t, want, c, 1e-9, "workers %d", w)
	}
}

func TestMatMulTransposedStrided(t *testing.T) {
	// a is (2 batch, 3 time, 2 features); take timestep 1 as a 2x2 view
	a := []float64{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	}
	x := View(a[2:], 2, 2, 6)
	c := make([]float64, 4)
	MatMul(true, false, 1, x, x, 0, Dense(c, 2, 2))
	// x = [[3 4] [9 10]], x^T x
	assert.Equal(t, []float64{9 + 81, 12 + 90, 12 + 90, 16 + 100}, c)
}

func TestGatherAndReshape(t *testing.T) {
	x := FromData([]float64{1, 2, 3, 4, 5, 6}, 3, 2)
	g := x.Gather([]int{2, 0})
	require.Equal(t, []int{2, 2}, g.Shape)
	assert.Equal(t, []float64{5, 6, 1, 2}, g.Data)
	assert.Equal(t, []float64{3, 4}, x.Row(1))
	r := x.Reshape(6)
	assert.Equal(t, 6, r.Rows())
	assert.True(t, SameShape([]int{3, 2}, x.Shape))
	assert.Panics(t, func() { x.Reshape(4) })
}
