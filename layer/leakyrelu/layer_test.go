package leakyrelu

import "math/rand/v2"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/sentiment/layer/layertest"
import "github.com/neurlang/sentiment/tensor"

func TestForward(t *testing.T) {
	l := MustNew(0.001)
	out, err := l.Build([]int{2, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, out)
	y := l.Forward(tensor.FromData([]float64{2, -3, 0, 0.5}, 1, 2, 2), true)
	assert.InDeltaSlice(t, []float64{2, -0.003, 0, 0.5}, y.Data, 1e-12)

	_, err = New(-1)
	assert.Error(t, err)
}

func TestGradients(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	l := MustNew(0.001)
	_, err := l.Build([]int{3, 4}, rng)
	require.NoError(t, err)
	layertest.CheckGradients(t, l, layertest.Random(rng, 2, 3, 4), true, 1e-6)
}
