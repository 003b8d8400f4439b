package dropout

import "math/rand/v2"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/sentiment/tensor"

func TestInferenceIsIdentity(t *testing.T) {
	l := MustNew(0.5)
	_, err := l.Build([]int{4}, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	x := tensor.FromData([]float64{1, 2, 3, 4}, 1, 4)
	assert.Equal(t, x.Data, l.Forward(x, false).Data)
	assert.Equal(t, []float64{5, 6, 7, 8}, l.Backward(tensor.FromData([]float64{5, 6, 7, 8}, 1, 4)).Data)
}

func TestTrainingDropsAndScales(t *testing.T) {
	l := MustNew(0.5)
	_, err := l.Build([]int{10000}, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)
	x := tensor.New(1, 10000)
	for i := range x.Data {
		x.Data[i] = 1
	}
	y := l.Forward(x, true)
	var zeros int
	for _, v := range y.Data {
		if v == 0 {
			zeros++
		} else {
			assert.Equal(t, 2.0, v)
		}
	}
	assert.InDelta(t, 5000, zeros, 300)

	dy := tensor.New(1, 10000)
	for i := range dy.Data {
		dy.Data[i] = 1
	}
	dx := l.Backward(dy)
	assert.Equal(t, y.Data, dx.Data, "the gradient passes through the same mask")
}

func TestRejects(t *testing.T) {
	for _, r := range []float64{-0.1, 1, 2} {
		_, err := New(r)
		assert.Error(t, err, "rate %v", r)
	}
}
