package flatten

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/sentiment/tensor"

func TestFlatten(t *testing.T) {
	l := New()
	out, err := l.Build([]int{500, 32}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{16000}, out)

	x := tensor.FromData([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 2, 2, 2)
	y := l.Forward(x, true)
	assert.Equal(t, []int{2, 4}, y.Shape)
	assert.Equal(t, x.Data, y.Data)
	dx := l.Backward(y)
	assert.Equal(t, []int{2, 2, 2}, dx.Shape)

	_, err = l.Build(nil, nil)
	assert.Error(t, err)
}
