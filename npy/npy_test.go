package npy

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripInt32(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := []int32{0, 0, 17, 7999, 1, 2}
	require.NoError(t, Save(fs, "XTesting_Data.npy", []int{2, 3}, data))

	shape, got, err := Load[int32](fs, "XTesting_Data.npy")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, shape)
	assert.Equal(t, data, got)
}

func TestRoundTripInt64AndFloat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []int{2, 2}, []int64{1, 0, 0, 1}))
	shape, got, err := Read[int64](&buf)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, shape)
	assert.Equal(t, []int64{1, 0, 0, 1}, got)

	buf.Reset()
	require.NoError(t, Write(&buf, []int{3}, []float64{0.5, -1, 2}))
	shape2, got2, err := Read[float64](&buf)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, shape2)
	assert.Equal(t, []float64{0.5, -1, 2}, got2)
}

func TestHeaderLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []int{1, 2}, []int32{3, 4}))
	b := buf.Bytes()
	assert.Equal(t, "\x93NUMPY", string(b[:6]))
	assert.Contains(t, buf.String(), "'<i4'")
	assert.Contains(t, buf.String(), "(1, 2)")
	assert.Equal(t, []byte{3, 0, 0, 0, 4, 0, 0, 0}, b[len(b)-8:])
}

func TestOneDimensionalShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []int{4}, []int32{1, 2, 3, 4}))
	assert.Contains(t, buf.String(), "(4,)")
	shape, got, err := Read[int32](&buf)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, shape)
	assert.Equal(t, []int32{1, 2, 3, 4}, got)
}

func TestThreeDimensionalOrder(t *testing.T) {
	var buf bytes.Buffer
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	require.NoError(t, Write(&buf, []int{2, 3, 2}, data))
	shape, got, err := Read[float64](&buf)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 2}, shape)
	assert.Equal(t, data, got)
}

func TestErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, []int{3}, []int32{1, 2}))
	assert.Error(t, Write(&buf, nil, []int32{1}))

	buf.Reset()
	require.NoError(t, Write(&buf, []int{2}, []int32{1, 2}))
	_, _, err := Read[int64](&buf)
	assert.ErrorContains(t, err, "element type <i4")

	_, _, err = Read[int32](bytes.NewReader([]byte("not numpy at all")))
	assert.Error(t, err)

	_, _, err = Load[int32](afero.NewMemMapFs(), "missing.npy")
	assert.Error(t, err)
}
