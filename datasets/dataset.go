// Package datasets implements the encoded dataset types and the randomized
// train/test partitioning
package datasets

import "math"
import "math/rand/v2"

import "github.com/pkg/errors"

import "github.com/neurlang/sentiment/tensor"

// Matrix is a dense row-major matrix of integers, one sample per row.
type Matrix struct {
	Rows, Cols int
	Data       []int32
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) Matrix {
	return Matrix{Rows: rows, Cols: cols, Data: make([]int32, rows*cols)}
}

// Row returns a view of row i.
func (m Matrix) Row(i int) []int32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Shape returns the dimensions as a slice.
func (m Matrix) Shape() []int {
	return []int{m.Rows, m.Cols}
}

// Take copies the given rows into a new matrix, in the given order.
func (m Matrix) Take(rows []int) Matrix {
	out := NewMatrix(len(rows), m.Cols)
	for i, r := range rows {
		copy(out.Row(i), m.Row(r))
	}
	return out
}

// Int64 widens the values, the label files are stored as 64-bit integers.
func (m Matrix) Int64() []int64 {
	out := make([]int64, len(m.Data))
	for i, v := range m.Data {
		out[i] = int64(v)
	}
	return out
}

// Tensor converts the matrix into a float tensor of shape (Rows, Cols).
func (m Matrix) Tensor() *tensor.Tensor {
	out := tensor.New(m.Rows, m.Cols)
	for i, v := range m.Data {
		out.Data[i] = float64(v)
	}
	return out
}

// Split holds the four partitions of an encoded dataset.
type Split struct {
	XTrain, XTest Matrix
	YTrain, YTest Matrix
}

// TestCount is the number of rows drawn into the test partition: the fraction
// testSize of n rounded up.
func TestCount(n int, testSize float64) int {
	return int(math.Ceil(testSize * float64(n)))
}

// TrainTestSplit draws a random permutation of n rows and returns the indices
// of the train and test partitions. testSize must lie strictly between 0 and 1
// and neither partition may end up empty. A nil rng uses the unseeded global source.
func TrainTestSplit(n int, testSize float64, rng *rand.Rand) (train, test []int, err error) {
	if !(testSize > 0 && testSize < 1) {
		return nil, nil, errors.Errorf("test size %v must be between 0 and 1", testSize)
	}
	nTest := TestCount(n, testSize)
	nTrain := n - nTest
	if nTest == 0 || nTrain <= 0 {
		return nil, nil, errors.Errorf("with %d rows and test size %v one partition would be empty", n, testSize)
	}
	var perm []int
	if rng == nil {
		perm = rand.Perm(n)
	} else {
		perm = rng.Perm(n)
	}
	return perm[nTest:], perm[:nTest], nil
}

// SplitMatrices partitions inputs x and labels y along the row axis.
func SplitMatrices(x, y Matrix, testSize float64, rng *rand.Rand) (s Split, err error) {
	if x.Rows != y.Rows {
		return s, errors.Errorf("inputs have %d rows but labels have %d", x.Rows, y.Rows)
	}
	train, test, err := TrainTestSplit(x.Rows, testSize, rng)
	if err != nil {
		return s, err
	}
	return Split{
		XTrain: x.Take(train),
		XTest:  x.Take(test),
		YTrain: y.Take(train),
		YTest:  y.Take(test),
	}, nil
}
