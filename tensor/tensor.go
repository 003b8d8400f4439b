// Package tensor implements the dense row-major float64 tensor and the kernels
// the layers are built from.
package tensor

import "fmt"

// Tensor is a dense row-major array. The first dimension is the batch.
type Tensor struct {
	Shape []int
	Data  []float64
}

// New allocates a zeroed tensor of the given shape.
func New(shape ...int) *Tensor {
	return &Tensor{
		Shape: append([]int(nil), shape...),
		Data:  make([]float64, Volume(shape)),
	}
}

// FromData wraps data as a tensor of the given shape. It panics if the volume
// of the shape differs from len(data).
func FromData(data []float64, shape ...int) *Tensor {
	if Volume(shape) != len(data) {
		panic(fmt.Sprintf("tensor: shape %v does not fit %d values", shape, len(data)))
	}
	return &Tensor{Shape: append([]int(nil), shape...), Data: data}
}

// Volume is the number of elements of a tensor of the given shape.
func Volume(shape []int) int {
	v := 1
	for _, d := range shape {
		v *= d
	}
	return v
}

// Rows is the size of the first dimension.
func (t *Tensor) Rows() int {
	if len(t.Shape) == 0 {
		return 0
	}
	return t.Shape[0]
}

// RowSize is the number of elements in one entry along the first dimension.
func (t *Tensor) RowSize() int {
	if len(t.Shape) == 0 {
		return 0
	}
	return Volume(t.Shape[1:])
}

// Row returns a view of the i-th entry along the first dimension.
func (t *Tensor) Row(i int) []float64 {
	n := t.RowSize()
	return t.Data[i*n : (i+1)*n]
}

// Reshape returns a view sharing data with t under a new shape.
func (t *Tensor) Reshape(shape ...int) *Tensor {
	return FromData(t.Data, shape...)
}

// Clone deep copies the tensor.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{
		Shape: append([]int(nil), t.Shape...),
		Data:  append([]float64(nil), t.Data...),
	}
}

// Zero sets every element to 0.
func (t *Tensor) Zero() {
	for i := range t.Data {
		t.Data[i] = 0
	}
}

// SameShape reports whether the two shapes are equal.
func SameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Gather selects the given rows of t into a new tensor, in order.
func (t *Tensor) Gather(rows []int) *Tensor {
	shape := append([]int(nil), t.Shape...)
	shape[0] = len(rows)
	out := New(shape...)
	n := t.RowSize()
	for i, r := range rows {
		copy(out.Data[i*n:(i+1)*n], t.Data[r*n:(r+1)*n])
	}
	return out
}
