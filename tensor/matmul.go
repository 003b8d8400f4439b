package tensor

import "gonum.org/v1/gonum/blas"
import "gonum.org/v1/gonum/blas/blas64"

import "github.com/neurlang/sentiment/parallel"

// Matrix is a strided view into a float64 slice, used to address a single
// timestep of a (batch, time, features) tensor without copying.
type Matrix = blas64.General

// View makes a rows x cols matrix starting at data[0] whose rows are stride apart.
func View(data []float64, rows, cols, stride int) Matrix {
	return Matrix{Rows: rows, Cols: cols, Stride: stride, Data: data[:(rows-1)*stride+cols]}
}

// Dense makes a contiguous rows x cols matrix over data.
func Dense(data []float64, rows, cols int) Matrix {
	return View(data, rows, cols, cols)
}

// rowBlock is the smallest number of output rows worth giving to a goroutine.
const rowBlock = 64

// MatMul computes c = alpha * op(a) * op(b) + beta * c. When a is not
// transposed, the output rows are split among parallel.Workers goroutines.
func MatMul(transA, transB bool, alpha float64, a, b Matrix, beta float64, c Matrix) {
	ta, tb := blas.NoTrans, blas.NoTrans
	if transA {
		ta = blas.Trans
	}
	if transB {
		tb = blas.Trans
	}
	workers := parallel.Workers()
	if transA || workers == 1 || c.Rows < 2*rowBlock {
		blas64.Gemm(ta, tb, alpha, a, b, beta, c)
		return
	}
	parts := c.Rows / rowBlock
	if parts > workers {
		parts = workers
	}
	parallel.Chunks(c.Rows, parts, func(from, to int) {
		blas64.Gemm(ta, tb, alpha, rows(a, from, to), b, beta, rows(c, from, to))
	})
}

func rows(m Matrix, from, to int) Matrix {
	return View(m.Data[from*m.Stride:], to-from, m.Cols, m.Stride)
}
