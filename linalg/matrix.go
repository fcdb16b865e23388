// Package linalg is the linear-algebra façade POGS builds on: it owns dense
// vectors and matrices and wraps gonum's BLAS bindings behind a single set
// of entry points, the way gonum's own blas64 package wraps the native
// implementation behind one switchable handle. The Cholesky factorization
// is called from package project through lapack64 directly.
package linalg

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// Matrix is a dense m×n matrix, fixed after construction. Equilibrate
// overwrites Data in place; Original retains the values supplied at
// construction, from which LoadState rebuilds the equilibrated matrix.
type Matrix struct {
	Rows, Cols int
	// RowMajor records the layout the caller supplied data in. Internally
	// Data is always stored row-major (blas64.General with Stride==Cols),
	// matching gonum's convention.
	RowMajor bool

	Data     []float64 // equilibrated in place by equil.Equilibrate
	Original []float64 // copy of the values at construction, never mutated
}

// NewMatrix copies data into a solver-owned Matrix. data is interpreted as
// row-major if rowMajor is true, column-major otherwise; it is always
// converted to and stored row-major.
func NewMatrix(rows, cols int, data []float64, rowMajor bool) *Matrix {
	if len(data) != rows*cols {
		panic("linalg: data length does not match rows*cols")
	}
	row := make([]float64, rows*cols)
	if rowMajor {
		copy(row, data)
	} else {
		for j := 0; j < cols; j++ {
			for i := 0; i < rows; i++ {
				row[i*cols+j] = data[j*rows+i]
			}
		}
	}
	orig := make([]float64, len(row))
	copy(orig, row)
	return &Matrix{Rows: rows, Cols: cols, RowMajor: rowMajor, Data: row, Original: orig}
}

// General returns a blas64.General view over the equilibrated data.
func (m *Matrix) General() blas64.General {
	return blas64.General{Rows: m.Rows, Cols: m.Cols, Stride: m.Cols, Data: m.Data}
}

// OriginalGeneral returns a blas64.General view over the original
// (unequilibrated) data.
func (m *Matrix) OriginalGeneral() blas64.General {
	return blas64.General{Rows: m.Rows, Cols: m.Cols, Stride: m.Cols, Data: m.Original}
}

// Gemv computes y = alpha*op(A)*x + beta*y over the equilibrated matrix.
func (m *Matrix) Gemv(t blas.Transpose, alpha float64, x []float64, beta float64, y []float64) {
	blas64.Gemv(t, alpha, m.General(), blas64.Vector{N: len(x), Inc: 1, Data: x}, beta, blas64.Vector{N: len(y), Inc: 1, Data: y})
}

// Norm returns the Frobenius norm of the equilibrated matrix, used by the
// equilibrator's final 1/||A'|| rescale.
func (m *Matrix) Norm() float64 {
	return blas64.Nrm2(blas64.Vector{N: len(m.Data), Inc: 1, Data: m.Data})
}

// Scale multiplies every element of the equilibrated matrix by alpha.
func (m *Matrix) Scale(alpha float64) {
	blas64.Scal(alpha, blas64.Vector{N: len(m.Data), Inc: 1, Data: m.Data})
}

// At returns element (i,j) of the equilibrated matrix.
func (m *Matrix) At(i, j int) float64 { return m.Data[i*m.Cols+j] }

// Set assigns element (i,j) of the equilibrated matrix.
func (m *Matrix) Set(i, j int, v float64) { m.Data[i*m.Cols+j] = v }
