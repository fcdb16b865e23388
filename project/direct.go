// Package project implements the direct graph projector: given (cx, cy) it
// finds the closest point on the subspace {(x,y): y=A'x} by solving the
// normal equations with a Cholesky factorization computed once at setup.
package project

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"

	"github.com/liq07lzucn/gopogs/linalg"
	"github.com/liq07lzucn/gopogs/status"
)

// Direct is a Cholesky-backed projector onto {y=A'x}. It borrows the
// equilibrated matrix by reference; it never copies or owns it past
// construction, avoiding a cyclic solver↔projector↔matrix ownership graph.
type Direct struct {
	a      *linalg.Matrix
	skinny bool // m <= n: factor I + A'A'ᵀ (size m); else I + A'ᵀA' (size n)
	l      blas64.Triangular
	normA  float64
}

// NewDirect factors I+A'A'ᵀ (m<=n) or I+A'ᵀA' (m>n) once via a Cholesky
// decomposition.
func NewDirect(a *linalg.Matrix) (*Direct, error) {
	m, n := a.Rows, a.Cols
	skinny := m <= n
	dim := n
	if skinny {
		dim = m
	}
	gram := make([]float64, dim*dim)
	sym := blas64.Symmetric{N: dim, Stride: dim, Data: gram, Uplo: blas.Lower}
	for i := 0; i < dim; i++ {
		gram[i*dim+i] = 1
	}
	t := blas.NoTrans
	if !skinny {
		t = blas.Trans
	}
	blas64.Syrk(t, 1, a.General(), 1, sym)

	tri, ok := lapack64.Potrf(sym)
	if !ok {
		return nil, status.New(status.NumericalFailure, "project.NewDirect")
	}
	return &Direct{a: a, skinny: skinny, l: tri, normA: a.Norm()}, nil
}

// cholSolve solves L*Lᵀ*x = b in place via two triangular solves.
func (d *Direct) cholSolve(b []float64) {
	x := linalg.Vec(b)
	blas64.Trsv(blas.NoTrans, d.l, x)
	blas64.Trsv(blas.Trans, d.l, x)
}

// Project computes (xOut, yOut) minimizing ½‖xOut-cx‖²+½‖yOut-cy‖² subject
// to yOut = A'*xOut.
func (d *Direct) Project(cx, cy []float64) (xOut, yOut []float64, err error) {
	m, n := d.a.Rows, d.a.Cols
	if len(cx) != n || len(cy) != m {
		return nil, nil, status.New(status.InvalidArgument, "project.Direct.Project")
	}
	xOut = make([]float64, n)
	yOut = make([]float64, m)

	if d.skinny {
		// Solve (I + A'A'ᵀ) w = cy - A'*cx, y=cy-w, x=cx+A'ᵀw.
		rhs := make([]float64, m)
		copy(rhs, cy)
		d.a.Gemv(blas.NoTrans, -1, cx, 1, rhs)
		d.cholSolve(rhs)
		copy(yOut, cy)
		linalg.Axpy(-1, rhs, yOut)
		copy(xOut, cx)
		d.a.Gemv(blas.Trans, 1, rhs, 1, xOut)
	} else {
		// Solve (I + A'ᵀA') w = cx + A'ᵀ*cy, x=w, y=A'*w.
		rhs := make([]float64, n)
		copy(rhs, cx)
		d.a.Gemv(blas.Trans, 1, cy, 1, rhs)
		d.cholSolve(rhs)
		copy(xOut, rhs)
		d.a.Gemv(blas.NoTrans, 1, xOut, 0, yOut)
	}
	return xOut, yOut, nil
}

// Feasibility returns ‖A'*x-y‖, bounded after Project by rtol*(‖x‖+‖y‖).
func (d *Direct) Feasibility(x, y []float64) float64 {
	r := make([]float64, len(y))
	d.a.Gemv(blas.NoTrans, 1, x, 0, r)
	linalg.Axpy(-1, y, r)
	return linalg.Nrm2(r)
}

// NormA returns the Frobenius norm ‖A'‖ cached at construction.
func (d *Direct) NormA() float64 { return d.normA }

// Idempotent reports whether a second projection of (x,y) leaves it
// unchanged to rtol.
func Idempotent(d *Direct, x, y []float64, rtol float64) bool {
	x2, y2, err := d.Project(x, y)
	if err != nil {
		return false
	}
	dx := make([]float64, len(x))
	copy(dx, x)
	linalg.Axpy(-1, x2, dx)
	dy := make([]float64, len(y))
	copy(dy, y)
	linalg.Axpy(-1, y2, dy)
	return linalg.Nrm2(dx) <= rtol*(1+linalg.Nrm2(x)) && linalg.Nrm2(dy) <= rtol*(1+linalg.Nrm2(y))
}
