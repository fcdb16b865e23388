package linalg

import "gonum.org/v1/gonum/blas/blas64"

// Vec is a thin convenience constructor for a unit-increment blas64.Vector
// over a plain Go slice; every package above linalg passes data this way
// rather than building blas64.Vector literals itself.
func Vec(x []float64) blas64.Vector {
	return blas64.Vector{N: len(x), Inc: 1, Data: x}
}

// Dot returns x·y.
func Dot(x, y []float64) float64 {
	return blas64.Dot(Vec(x), Vec(y))
}

// Nrm2 returns the Euclidean norm of x.
func Nrm2(x []float64) float64 {
	return blas64.Nrm2(Vec(x))
}

// Axpy computes y += alpha*x in place.
func Axpy(alpha float64, x, y []float64) {
	blas64.Axpy(alpha, Vec(x), Vec(y))
}

// Scal computes x *= alpha in place.
func Scal(alpha float64, x []float64) {
	blas64.Scal(alpha, Vec(x))
}

// Copy copies src into dst; both must have equal length.
func Copy(dst, src []float64) {
	blas64.Copy(Vec(src), Vec(dst))
}
