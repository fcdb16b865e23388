// Package equil rescales a Matrix by diagonal D, E so rows and columns have
// comparable norm, using a Sinkhorn-Knopp style strategy.
package equil

import (
	"math"

	"github.com/liq07lzucn/gopogs/linalg"
	"github.com/liq07lzucn/gopogs/status"
)

// Kind selects the equilibration strategy. Sinkhorn is the only strategy
// implemented: norm exponent p=2, bounded to maxSinkhornIters, with early
// termination once the row/column norm ratio drops below ratioTol (see
// DESIGN.md).
type Kind int

const (
	Sinkhorn Kind = iota
)

const (
	maxSinkhornIters = 10
	ratioTol         = 1.05
)

// Scales holds the positive diagonal scaling vectors D (length m) and E
// (length n) such that A' = diag(D)*A*diag(E).
type Scales struct {
	D, E []float64
}

// Equilibrate overwrites m.Data in place with diag(D)*A*diag(E), then
// rescales by 1/||A'|| (and D,E by 1/sqrt(||A'||) each, so their product
// contributes the matching 1/||A'|| to the matrix) so that the final
// ||A'||==1. It returns the scales actually applied after that final
// rescale.
func Equilibrate(m *linalg.Matrix, kind Kind) (Scales, error) {
	if kind != Sinkhorn {
		return Scales{}, status.New(status.Unsupported, "equil.Equilibrate")
	}
	rows, cols := m.Rows, m.Cols
	d := make([]float64, rows)
	e := make([]float64, cols)
	for i := range d {
		d[i] = 1
	}
	for j := range e {
		e[j] = 1
	}

	rowNorm := make([]float64, rows)
	colNorm := make([]float64, cols)
	for iter := 0; iter < maxSinkhornIters; iter++ {
		for i := 0; i < rows; i++ {
			rowNorm[i] = 0
		}
		for j := 0; j < cols; j++ {
			colNorm[j] = 0
		}
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				v := m.At(i, j) * d[i] * e[j]
				rowNorm[i] += v * v
				colNorm[j] += v * v
			}
		}
		maxRow, minRow := extrema(rowNorm)
		maxCol, minCol := extrema(colNorm)
		ratio := 1.0
		if minRow > 0 {
			ratio = math.Max(ratio, maxRow/minRow)
		}
		if minCol > 0 {
			ratio = math.Max(ratio, maxCol/minCol)
		}
		if ratio <= ratioTol {
			break
		}
		for i := 0; i < rows; i++ {
			if rowNorm[i] > 0 {
				d[i] /= math.Sqrt(rowNorm[i] / float64(cols))
			}
		}
		for j := 0; j < cols; j++ {
			if colNorm[j] > 0 {
				e[j] /= math.Sqrt(colNorm[j] / float64(rows))
			}
		}
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, m.At(i, j)*d[i]*e[j])
		}
	}

	normA := m.Norm()
	if normA <= 0 || math.IsNaN(normA) {
		return Scales{}, status.New(status.NumericalFailure, "equil.Equilibrate")
	}
	m.Scale(1 / normA)
	dScale := 1 / math.Sqrt(normA)
	for i := range d {
		d[i] *= dScale
	}
	for j := range e {
		e[j] *= dScale
	}
	for _, v := range d {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Scales{}, status.New(status.NumericalFailure, "equil.Equilibrate")
		}
	}
	for _, v := range e {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Scales{}, status.New(status.NumericalFailure, "equil.Equilibrate")
		}
	}
	return Scales{D: d, E: e}, nil
}

func extrema(x []float64) (max, min float64) {
	max = 0
	min = math.Inf(1)
	for _, v := range x {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return max, min
}
