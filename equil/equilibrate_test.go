package equil

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liq07lzucn/gopogs/linalg"
)

func randomMatrix(rows, cols int, seed int64) *linalg.Matrix {
	r := rand.New(rand.NewSource(seed))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = r.NormFloat64()
	}
	return linalg.NewMatrix(rows, cols, data, true)
}

func TestEquilibratePositiveScales(t *testing.T) {
	m := randomMatrix(12, 8, 42)
	scales, err := Equilibrate(m, Sinkhorn)
	require.NoError(t, err)

	for _, d := range scales.D {
		assert.Greater(t, d, 0.0)
		assert.False(t, math.IsNaN(d) || math.IsInf(d, 0))
	}
	for _, e := range scales.E {
		assert.Greater(t, e, 0.0)
		assert.False(t, math.IsNaN(e) || math.IsInf(e, 0))
	}
}

// TestEquilibrateRescaleIdentity checks testable property 1: ||D⊙(A(E⊙x))||
// equals ||A'x|| to round-off, since A' is constructed exactly as
// diag(D)*A*diag(E).
func TestEquilibrateRescaleIdentity(t *testing.T) {
	orig := randomMatrix(10, 6, 7)
	equilData := append([]float64(nil), orig.Original...)
	equilM := &linalg.Matrix{Rows: orig.Rows, Cols: orig.Cols, RowMajor: true, Data: equilData, Original: append([]float64(nil), equilData...)}
	scales, err := Equilibrate(equilM, Sinkhorn)
	require.NoError(t, err)

	x := []float64{1, 2, 3, 4, 5, 6}
	lhs := make([]float64, orig.Rows)
	for i := 0; i < orig.Rows; i++ {
		sum := 0.0
		for j := 0; j < orig.Cols; j++ {
			sum += orig.Original[i*orig.Cols+j] * scales.E[j] * x[j]
		}
		lhs[i] = scales.D[i] * sum
	}
	rhs := make([]float64, equilM.Rows)
	for i := 0; i < equilM.Rows; i++ {
		sum := 0.0
		for j := 0; j < equilM.Cols; j++ {
			sum += equilM.At(i, j) * x[j]
		}
		rhs[i] = sum
	}
	for i := range lhs {
		assert.InDelta(t, lhs[i], rhs[i], 1e-9)
	}
}

// TestEquilibrateFinalNormIsOne checks the postcondition the rest of the
// solver relies on: after Equilibrate returns, the rescaled matrix has
// unit Frobenius norm.
func TestEquilibrateFinalNormIsOne(t *testing.T) {
	shapes := [][2]int{{12, 8}, {20, 20}, {20, 30}, {5, 200}}
	for i, shape := range shapes {
		m := randomMatrix(shape[0], shape[1], int64(100+i))
		_, err := Equilibrate(m, Sinkhorn)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, m.Norm(), 1e-6)
	}
}
