package pogs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/liq07lzucn/gopogs/equil"
	"github.com/liq07lzucn/gopogs/linalg"
	"github.com/liq07lzucn/gopogs/prox"
)

func randomLeastSquares(m, n int, seed int64) (a *linalg.Matrix, b, xTrue []float64) {
	r := rand.New(rand.NewSource(seed))
	data := make([]float64, m*n)
	for i := range data {
		data[i] = r.NormFloat64()
	}
	xTrue = make([]float64, n)
	for j := range xTrue {
		xTrue[j] = r.NormFloat64()
	}
	b = make([]float64, m)
	for i := 0; i < m; i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			sum += data[i*n+j] * xTrue[j]
		}
		b[i] = sum
	}
	return linalg.NewMatrix(m, n, data, true), b, xTrue
}

func squareTerms(b []float64) prox.FunctionVector {
	fv := make(prox.FunctionVector, len(b))
	for i := range fv {
		fn := prox.NewFunction(prox.Square)
		fn.B = b[i]
		fv[i] = fn
	}
	return fv
}

func zeroTerms(n int) prox.FunctionVector {
	fv := make(prox.FunctionVector, n)
	for j := range fv {
		fv[j] = prox.NewFunction(prox.Zero)
	}
	return fv
}

// TestSolveLeastSquaresRecoversSolution covers an overdetermined exact
// least-squares instance (noiseless, consistent) and checks the solver
// converges and recovers x to loose tolerance.
func TestSolveLeastSquaresRecoversSolution(t *testing.T) {
	a, b, xTrue := randomLeastSquares(40, 10, 1)
	f := squareTerms(b)
	g := zeroTerms(10)

	settings := DefaultSettings()
	settings.MaxIter = 5000

	info, out, err := SolveDirect(a, equil.Sinkhorn, f, g, &settings)
	require.NoError(t, err)
	assert.True(t, info.Converged)
	for j := range xTrue {
		assert.InDelta(t, xTrue[j], out.X[j], 1e-2)
	}
}

// TestSolveNonNegativeLeastSquares constrains x>=0 via IndGe0 on g and
// checks the output respects the constraint.
func TestSolveNonNegativeLeastSquares(t *testing.T) {
	a, b, _ := randomLeastSquares(30, 8, 2)
	f := squareTerms(b)
	g := make(prox.FunctionVector, 8)
	for j := range g {
		g[j] = prox.NewFunction(prox.IndGe0)
	}

	settings := DefaultSettings()
	settings.MaxIter = 5000

	info, out, err := SolveDirect(a, equil.Sinkhorn, f, g, &settings)
	require.NoError(t, err)
	assert.True(t, info.Converged)
	for _, v := range out.X {
		assert.GreaterOrEqual(t, v, -1e-3)
	}
}

// TestSolveL1Regression adds an L1 penalty on x (lasso-style) and checks
// the solver still converges.
func TestSolveL1Regression(t *testing.T) {
	a, b, _ := randomLeastSquares(50, 12, 3)
	f := squareTerms(b)
	g := make(prox.FunctionVector, 12)
	for j := range g {
		fn := prox.NewFunction(prox.Abs)
		fn.C = 0.1
		g[j] = fn
	}

	settings := DefaultSettings()
	settings.MaxIter = 5000

	info, _, err := SolveDirect(a, equil.Sinkhorn, f, g, &settings)
	require.NoError(t, err)
	assert.True(t, info.Converged)
}

// TestSaveLoadStateExactMatch checks that exporting a solver's state and
// reloading it into a fresh solver over the same matrix, then resuming,
// reproduces, to within 1e-6, a continued solve that simply kept running
// uninterrupted.
func TestSaveLoadStateExactMatch(t *testing.T) {
	a, b, _ := randomLeastSquares(20, 6, 4)
	f := squareTerms(b)
	g := zeroTerms(6)

	settings := DefaultSettings()
	settings.MaxIter = 20
	settings.AdaptiveRho = false
	// Disable convergence entirely so both runs execute exactly their
	// requested iteration count, making the final iterate comparable.
	settings.AbsTol = 0
	settings.RelTol = 0

	s1, err := NewSolver(a, equil.Sinkhorn)
	require.NoError(t, err)
	_, _, err = s1.Solve(f, g, &settings)
	require.NoError(t, err)

	st, err := s1.SaveState()
	require.NoError(t, err)
	encoded, err := EncodeState(st)
	require.NoError(t, err)
	decoded, err := DecodeState(encoded)
	require.NoError(t, err)

	a2, _, _ := randomLeastSquares(20, 6, 4)
	s2, err := LoadState(a2, equil.Sinkhorn, decoded)
	require.NoError(t, err)

	resumeSettings := settings
	resumeSettings.Resume = true
	resumeSettings.MaxIter = 10
	_, out2, err := s2.Solve(f, g, &resumeSettings)
	require.NoError(t, err)

	continuedSettings := settings
	continuedSettings.MaxIter = 30
	s3, err := NewSolver(a, equil.Sinkhorn)
	require.NoError(t, err)
	_, out3, err := s3.Solve(f, g, &continuedSettings)
	require.NoError(t, err)

	for j := range out2.X {
		assert.InDelta(t, out3.X[j], out2.X[j], 1e-6)
	}
}

// TestAdaptiveRhoReducesIterations exercises the adaptive-penalty toggle:
// both variants must converge on the same instance and tolerances, and
// enabling AdaptiveRho may take at most 1.5 times the fixed-rho iteration
// count plus 10.
func TestAdaptiveRhoReducesIterations(t *testing.T) {
	a, b, _ := randomLeastSquares(60, 15, 5)
	f := squareTerms(b)
	g := zeroTerms(15)

	fixed := DefaultSettings()
	fixed.AdaptiveRho = false
	fixed.MaxIter = 5000
	infoFixed, _, err := SolveDirect(a, equil.Sinkhorn, f, g, &fixed)
	require.NoError(t, err)
	require.True(t, infoFixed.Converged)

	adaptive := DefaultSettings()
	adaptive.AdaptiveRho = true
	adaptive.MaxIter = 5000
	infoAdaptive, _, err := SolveDirect(a, equil.Sinkhorn, f, g, &adaptive)
	require.NoError(t, err)
	require.True(t, infoAdaptive.Converged)

	assert.LessOrEqual(t, infoAdaptive.K, infoFixed.K+infoFixed.K/2+10)
}

// TestConvergedImpliesResidualsWithinTolerance checks that whenever the
// solver reports convergence its residuals are in fact within the
// tolerances it also reports.
func TestConvergedImpliesResidualsWithinTolerance(t *testing.T) {
	a, b, _ := randomLeastSquares(25, 9, 6)
	f := squareTerms(b)
	g := zeroTerms(9)

	settings := DefaultSettings()
	settings.MaxIter = 5000
	info, _, err := SolveDirect(a, equil.Sinkhorn, f, g, &settings)
	require.NoError(t, err)
	require.True(t, info.Converged)
	assert.LessOrEqual(t, info.Res.Primal, info.Tol.Primal*(1+1e-6))
	assert.LessOrEqual(t, info.Res.Dual, info.Tol.Dual*(1+1e-6))
}

func TestSettingsYAMLRoundTrip(t *testing.T) {
	settings := DefaultSettings()
	settings.Alpha = 1.6
	settings.MaxIter = 1234
	data, err := yaml.Marshal(settings)
	require.NoError(t, err)

	var back Settings
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.InDelta(t, 1.6, back.Alpha, 1e-12)
	assert.Equal(t, 1234, back.MaxIter)
}

func TestSettingsYAMLFillsOmittedDefaults(t *testing.T) {
	var settings Settings
	require.NoError(t, yaml.Unmarshal([]byte("alpha: 1.5\n"), &settings))
	assert.InDelta(t, 1.5, settings.Alpha, 1e-12)
	assert.Equal(t, DefaultSettings().MaxIter, settings.MaxIter)
	assert.Equal(t, DefaultSettings().AdaptiveRho, settings.AdaptiveRho)
}
