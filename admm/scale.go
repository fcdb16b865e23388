package admm

import (
	"gonum.org/v1/gonum/blas"

	"github.com/liq07lzucn/gopogs/linalg"
)

// WarmStart initializes the scaled interior state from a user-supplied
// initial guess x0 (in original coordinates) and optional dual guess nu0.
// When nu0 is nil it is taken as zero. Both the primary iterate and its
// "half" counterpart (Z12, Zt12) are set so that Unscale reproduces
// (x0, nu0) even with zero solver iterations.
func WarmStart(s *State, a *linalg.Matrix, d, e []float64, rho float64, x0, nu0 []float64) {
	x := s.X(s.Z)
	for j := range x {
		x[j] = x0[j] / e[j]
	}
	a.Gemv(blas.NoTrans, 1, x, 0, s.Y(s.Z))
	copy(s.Z12, s.Z)

	xt, yt := s.X(s.Zt), s.Y(s.Zt)
	if nu0 == nil {
		for i := range xt {
			xt[i] = 0
		}
		for i := range yt {
			yt[i] = 0
		}
		copy(s.Zt12, s.Zt)
		return
	}
	for i := range yt {
		yt[i] = -nu0[i] / (rho * d[i])
	}
	for j := range xt {
		xt[j] = 0
	}
	a.Gemv(blas.Trans, -1, yt, 0, xt)
	copy(s.Zt12, s.Zt)
}

// Output is the solve result in user (unscaled) coordinates.
type Output struct {
	X, Y, Mu, Nu []float64
}

// Unscale converts the equilibrated half-iterates z½, z̃½ back into user
// coordinates:
//
//	x_out = E · x½;  y_out = y½ / D;  μ_out = −ρ·x̃½/E;  ν_out = −ρ·ỹ½·D.
func Unscale(s *State, d, e []float64, rho float64) Output {
	n, m := s.N, s.M
	out := Output{
		X:  make([]float64, n),
		Y:  make([]float64, m),
		Mu: make([]float64, n),
		Nu: make([]float64, m),
	}
	x12, y12 := s.X(s.Z12), s.Y(s.Z12)
	xt12, yt12 := s.X(s.Zt12), s.Y(s.Zt12)
	for j := 0; j < n; j++ {
		out.X[j] = e[j] * x12[j]
		out.Mu[j] = -rho * xt12[j] / e[j]
	}
	for i := 0; i < m; i++ {
		out.Y[i] = y12[i] / d[i]
		out.Nu[i] = -rho * yt12[i] * d[i]
	}
	return out
}
