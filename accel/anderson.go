// Package accel implements optional Anderson acceleration of the ADMM
// fixed-point map. Disabled by default; the solver driver only calls into
// this package when Settings.Accelerate is set.
package accel

import (
	"gonum.org/v1/gonum/mat"

	"github.com/liq07lzucn/gopogs/linalg"
)

// Anderson buffers the last Window residuals/iterates of the fixed-point
// map and computes minimum-norm mixing coefficients each outer step.
type Anderson struct {
	Window int
	dim    int

	g   [][]float64 // g(z_i), most recent last
	res [][]float64 // g(z_i) - z_i

	// Eta safeguards against accepting a worse-than-plain step; the
	// driver compares ‖residual(accelerated)‖ against
	// Eta*‖residual(plain)‖ and falls back to plain ADMM if exceeded.
	Eta float64
}

// New returns an Anderson accelerator with the given window and dimension.
func New(window, dim int) *Anderson {
	if window < 1 {
		window = 1
	}
	return &Anderson{Window: window, dim: dim, Eta: 1.0}
}

// Push records the latest fixed-point map value gz (computed from the
// current iterate z via the plain ADMM step) and its residual gz-z.
func (a *Anderson) Push(z, gz []float64) {
	res := make([]float64, a.dim)
	copy(res, gz)
	linalg.Axpy(-1, z, res)

	gCopy := make([]float64, a.dim)
	copy(gCopy, gz)

	a.g = append(a.g, gCopy)
	a.res = append(a.res, res)
	if len(a.g) > a.Window {
		a.g = a.g[1:]
		a.res = a.res[1:]
	}
}

// Mix solves the small least-squares problem for mixing weights that
// minimize ‖Σα_i·res_i‖² subject to Σα_i=1, then returns Σα_i·g(z_i), the
// candidate accelerated iterate. It returns nil if fewer than two points
// are buffered.
func (a *Anderson) Mix() []float64 {
	k := len(a.res)
	if k < 2 {
		return nil
	}
	// Minimize ||R*alpha||^2 s.t. sum(alpha)=1 by solving the
	// (k-1)-dimensional unconstrained problem in differences
	// delta_i = res_i - res_k, alpha_k = 1 - sum(alpha_1..alpha_{k-1}).
	d := a.dim
	R := mat.NewDense(d, k-1, nil)
	for i := 0; i < k-1; i++ {
		for row := 0; row < d; row++ {
			R.Set(row, i, a.res[i][row]-a.res[k-1][row])
		}
	}
	b := mat.NewVecDense(d, nil)
	for row := 0; row < d; row++ {
		b.SetVec(row, -a.res[k-1][row])
	}
	var gram mat.Dense
	gram.Mul(R.T(), R)
	var rhs mat.Dense
	rhs.Mul(R.T(), b)

	var sol mat.Dense
	if err := sol.Solve(&gram, &rhs); err != nil {
		return nil
	}

	alpha := make([]float64, k)
	sum := 0.0
	for i := 0; i < k-1; i++ {
		alpha[i] = sol.At(i, 0)
		sum += alpha[i]
	}
	alpha[k-1] = 1 - sum

	out := make([]float64, d)
	for i := 0; i < k; i++ {
		for row := 0; row < d; row++ {
			out[row] += alpha[i] * a.g[i][row]
		}
	}
	return out
}

// Reset clears the buffered history, used when a mix is rejected by the
// driver's safeguard so the next outer step restarts from a clean window.
func (a *Anderson) Reset() {
	a.g = a.g[:0]
	a.res = a.res[:0]
}
