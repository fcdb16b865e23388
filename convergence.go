package pogs

import (
	"math"

	"gonum.org/v1/gonum/blas"

	"github.com/liq07lzucn/gopogs/admm"
	"github.com/liq07lzucn/gopogs/linalg"
)

// computeResiduals evaluates the primal/dual residuals and tolerances in
// equilibrated coordinates.
func computeResiduals(a *linalg.Matrix, s *admm.State, settings *Settings) (Residuals, Tolerances) {
	m, n := s.M, s.N
	x12, y12 := s.X(s.Z12), s.Y(s.Z12)
	xt12, yt12 := s.X(s.Zt12), s.Y(s.Zt12)

	rp := make([]float64, m)
	a.Gemv(blas.NoTrans, 1, x12, 0, rp)
	linalg.Axpy(-1, y12, rp)
	primal := linalg.Nrm2(rp)

	rd := make([]float64, n)
	a.Gemv(blas.Trans, 1, yt12, 0, rd)
	linalg.Axpy(1, xt12, rd)
	dual := linalg.Nrm2(rd)

	gap := math.Abs(linalg.Dot(s.Z12, s.Zt12))

	atolm := settings.AbsTol * math.Sqrt(float64(m))
	atoln := settings.AbsTol * math.Sqrt(float64(n))
	atolmn := settings.AbsTol * math.Sqrt(float64(m+n))

	tol := Tolerances{
		Primal: atolm + settings.RelTol*linalg.Nrm2(y12),
		Dual:   atoln + settings.RelTol*linalg.Nrm2(xt12),
		AtolM:  atolm,
		AtolN:  atoln,
		AtolMN: atolmn,
	}
	return Residuals{Primal: primal, Dual: dual, Gap: gap}, tol
}

// converged applies the standard primal/dual residual test, including the
// optional gap check.
func converged(res Residuals, tol Tolerances, obj float64, gapstop bool, reltol float64) bool {
	if res.Primal > tol.Primal || res.Dual > tol.Dual {
		return false
	}
	if gapstop && res.Gap > tol.AtolMN+reltol*math.Abs(obj) {
		return false
	}
	return true
}
