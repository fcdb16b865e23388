package admm

import (
	"gonum.org/v1/gonum/floats"

	"github.com/liq07lzucn/gopogs/linalg"
	"github.com/liq07lzucn/gopogs/project"
	"github.com/liq07lzucn/gopogs/prox"
)

// Step performs one ADMM iteration with over-relaxation alpha:
//
//  1. z½ ← prox_{F,ρ}(z - z̃)
//  2. z⁺ ← Π_{y=A'x}(α·z½ + (1−α)·z_prev + z̃)
//  3. z̃½ ← z½ - z_prev + z̃;  z̃ ← z̃ + α·z½ + (1−α)·z_prev - z⁺
//  4. z_prev ← z⁺
func Step(s *State, f, g prox.FunctionVector, proj *project.Direct, rho, alpha float64) error {
	shifted := make([]float64, s.M+s.N)
	copy(shifted, s.Z)
	linalg.Axpy(-1, s.Zt, shifted)

	if err := f.Prox(rho, s.Y(shifted), s.Y(s.Z12)); err != nil {
		return err
	}
	if err := g.Prox(rho, s.X(shifted), s.X(s.Z12)); err != nil {
		return err
	}

	cx := make([]float64, s.N)
	cy := make([]float64, s.M)
	copy(cx, s.X(s.Z12))
	linalg.Scal(alpha, cx)
	linalg.Axpy(1-alpha, s.X(s.ZPrev), cx)
	linalg.Axpy(1, s.X(s.Zt), cx)
	copy(cy, s.Y(s.Z12))
	linalg.Scal(alpha, cy)
	linalg.Axpy(1-alpha, s.Y(s.ZPrev), cy)
	linalg.Axpy(1, s.Y(s.Zt), cy)

	xPlus, yPlus, err := proj.Project(cx, cy)
	if err != nil {
		return err
	}

	// z̃½ ← z½ - z_prev + z̃, a three-term elementwise combination with no
	// single BLAS op to match; floats.SubTo/Add cover it without a
	// hand-rolled loop.
	floats.SubTo(s.Zt12, s.Z12, s.ZPrev)
	floats.Add(s.Zt12, s.Zt)

	zPlus := make([]float64, s.M+s.N)
	copy(s.Y(zPlus), yPlus)
	copy(s.X(zPlus), xPlus)

	// z̃ ← z̃ + α·z½ + (1−α)·z_prev - z⁺
	floats.AddScaled(s.Zt, alpha, s.Z12)
	floats.AddScaled(s.Zt, 1-alpha, s.ZPrev)
	floats.Sub(s.Zt, zPlus)
	copy(s.ZPrev, zPlus)
	copy(s.Z, zPlus)
	return nil
}
