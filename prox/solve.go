package prox

import (
	"math"

	"github.com/liq07lzucn/gopogs/status"
)

// maxNewtonIters bounds the scalar Newton solves used for the primitives
// that have no closed-form prox (Exp, Logistic, NegEntr, Recipr). 50 is
// generous for the quadratically-convergent 1-D problems here and still
// cheap per coordinate per ADMM iteration.
const maxNewtonIters = 50

// proxU solves argmin_u ch*h(u) + (Pp/2)*u^2 + Qp*u, the prox subproblem
// after substituting u = a*x-b and folding the ADMM quadratic penalty and
// the term's own linear/quadratic parts into Pp, Qp (see Prox below).
// Returns the minimizer and true, or false if Newton failed to converge.
func proxU(h Kind, ch, Pp, Qp float64) (float64, bool) {
	switch h {
	case Zero:
		return -Qp / Pp, true
	case Abs:
		return shrink(-Qp/Pp, ch/Pp), true
	case Identity:
		return -(Qp + ch) / Pp, true
	case Square:
		return -Qp / (ch + Pp), true
	case IndBox01:
		return clip(-Qp/Pp, 0, 1), true
	case IndEq0:
		return 0, true
	case IndGe0:
		return math.Max(-Qp/Pp, 0), true
	case IndLe0:
		return math.Min(-Qp/Pp, 0), true
	case Huber:
		return proxHuber(ch, Pp, Qp), true
	case MaxNeg0:
		return proxMaxNeg0(ch, Pp, Qp), true
	case MaxPos0:
		return proxMaxPos0(ch, Pp, Qp), true
	case NegLog:
		// Pp*u^2 + Qp*u - ch = 0 on u>0; Pp=e+rho>0 always.
		disc := Qp*Qp + 4*Pp*ch
		return (-Qp + math.Sqrt(disc)) / (2 * Pp), true
	case Exp:
		u0 := math.Max(-Qp/Pp, -20)
		return newton1D(u0, func(u float64) (float64, float64) {
			eu := math.Exp(u)
			return ch*eu + Pp*u + Qp, ch*eu + Pp
		})
	case Logistic:
		u0 := -Qp / Pp
		return newton1D(u0, func(u float64) (float64, float64) {
			sig := 1 / (1 + math.Exp(-u))
			return ch*sig + Pp*u + Qp, ch*sig*(1-sig) + Pp
		})
	case NegEntr:
		u0 := math.Max(-Qp/Pp, 1e-6)
		return newton1D(u0, func(u float64) (float64, float64) {
			if u <= 0 {
				u = 1e-10
			}
			return ch*(math.Log(u)+1) + Pp*u + Qp, ch/u + Pp
		})
	case Recipr:
		u0 := math.Max(-Qp/Pp, 1e-6)
		return newton1D(u0, func(u float64) (float64, float64) {
			if u <= 0 {
				u = 1e-10
			}
			return -ch/(u*u) + Pp*u + Qp, 2*ch/(u*u*u) + Pp
		})
	default:
		return 0, false
	}
}

func shrink(v, k float64) float64 {
	if v > k {
		return v - k
	}
	if v < -k {
		return v + k
	}
	return 0
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func proxHuber(ch, Pp, Qp float64) float64 {
	u := -Qp / (ch + Pp)
	if math.Abs(u) <= 1 {
		return u
	}
	uHi := -(Qp + ch) / Pp
	if uHi > 1 {
		return uHi
	}
	uLo := (ch - Qp) / Pp
	if uLo < -1 {
		return uLo
	}
	return math.Copysign(1, -Qp)
}

func proxMaxNeg0(ch, Pp, Qp float64) float64 {
	uPos := -Qp / Pp
	if uPos > 0 {
		return uPos
	}
	uNeg := (ch - Qp) / Pp
	if uNeg < 0 {
		return uNeg
	}
	return 0
}

func proxMaxPos0(ch, Pp, Qp float64) float64 {
	uPos := -(Qp + ch) / Pp
	if uPos > 0 {
		return uPos
	}
	uNeg := -Qp / Pp
	if uNeg < 0 {
		return uNeg
	}
	return 0
}

// newton1D runs bounded Newton iteration on f(u)=0 given f and its
// derivative packed into fdf, starting from u0.
func newton1D(u0 float64, fdf func(u float64) (f, df float64)) (float64, bool) {
	u := u0
	for i := 0; i < maxNewtonIters; i++ {
		f, df := fdf(u)
		if df == 0 {
			return u, false
		}
		step := f / df
		u -= step
		if math.Abs(step) < 1e-10*(1+math.Abs(u)) {
			return u, true
		}
	}
	return u, false
}

// Prox computes prox_{h,rho}(v) = argmin_x c*h(a*x-b) + d*x + (e/2)x² +
// (rho/2)(x-v)². Asymmetry weight s scales h on the negative half-line of
// its argument (a*x-b<0) only, per the resolution recorded in DESIGN.md.
// s is assumed nonnegative, required for the negative branch to stay
// convex.
func (f Function) Prox(rho, v float64) (float64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	if rho <= 0 || math.IsNaN(rho) || math.IsInf(rho, 0) {
		return 0, status.New(status.InvalidArgument, "prox.Function.Prox")
	}
	P := f.E + rho
	Q := f.D - rho*v
	Pp := P / (f.A * f.A)
	Qp := P*f.B/(f.A*f.A) + Q/f.A

	solve := func(ch float64) (float64, bool) { return proxU(f.H, ch, Pp, Qp) }

	var u float64
	var ok bool
	if f.S == 1 {
		u, ok = solve(f.C)
	} else {
		uPos, okPos := solve(f.C)
		uNeg, okNeg := solve(f.C * f.S)
		switch {
		case okPos && uPos >= 0:
			u, ok = uPos, true
		case okNeg && uNeg < 0:
			u, ok = uNeg, true
		case okPos && okNeg:
			gPos := f.C*baseH(f.H, uPos) + 0.5*Pp*uPos*uPos + Qp*uPos
			gNeg := f.C*f.S*baseH(f.H, uNeg) + 0.5*Pp*uNeg*uNeg + Qp*uNeg
			if gPos <= gNeg {
				u, ok = uPos, true
			} else {
				u, ok = uNeg, true
			}
		case okPos:
			u, ok = uPos, true
		default:
			u, ok = uNeg, okNeg
		}
	}
	if !ok {
		return 0, status.New(status.NumericalFailure, "prox.Function.Prox")
	}
	return (u + f.B) / f.A, nil
}

// Prox evaluates Function.Prox elementwise: out[i] = prox_{f_i,rho}(v[i]).
func (fv FunctionVector) Prox(rho float64, v, out []float64) error {
	if len(v) != len(fv) || len(out) != len(fv) {
		panic("prox: length mismatch in FunctionVector.Prox")
	}
	for i := range fv {
		x, err := fv[i].Prox(rho, v[i])
		if err != nil {
			return err
		}
		out[i] = x
	}
	return nil
}
