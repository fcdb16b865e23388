package prox

import (
	"math"

	"github.com/liq07lzucn/gopogs/status"
)

// Function is one elementwise term of f or g: value(x) = c*h(a*x-b) + d*x +
// (e/2)*x², with asymmetry weight s scaling h on the negative half-line
// only. Invariants: C >= 0, E >= 0.
type Function struct {
	H Kind
	A, B, C, D, E, S float64
}

// NewFunction builds a Function with the common a=1,b=0,c=1,d=0,e=0,s=1
// defaults overridden by the supplied kind.
func NewFunction(h Kind) Function {
	return Function{H: h, A: 1, B: 0, C: 1, D: 0, E: 0, S: 1}
}

// Validate checks the invariants every term must satisfy.
func (f Function) Validate() error {
	if !f.H.Valid() {
		return status.New(status.Unsupported, "prox.Function.Validate")
	}
	for _, v := range []float64{f.A, f.B, f.C, f.D, f.E, f.S} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return status.New(status.InvalidArgument, "prox.Function.Validate")
		}
	}
	if f.C < 0 || f.E < 0 {
		return status.New(status.InvalidArgument, "prox.Function.Validate")
	}
	return nil
}

// FunctionVector is an ordered, fixed-length sequence of Function terms —
// one per coordinate of f (over y) or g (over x).
type FunctionVector []Function

// Validate validates every term.
func (fv FunctionVector) Validate() error {
	for i := range fv {
		if err := fv[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// baseH evaluates the primitive h at z, without the asymmetry weight.
func baseH(h Kind, z float64) float64 {
	switch h {
	case Zero:
		return 0
	case Abs:
		return math.Abs(z)
	case Exp:
		return math.Exp(z)
	case Huber:
		if math.Abs(z) <= 1 {
			return 0.5 * z * z
		}
		return math.Abs(z) - 0.5
	case Identity:
		return z
	case IndBox01:
		if z < 0 || z > 1 {
			return math.Inf(1)
		}
		return 0
	case IndEq0:
		if z != 0 {
			return math.Inf(1)
		}
		return 0
	case IndGe0:
		if z < 0 {
			return math.Inf(1)
		}
		return 0
	case IndLe0:
		if z > 0 {
			return math.Inf(1)
		}
		return 0
	case Logistic:
		return math.Log1p(math.Exp(z))
	case MaxNeg0:
		return math.Max(-z, 0)
	case MaxPos0:
		return math.Max(z, 0)
	case NegEntr:
		if z <= 0 {
			return 0
		}
		return z * math.Log(z)
	case NegLog:
		if z <= 0 {
			return math.Inf(1)
		}
		return -math.Log(z)
	case Recipr:
		if z <= 0 {
			return math.Inf(1)
		}
		return 1 / z
	case Square:
		return 0.5 * z * z
	default:
		return math.Inf(1)
	}
}

// asymmH evaluates h at z, scaled by s on the negative half-line only
// (the s-scaling-of-value-or-derivative ambiguity is resolved in
// DESIGN.md: s multiplies h's value, not its derivative, at z<0).
func asymmH(h Kind, z, s float64) float64 {
	if z < 0 {
		return s * baseH(h, z)
	}
	return baseH(h, z)
}

// Value returns c*h(a*x-b) + d*x + (e/2)*x².
func (f Function) Value(x float64) float64 {
	z := f.A*x - f.B
	return f.C*asymmH(f.H, z, f.S) + f.D*x + 0.5*f.E*x*x
}

// Value sums Function.Value over every coordinate of f and v.
func (fv FunctionVector) Value(v []float64) float64 {
	if len(v) != len(fv) {
		panic("prox: length mismatch between FunctionVector and v")
	}
	total := 0.0
	for i := range fv {
		total += fv[i].Value(v[i])
	}
	return total
}

// Scale replaces each term by one whose prox on a scaled variable matches.
// forG selects the g-branch (a/δ, d/δ, e/δ) versus the f-branch (a*δ,
// d*δ, e*δ); forG distinguishes g-terms (applied to x, scaled by E) from
// f-terms (applied to y, scaled by D).
func (fv FunctionVector) Scale(delta []float64, forG bool) {
	if len(delta) != len(fv) {
		panic("prox: length mismatch between FunctionVector and delta")
	}
	for i := range fv {
		d := delta[i]
		if forG {
			fv[i].A /= d
			fv[i].D /= d
			fv[i].E /= d
		} else {
			fv[i].A *= d
			fv[i].D *= d
			fv[i].E *= d
		}
	}
}
