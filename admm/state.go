// Package admm holds the ADMM iterate z=(y,x) and its dual z̃, together with
// the step kernels: prox, project, dual update. Field naming (Z, Z12, Zt,
// Zt12, ZPrev) follows the half-step/dual-variable convention used
// throughout the ADMM literature, adapted to Go's exported-field
// convention.
package admm

// State is the five m+n-length vectors the solver carries across
// iterations and across resume: Z, Z12 (post-prox), Zt (dual), Zt12
// (pre-projection dual), ZPrev.
type State struct {
	M, N int
	Z     []float64
	Z12   []float64
	Zt    []float64
	Zt12  []float64
	ZPrev []float64
}

// New allocates a zero-initialized State for an m+n-dimensional problem.
func New(m, n int) *State {
	dim := m + n
	return &State{
		M: m, N: n,
		Z:     make([]float64, dim),
		Z12:   make([]float64, dim),
		Zt:    make([]float64, dim),
		Zt12:  make([]float64, dim),
		ZPrev: make([]float64, dim),
	}
}

// Y returns the y-block (first m entries) of v, which must have length M+N.
func (s *State) Y(v []float64) []float64 { return v[:s.M] }

// X returns the x-block (last n entries) of v, which must have length M+N.
func (s *State) X(v []float64) []float64 { return v[s.M:] }
