package pogs

import "github.com/liq07lzucn/gopogs/linalg"

// rhoAdapter implements adaptive penalty adjustment: counts
// consecutive iterations where the primal or dual residual dominates the
// other by more than tau, and after streak consecutive such iterations
// rescales rho by gamma (and z̃ by 1/gamma, preserving rho·z̃ elementwise),
// subject to a cooldown and a cap on total adjustments.
type rhoAdapter struct {
	tau        float64
	streakNeed int
	delta      float64
	cooldown   int
	maxAdjust  int

	primalStreak int
	dualStreak   int
	sinceAdjust  int
	adjustments  int
}

func newRhoAdapter() *rhoAdapter {
	return &rhoAdapter{
		tau:        5,
		streakNeed: 3,
		delta:      1.05,
		cooldown:   5,
		maxAdjust:  1000,
		sinceAdjust: 1 << 30,
	}
}

// Adjust observes the current residual/tolerance ratios and, if warranted,
// mutates rho and rescales zt in place. It returns the (possibly adjusted)
// rho.
func (r *rhoAdapter) Adjust(rho float64, res Residuals, tol Tolerances, zt []float64) float64 {
	r.sinceAdjust++
	ratioP := ratio(res.Primal, tol.Primal)
	ratioD := ratio(res.Dual, tol.Dual)

	switch {
	case ratioP > r.tau*ratioD:
		r.primalStreak++
		r.dualStreak = 0
	case ratioD > r.tau*ratioP:
		r.dualStreak++
		r.primalStreak = 0
	default:
		r.primalStreak = 0
		r.dualStreak = 0
	}

	if r.sinceAdjust < r.cooldown || r.adjustments >= r.maxAdjust {
		return rho
	}

	var gamma float64
	switch {
	case r.primalStreak >= r.streakNeed:
		gamma = r.delta
	case r.dualStreak >= r.streakNeed:
		gamma = 1 / r.delta
	default:
		return rho
	}

	linalg.Scal(1/gamma, zt)
	r.sinceAdjust = 0
	r.adjustments++
	r.primalStreak = 0
	r.dualStreak = 0
	return rho * gamma
}

func ratio(res, tol float64) float64 {
	if tol <= 0 {
		if res == 0 {
			return 1
		}
		return 1e300
	}
	return res / tol
}
