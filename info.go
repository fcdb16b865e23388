package pogs

import (
	"time"

	"github.com/liq07lzucn/gopogs/status"
)

// Residuals are the primal/dual/gap residuals computed each iteration.
type Residuals struct {
	Primal, Dual, Gap float64
}

// Tolerances are the corresponding convergence thresholds.
type Tolerances struct {
	Primal, Dual, Gap, AtolM, AtolN, AtolMN float64
}

// Objectives are the primal, dual, and duality-gap objective values.
type Objectives struct {
	Primal, Dual, Gap float64
}

// Info reports the outcome of a Solve call.
type Info struct {
	K          int
	Converged  bool
	Status     status.Status
	Rho        float64
	Obj        Objectives
	Res        Residuals
	Tol        Tolerances
	SetupTime  time.Duration
	SolveTime  time.Duration
	// ObjectiveHistory is populated when Settings.Verbose>=3: the
	// per-iteration objective trace. ObjectiveMean and ObjectiveVariance
	// summarize it via gonum/stat once the solve ends; both stay zero
	// when ObjectiveHistory was never recorded. Diagnostic convenience,
	// not required for convergence.
	ObjectiveHistory                 []float64
	ObjectiveMean, ObjectiveVariance float64
}

// Output is the solution in user (unscaled) coordinates.
type Output struct {
	X, Y, Mu, Nu []float64
}
