package pogs

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/liq07lzucn/gopogs/accel"
	"github.com/liq07lzucn/gopogs/admm"
	"github.com/liq07lzucn/gopogs/equil"
	"github.com/liq07lzucn/gopogs/linalg"
	"github.com/liq07lzucn/gopogs/project"
	"github.com/liq07lzucn/gopogs/prox"
	"github.com/liq07lzucn/gopogs/status"
)

// andersonWindow is the default sliding-window length for Anderson
// acceleration: large enough to mix a handful of recent iterates, small
// enough that the per-step least squares stays cheap.
const andersonWindow = 5

// Solver owns the equilibrated matrix, its Cholesky-backed projector, and
// the ADMM iterate across one or more Solve calls. Construct with
// NewSolver; release with Finish.
type Solver struct {
	ID uuid.UUID

	a      *linalg.Matrix
	scales equil.Scales
	proj   *project.Direct
	state  *admm.State

	m, n int

	rho       float64
	hasSolved bool

	setupTime time.Duration
}

// NewSolver equilibrates a (in place) and factors its graph projector.
// kind selects the equilibration strategy.
func NewSolver(a *linalg.Matrix, kind equil.Kind) (*Solver, error) {
	start := time.Now()
	scales, err := equil.Equilibrate(a, kind)
	if err != nil {
		return nil, status.Wrap(status.NumericalFailure, "pogs.NewSolver", err)
	}
	proj, err := project.NewDirect(a)
	if err != nil {
		return nil, err
	}
	s := &Solver{
		ID:        uuid.New(),
		a:         a,
		scales:    scales,
		proj:      proj,
		state:     admm.New(a.Rows, a.Cols),
		m:         a.Rows,
		n:         a.Cols,
		rho:       DefaultSettings().Rho,
		setupTime: time.Since(start),
	}
	return s, nil
}

// Finish releases the solver's resources. After Finish the Solver must not
// be used again. gonum's BLAS/LAPACK bindings hold no solver-scoped handle
// to release, so Finish's only duty here is to drop the large buffers for
// the garbage collector.
func (s *Solver) Finish() {
	s.a = nil
	s.proj = nil
	s.state = nil
}

// Solve runs the ADMM loop to convergence or Settings.MaxIter, whichever
// comes first: each iteration performs prox, project, dual update,
// optional acceleration, residual/objective compute, convergence check,
// and optional ρ-adapt.
func (s *Solver) Solve(f, g prox.FunctionVector, settings *Settings) (*Info, *Output, error) {
	start := time.Now()
	if len(f) != s.m || len(g) != s.n {
		return nil, nil, status.New(status.InvalidArgument, "pogs.Solver.Solve")
	}
	if err := f.Validate(); err != nil {
		return nil, nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, nil, err
	}

	logger := settings.Logger.Level(loggerLevel(settings.Verbose))

	// The scaled variables are y½ = D·y and x½ = x/E (see admm.Unscale), so
	// f needs a/D, d/D and g needs a·E, d·E. Scale's f-branch multiplies and
	// its g-branch divides by the factor, hence the reciprocals here.
	invD := make([]float64, s.m)
	for i, v := range s.scales.D {
		invD[i] = 1 / v
	}
	invE := make([]float64, s.n)
	for j, v := range s.scales.E {
		invE[j] = 1 / v
	}
	scaledF := append(prox.FunctionVector(nil), f...)
	scaledG := append(prox.FunctionVector(nil), g...)
	scaledF.Scale(invD, false)
	scaledG.Scale(invE, true)

	resume := settings.Resume && s.hasSolved
	rho := s.rho
	if !resume {
		rho = settings.Rho
	}

	switch {
	case resume:
		// Iterates already hold the prior solve's state; continue from
		// there. Resume takes precedence over WarmStart (see DESIGN.md).
	case settings.WarmStart:
		admm.WarmStart(s.state, s.a, s.scales.D, s.scales.E, rho, settings.X0, settings.Nu0)
	default:
		*s.state = *admm.New(s.m, s.n)
	}

	var accelerator *accel.Anderson
	if settings.Accelerate {
		accelerator = accel.New(andersonWindow, s.m+s.n)
	}

	adapter := newRhoAdapter()
	info := &Info{Status: status.OK, Rho: rho}
	var res Residuals
	var tol Tolerances

	k := 0
	for ; k < settings.MaxIter; k++ {
		prevZ := append([]float64(nil), s.state.Z...)

		if err := admm.Step(s.state, scaledF, scaledG, s.proj, rho, settings.Alpha); err != nil {
			return nil, nil, err
		}

		if accelerator != nil {
			accelerator.Push(prevZ, s.state.Z)
			if mixed := accelerator.Mix(); mixed != nil {
				plainFeas := s.proj.Feasibility(s.state.X(s.state.Z), s.state.Y(s.state.Z))
				mixedFeas := s.proj.Feasibility(s.state.X(mixed), s.state.Y(mixed))
				if mixedFeas <= accelerator.Eta*plainFeas {
					copy(s.state.Z, mixed)
					copy(s.state.ZPrev, mixed)
				} else {
					accelerator.Reset()
				}
			}
		}

		res, tol = computeResiduals(s.a, s.state, settings)

		obj := scaledF.Value(s.state.Y(s.state.Z12)) + scaledG.Value(s.state.X(s.state.Z12))
		if settings.Verbose >= 3 {
			info.ObjectiveHistory = append(info.ObjectiveHistory, obj)
		}
		if settings.Suppress == 0 {
			logger.Debug().Int("k", k).Float64("rho", rho).Float64("primal", res.Primal).Float64("dual", res.Dual).Msg("pogs iteration")
		}

		if converged(res, tol, obj, settings.GapStop, settings.RelTol) {
			info.Converged = true
			k++
			break
		}

		if settings.AdaptiveRho {
			rho = adapter.Adjust(rho, res, tol, s.state.Zt)
		}
	}

	info.K = k
	info.Res = res
	info.Tol = tol
	info.Rho = rho
	info.SetupTime = s.setupTime
	info.SolveTime = time.Since(start)
	if !info.Converged {
		info.Status = status.NotConverged
	}

	out := admm.Unscale(s.state, s.scales.D, s.scales.E, rho)
	info.Obj.Primal = f.Value(out.Y) + g.Value(out.X)
	// At optimality, complementary slackness gives y⊤ν + x⊤μ → 0; its
	// magnitude is the duality gap, and dual = primal - gap.
	info.Obj.Gap = math.Abs(linalg.Dot(out.Y, out.Nu) + linalg.Dot(out.X, out.Mu))
	info.Obj.Dual = info.Obj.Primal - info.Obj.Gap

	if len(info.ObjectiveHistory) > 0 {
		info.ObjectiveMean = stat.Mean(info.ObjectiveHistory, nil)
	}
	if len(info.ObjectiveHistory) > 1 {
		info.ObjectiveVariance = stat.Variance(info.ObjectiveHistory, info.ObjectiveMean, nil)
	}

	s.rho = rho
	s.hasSolved = true

	logger.Info().Int("k", info.K).Bool("converged", info.Converged).Dur("solve_time", info.SolveTime).Msg("pogs solve done")

	return info, &Output{X: out.X, Y: out.Y, Mu: out.Mu, Nu: out.Nu}, nil
}

// SolveDirect is a one-shot convenience wrapping NewSolver+Solve+Finish for
// callers who do not need to reuse a factorized solver across multiple f,g
// pairs.
func SolveDirect(a *linalg.Matrix, kind equil.Kind, f, g prox.FunctionVector, settings *Settings) (*Info, *Output, error) {
	s, err := NewSolver(a, kind)
	if err != nil {
		return nil, nil, err
	}
	defer s.Finish()
	return s.Solve(f, g, settings)
}
