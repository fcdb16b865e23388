package pogs

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/google/uuid"

	"github.com/liq07lzucn/gopogs/admm"
	"github.com/liq07lzucn/gopogs/equil"
	"github.com/liq07lzucn/gopogs/linalg"
	"github.com/liq07lzucn/gopogs/project"
	"github.com/liq07lzucn/gopogs/status"
)

// State is the light persisted-state variant: the ADMM iterates and rho,
// but not the equilibrated matrix or its Cholesky factor (reconstructible
// from the unchanged problem matrix). SolverID records the ID of the solver
// that produced it; LoadState and LoadSolver give the restored solver that
// ID and do not compare it against anything.
type State struct {
	SolverID uuid.UUID

	M, N int
	Z, Z12, Zt, Zt12, ZPrev []float64
	D, E                    []float64
	Rho                     float64
}

// PrivateState additionally carries the equilibrated matrix, letting
// LoadSolver skip equilibration. The Cholesky factor is not stored, so
// LoadSolver still refactors it.
type PrivateState struct {
	AEquil   []float64
	Rows, Cols int
}

// SaveState captures the solver's current iterate, scales, and rho.
func (s *Solver) SaveState() (*State, error) {
	if s.state == nil {
		return nil, status.New(status.InvalidArgument, "pogs.Solver.SaveState")
	}
	return &State{
		SolverID: s.ID,
		M:        s.m,
		N:        s.n,
		Z:        append([]float64(nil), s.state.Z...),
		Z12:      append([]float64(nil), s.state.Z12...),
		Zt:       append([]float64(nil), s.state.Zt...),
		Zt12:     append([]float64(nil), s.state.Zt12...),
		ZPrev:    append([]float64(nil), s.state.ZPrev...),
		D:        append([]float64(nil), s.scales.D...),
		E:        append([]float64(nil), s.scales.E...),
		Rho:      s.rho,
	}, nil
}

// LoadState restores a previously-saved iterate over the same problem
// matrix a, putting the returned solver into resume mode. Unlike
// NewSolver, it does not run Sinkhorn equilibration: A′ is reconstructed
// algebraically as diag(st.D)*a.Original*diag(st.E), the exact
// equilibration the saved scales describe, which is both cheaper than and
// not guaranteed to agree with a fresh Sinkhorn pass over a. The graph
// projector's Cholesky factor is not serialized, so it is still refactored
// here — the one piece of setup LoadState cannot skip. kind is accepted
// for signature symmetry with NewSolver but unused: the equilibration
// strategy was already fixed when st.D/st.E were produced.
func LoadState(a *linalg.Matrix, kind equil.Kind, st *State) (*Solver, error) {
	if st.M != a.Rows || st.N != a.Cols {
		return nil, status.New(status.InvalidArgument, "pogs.LoadState")
	}
	if len(st.D) != a.Rows || len(st.E) != a.Cols {
		return nil, status.New(status.InvalidArgument, "pogs.LoadState")
	}
	start := time.Now()
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			a.Set(i, j, a.Original[i*a.Cols+j]*st.D[i]*st.E[j])
		}
	}
	proj, err := project.NewDirect(a)
	if err != nil {
		return nil, status.Wrap(status.NumericalFailure, "pogs.LoadState", err)
	}
	s := &Solver{
		ID:        st.SolverID,
		a:         a,
		scales:    equil.Scales{D: append([]float64(nil), st.D...), E: append([]float64(nil), st.E...)},
		proj:      proj,
		state:     admm.New(st.M, st.N),
		m:         st.M,
		n:         st.N,
		rho:       st.Rho,
		hasSolved: true,
		setupTime: time.Since(start),
	}
	copy(s.state.Z, st.Z)
	copy(s.state.Z12, st.Z12)
	copy(s.state.Zt, st.Zt)
	copy(s.state.Zt12, st.Zt12)
	copy(s.state.ZPrev, st.ZPrev)
	return s, nil
}

// ExportSolver captures both the light State and the heavier PrivateState
// (equilibrated matrix, for a loader that wants to skip re-equilibration
// too; the Cholesky factor itself is cheap enough to recompute from
// AEquil that it is not separately serialized here — the loader tolerates
// an absent factorization).
func (s *Solver) ExportSolver() (*PrivateState, *State, error) {
	st, err := s.SaveState()
	if err != nil {
		return nil, nil, err
	}
	priv := &PrivateState{
		AEquil: append([]float64(nil), s.a.Data...),
		Rows:   s.a.Rows,
		Cols:   s.a.Cols,
	}
	return priv, st, nil
}

// LoadSolver reconstructs a Solver from a PrivateState (the equilibrated
// matrix, so no re-equilibration is needed) and a State (the iterates and
// rho). It refactors the projector's Cholesky decomposition, since that is
// not part of either serialized struct.
func LoadSolver(priv *PrivateState, st *State) (*Solver, error) {
	m, n := priv.Rows, priv.Cols
	a := &linalg.Matrix{
		Rows: m, Cols: n, RowMajor: true,
		Data:     append([]float64(nil), priv.AEquil...),
		Original: append([]float64(nil), priv.AEquil...),
	}
	proj, err := project.NewDirect(a)
	if err != nil {
		return nil, err
	}
	s := &Solver{
		ID:        st.SolverID,
		a:         a,
		scales:    equil.Scales{D: append([]float64(nil), st.D...), E: append([]float64(nil), st.E...)},
		proj:      proj,
		state:     admm.New(m, n),
		m:         m,
		n:         n,
		rho:       st.Rho,
		hasSolved: true,
	}
	copy(s.state.Z, st.Z)
	copy(s.state.Z12, st.Z12)
	copy(s.state.Zt, st.Zt)
	copy(s.state.Zt12, st.Zt12)
	copy(s.state.ZPrev, st.ZPrev)
	return s, nil
}

// EncodeState gob-encodes a State for external storage.
func EncodeState(st *State) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return nil, status.Wrap(status.ResourceExhaustion, "pogs.EncodeState", err)
	}
	return buf.Bytes(), nil
}

// DecodeState reverses EncodeState.
func DecodeState(data []byte) (*State, error) {
	var st State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return nil, status.Wrap(status.InvalidArgument, "pogs.DecodeState", err)
	}
	return &st, nil
}
