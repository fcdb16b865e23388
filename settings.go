package pogs

import "github.com/rs/zerolog"

// Settings controls a single Solve call: a plain struct with documented
// defaults, constructed by DefaultSettings and copied as a whole by
// UpdateSettings rather than by an options-pattern of functional setters.
type Settings struct {
	// Alpha is the ADMM over-relaxation parameter, typically in [1.5,1.8].
	Alpha float64
	// Rho is the initial ADMM penalty.
	Rho float64
	// AbsTol, RelTol set the absolute/relative convergence tolerances.
	AbsTol, RelTol float64
	// MaxIter bounds the number of ADMM iterations.
	MaxIter int
	// Verbose selects the logging threshold: 0 passes only Error and more
	// severe messages, 1 Warn, 2 Info, 3 Debug, and 4 or more Trace.
	Verbose int
	// Suppress, when nonzero, disables the periodic per-iteration log
	// line even when Verbose would otherwise emit one.
	Suppress int
	// AdaptiveRho enables automatic penalty adjustment during the solve.
	AdaptiveRho bool
	// GapStop additionally requires the objective gap to fall below
	// tolerance before declaring convergence.
	GapStop bool
	// WarmStart and Resume select initialization mode; if both are set,
	// Resume takes precedence (see DESIGN.md).
	WarmStart bool
	Resume    bool
	// Accelerate enables Anderson acceleration (package accel).
	Accelerate bool
	// X0, Nu0 seed a warm start, in original (unscaled) coordinates.
	X0, Nu0 []float64

	// Logger receives structured solve diagnostics. If the zero value,
	// DefaultSettings' Nop logger is used.
	Logger zerolog.Logger
}

// DefaultSettings returns the solver's standard defaults:
// α=1.7, ρ=1.0, abstol=1e-4, reltol=1e-3, maxiter=2000, verbose=2,
// suppress=0, adaptiverho=1, gapstop=0, warmstart=0, resume=0,
// accelerate=0.
func DefaultSettings() Settings {
	return Settings{
		Alpha:       1.7,
		Rho:         1.0,
		AbsTol:      1e-4,
		RelTol:      1e-3,
		MaxIter:     2000,
		Verbose:     2,
		Suppress:    0,
		AdaptiveRho: true,
		GapStop:     false,
		WarmStart:   false,
		Resume:      false,
		Accelerate:  false,
		Logger:      zerolog.Nop(),
	}
}

// UpdateSettings copies every field of src into dst. Slice fields (X0,
// Nu0) are copied by reference, not deep-copied.
func UpdateSettings(dst, src *Settings) {
	*dst = *src
}

// loggerLevel maps Verbose onto a zerolog level, least chatty at 0.
func loggerLevel(verbose int) zerolog.Level {
	switch {
	case verbose <= 0:
		return zerolog.ErrorLevel
	case verbose == 1:
		return zerolog.WarnLevel
	case verbose == 2:
		return zerolog.InfoLevel
	case verbose == 3:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}
